package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const wait = 30 * time.Millisecond

func TestTriggerCoalescesBurst(t *testing.T) {
	d := New(wait)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 10; i++ {
		i := i
		d.Trigger("viewer", func() {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * wait)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(10), last.Load(), "the latest event wins")
	assert.Equal(t, 0, d.Pending())
}

func TestTriggerKeysAreIndependent(t *testing.T) {
	d := New(wait)
	defer d.Stop()

	var mu sync.Mutex
	fired := map[string]int{}
	for _, key := range []string{"a", "b", "a"} {
		key := key
		d.Trigger(key, func() {
			mu.Lock()
			fired[key]++
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired["a"] == 1 && fired["b"] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSeparateWindowsFireSeparately(t *testing.T) {
	d := New(wait)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger("k", func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	d.Trigger("k", func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestCancelAndStop(t *testing.T) {
	d := New(wait)
	var calls atomic.Int32

	d.Trigger("k", func() { calls.Add(1) })
	assert.Equal(t, 1, d.Pending())
	d.Cancel("k")
	assert.Equal(t, 0, d.Pending())

	d.Trigger("j", func() { calls.Add(1) })
	d.Stop()
	d.Trigger("j", func() { calls.Add(1) })

	time.Sleep(3 * wait)
	assert.Equal(t, int32(0), calls.Load())
}
