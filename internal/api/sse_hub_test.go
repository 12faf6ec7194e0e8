package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"barstack/domain/core"
	"barstack/internal"
	"barstack/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.HeightNotifier = (*SSEHub)(nil)

func newTestHub(t *testing.T) *SSEHub {
	hub := NewSSEHub(internal.NewLogger(internal.LogLevelError))
	t.Cleanup(hub.Close)
	return hub
}

func TestHubDeliversToSessionOnly(t *testing.T) {
	hub := newTestHub(t)
	mine, leaveMine := hub.Subscribe("viewer-1")
	defer leaveMine()
	other, leaveOther := hub.Subscribe("viewer-2")
	defer leaveOther()

	hub.NotifyHeight("viewer-1", 372)

	select {
	case event := <-mine:
		assert.Equal(t, "viewer-1", event.SessionID)
		assert.Equal(t, 372.0, event.Height)
	case <-time.After(time.Second):
		t.Fatal("height event not delivered")
	}

	select {
	case event := <-other:
		t.Fatalf("unexpected event for other session: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubSubscribeAndLeave(t *testing.T) {
	hub := newTestHub(t)
	_, leave := hub.Subscribe("viewer")
	assert.Equal(t, 1, hub.GetClientCount("viewer"))
	assert.Equal(t, []core.SessionID{"viewer"}, hub.GetActiveSessions())

	leave()
	leave()
	assert.Equal(t, 0, hub.GetClientCount("viewer"))
	assert.Empty(t, hub.GetActiveSessions())
}

func TestHubDropsWhenClientIsFull(t *testing.T) {
	hub := newTestHub(t)
	events, leave := hub.Subscribe("slow")
	defer leave()

	for i := 0; i < clientBuffer+5; i++ {
		hub.NotifyHeight("slow", float64(i))
	}
	assert.Eventually(t, func() bool { return len(events) == clientBuffer }, time.Second, 5*time.Millisecond)
}

// closeNotifyingRecorder satisfies the http.CloseNotifier that gin's Stream expects.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool { return r.closed }

func TestHandleSSERequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := newTestHub(t)
	router := gin.New()
	router.GET("/api/events", hub.HandleSSE)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSSEStreamsHeight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := newTestHub(t)
	router := gin.New()
	router.GET("/api/events", hub.HandleSSE)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events?session_id=viewer", nil).WithContext(ctx)
	w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.GetClientCount("viewer") == 1 }, time.Second, 5*time.Millisecond)
	hub.NotifyHeight("viewer", 410)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event:height"), body)
	assert.Contains(t, body, `"height":410`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}
