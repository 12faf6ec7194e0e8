package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"barstack/domain/core"
	"barstack/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const raisesCSV = "name,pay,raise\nAlice, 100000,5000\nBob,90000,2500\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVFile(t *testing.T) {
	path := writeFile(t, "raises.csv", raisesCSV)

	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "pay", "raise"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, dataset.RawRow{"name": "Alice", "pay": "100000", "raise": "5000"}, table.Rows[0])
}

func TestReadCSVKeepsShortRowsShort(t *testing.T) {
	path := writeFile(t, "short.csv", "name,pay,raise\nAlice,1\nBob,2,3,99\n")

	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
	require.NoError(t, err)
	_, hasRaise := table.Rows[0]["raise"]
	assert.False(t, hasRaise)
	assert.Len(t, table.Rows[1], 3)
}

func TestReadCSVStripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", "\xef\xbb\xbfyear,a\n2001,1\n")
	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "year", table.CategoryColumn())
}

func TestReadMissingFileIsFetchError(t *testing.T) {
	_, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: filepath.Join(t.TempDir(), "gone.csv")})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFetch)
}

func TestReadDecodeFailuresAreMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"duplicate header": "a,a\n1,2\n",
		"blank header":     "a,,b\n1,2,3\n",
		"bad quoting":      "a,b\n\"1,2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", content)
			_, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedInput)
		})
	}
}

func TestReadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/static/raises1.csv" {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(raisesCSV))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	reader := NewReaderWithClient(srv.Client())
	table, err := reader.Read(context.Background(), dataset.Source{Path: srv.URL + "/static/raises1.csv"})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)

	_, err = reader.Read(context.Background(), dataset.Source{Path: srv.URL + "/static/missing.csv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFetch)
	assert.Contains(t, err.Error(), "404")
}

func TestReadHonoursContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReaderWithClient(srv.Client()).Read(ctx, dataset.Source{Path: srv.URL + "/a.csv"})
	assert.ErrorIs(t, err, core.ErrFetch)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "pay", "raise"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Alice", 100000, 5000}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Bob", 90000}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	path := writeFile(t, "raises.xlsx", buf.String())

	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "pay", "raise"}, table.Headers)
	assert.Equal(t, "100000", table.Rows[0]["pay"])
	assert.Equal(t, "", table.Rows[1]["raise"])

	_, err = NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path, Sheet: "Nope"})
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestReadJSON(t *testing.T) {
	doc := `{"meta":{"n":2},"data":[{"name":"Alice","pay":100000,"raise":"5000"},{"raise":2500,"pay":90000,"name":"Bob","extra":true}]}`
	path := writeFile(t, "raises.json", doc)

	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path, DataPath: "data"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "pay", "raise"}, table.Headers)
	assert.Equal(t, dataset.RawRow{"name": "Bob", "pay": "90000", "raise": "2500"}, table.Rows[1])
}

func TestReadJSONErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		path string
	}{
		"invalid":      {`{"data":`, "data"},
		"missing path": {`{"rows":[]}`, "data"},
		"not array":    {`{"data":{"a":1}}`, "data"},
		"scalar rows":  {`[1,2]`, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "bad.json", tc.doc)
			_, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path, DataPath: tc.path})
			assert.ErrorIs(t, err, core.ErrMalformedInput)
		})
	}
}

func TestReadJSONMissingKeyShortensRow(t *testing.T) {
	path := writeFile(t, "gap.json", `[{"name":"A","pay":1,"raise":2},{"name":"B","raise":3}]`)
	table, err := NewReader(time.Second).Read(context.Background(), dataset.Source{Path: path})
	require.NoError(t, err)
	_, hasPay := table.Rows[1]["pay"]
	assert.False(t, hasPay)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, dataset.FormatXLSX, DetectFormat(dataset.Source{Path: "a/b.XLSX"}))
	assert.Equal(t, dataset.FormatJSON, DetectFormat(dataset.Source{Path: "https://x.test/feed.json?v=2"}))
	assert.Equal(t, dataset.FormatCSV, DetectFormat(dataset.Source{Path: "raises1.csv"}))
	assert.Equal(t, dataset.FormatCSV, DetectFormat(dataset.Source{Path: "noext"}))
	assert.Equal(t, dataset.FormatJSON, DetectFormat(dataset.Source{Path: "a.csv", Format: dataset.FormatJSON}))
}
