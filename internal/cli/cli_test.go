package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelhub/internal/catalog"
	"novelhub/internal/live"
	"novelhub/pkg/utils"
)

const sampleDoc = `[
  {"id": 1, "title": "Foo", "image": "f.png", "status": "Ongoing", "genres": "Drama", "num_volumes": 3, "synopsis": "S"},
  {"id": 2, "title": "Bar", "image": "b.png", "status": "Completed", "genres": ["Action", "Fantasy"], "num_volumes": 7}
]`

// workspace writes a data directory and a config file pointing at it.
func workspace(t *testing.T, extra string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "data.json"), []byte(sampleDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "novels_data.json"), []byte(sampleDoc), 0o644))

	cfg := `
logging:
  level: error
data:
  dir: ` + data + `
  list_source: ` + filepath.Join(data, "data.json") + `
  linked_source: ` + filepath.Join(data, "novels_data.json") + `
  detail_source: ` + filepath.Join(data, "data.json") + `
database:
  path: ` + filepath.Join(dir, "novels.db") + `
` + extra
	cfgPath = filepath.Join(dir, "novelhub.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	_, cfg := workspace(t, "")

	out, err := run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Action, Fantasy")
	assert.Contains(t, out, "2 novels")

	out, err = run(t, "--config", cfg, "list", "--status", "completed", "--json")
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Bar", got[0]["title"])
}

func TestShowCmd(t *testing.T) {
	_, cfg := workspace(t, "")

	out, err := run(t, "--config", cfg, "show", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Ongoing")

	for _, id := range []string{"9", "abc", ""} {
		out, err = run(t, "--config", cfg, "show", "--id", id)
		require.NoError(t, err, id)
		assert.Equal(t, "Novel not found.\n", out, id)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	dir, cfg := workspace(t, "")
	doc := filepath.Join(dir, "data", "novels_data.json")

	out, err := run(t, "--config", cfg, "import", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 novels")

	csvPath := filepath.Join(dir, "out", "novels.csv")
	_, err = run(t, "--config", cfg, "export", "--format", "csv", "--out", csvPath)
	require.NoError(t, err)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	novels, err := catalog.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, novels, 2)
	assert.Equal(t, "Action, Fantasy", novels[1].Genres.String())

	out, err = run(t, "--config", cfg, "list", "--from", "sqlite:", "-q", "fo")
	require.NoError(t, err)
	assert.Contains(t, out, "1 novels")
}

func TestExportCmd_BadFormat(t *testing.T) {
	_, cfg := workspace(t, "")
	_, err := run(t, "--config", cfg, "export", "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestScrapeCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<h2>Foo</h2><a class="link-a" href="html/htmlFoo.html">x</a>`))
	})
	mux.HandleFunc("/novels/Foo.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<title>Foo (EPUB)</title><h3>Status</h3><p>Ongoing</p>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir, cfg := workspace(t, `scraper:
  website_base_url: `+srv.URL+`/
  novel_base_url: `+srv.URL+`/novels/
  pause_min: 0s
  pause_max: 0s
`)
	output := filepath.Join(dir, "data", "scraped.json")

	out, err := run(t, "--config", cfg, "scrape", "--output", output, "--no-images")
	require.NoError(t, err)
	assert.Contains(t, out, "scraped 1 novels")

	novels, err := catalog.FileSource{Path: output}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, novels, 1)
	assert.Equal(t, 1, novels[0].ID)
	assert.Equal(t, "Foo", novels[0].Title)
	assert.Equal(t, "Ongoing", novels[0].Status)
	assert.Equal(t, srv.URL+"/novels/Foo.html", novels[0].URL)
}

func TestScrapeCmd_SkipDownloadNeedsOfflineDir(t *testing.T) {
	_, cfg := workspace(t, "")
	_, err := run(t, "--config", cfg, "scrape", "--skip-download")
	require.ErrorContains(t, err, "--offline-dir")
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir, _ := workspace(t, "")
	static := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "style.css"), []byte("body{}"), 0o644))

	src := catalog.FileSource{Path: filepath.Join(dir, "data", "data.json")}
	r := newRouter(routerDeps{
		Server: utils.ServerConfig{StaticDir: static},
		Data:   utils.DataConfig{Dir: filepath.Join(dir, "data")},
		List:   src,
		Linked: src,
		Detail: src,
		Hub:    live.NewHub(zerolog.Nop()),
		Log:    zerolog.Nop(),
	})

	for path, want := range map[string]int{
		"/health":                  http.StatusOK,
		"/ready":                   http.StatusOK,
		"/":                        http.StatusOK,
		"/novels.html":             http.StatusOK,
		"/novel_details.html?id=2": http.StatusOK,
		"/api/novels":              http.StatusOK,
		"/api/novels/5":            http.StatusNotFound,
		"/data/data.json":          http.StatusOK,
		"/static/css/style.css":    http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `"ws_clients":0`), rec.Body.String())
}

func TestLogDirectoryGetsTimestampedFile(t *testing.T) {
	dir, cfg := workspace(t, "")
	logs := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logs, 0o755))
	t.Setenv("NOVELHUB_LOG_FILE", logs)

	_, err := run(t, "--config", cfg, "--log-level", "info", "list")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(logs, "*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
