package catalog_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelhub/internal/catalog"
	"novelhub/internal/novel"
	"novelhub/pkg/database"
	"novelhub/pkg/models"
)

const sampleDoc = `[
  {"id":1,"title":"Foo","image":"/i.png","status":"Ongoing","genres":"Action","num_volumes":5,"synopsis":"..."},
  {"id":3,"title":"Bar","image":"/b.png","status":"Completed","genres":["Drama","Slice of Life"],"num_volumes":"2"},
  {"id":1,"title":"Duplicate","image":"","status":"","genres":"","num_volumes":0}
]`

func TestDecode(t *testing.T) {
	novels, err := catalog.Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, novels, 3)

	assert.Equal(t, "Foo", novels[0].Title)
	assert.Equal(t, models.Genres("Drama, Slice of Life"), novels[1].Genres)
	assert.Equal(t, 2, novels[1].NumVolumes)
}

func TestDecode_EmptyArray(t *testing.T) {
	novels, err := catalog.Decode(strings.NewReader("\ufeff  []"))
	require.NoError(t, err)
	assert.NotNil(t, novels)
	assert.Empty(t, novels)
}

func TestDecode_Failures(t *testing.T) {
	_, err := catalog.Decode(strings.NewReader(`{"id":1}`))
	assert.ErrorIs(t, err, catalog.ErrNotArray)

	_, err = catalog.Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = catalog.Decode(strings.NewReader(`[{"id":"one"}]`))
	assert.Error(t, err)

	_, err = catalog.Decode(strings.NewReader(`[{"id":1},`))
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	cases := []struct {
		raw  string
		id   int
		want bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"2x", 0, false},
		{"1.0", 1, true},
		{"1e0", 1, true},
		{"3.", 3, true},
		{"-0.0", 0, true},
		{"2.5e1", 25, true},
		{"1e-1", 0, false},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"0x1p0", 0, false},
		{"1e300", 0, false},
	}
	for _, tc := range cases {
		id, ok := catalog.ParseID(tc.raw)
		assert.Equal(t, tc.want, ok, tc.raw)
		assert.Equal(t, tc.id, id, tc.raw)
	}
}

func TestFind(t *testing.T) {
	novels, err := catalog.Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	n, ok := catalog.Find(novels, 1)
	require.True(t, ok)
	assert.Equal(t, "Foo", n.Title, "first match wins on duplicate ids")

	n, ok = catalog.Find(novels, 3)
	require.True(t, ok)
	assert.Equal(t, "Bar", n.Title)

	_, ok = catalog.Find(novels, 2)
	assert.False(t, ok)

	_, ok = catalog.Find(nil, 1)
	assert.False(t, ok)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	novels, err := catalog.FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, novels, 3)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := catalog.FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/novels_data.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleDoc)
	}))
	defer srv.Close()

	novels, err := catalog.HTTPSource{URL: srv.URL + "/data/novels_data.json", Client: srv.Client()}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, novels, 3)

	_, err = catalog.HTTPSource{URL: srv.URL + "/missing.json"}.Load(context.Background())
	var statusErr *catalog.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestDBSource(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "novels.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))

	repo := novel.NewRepo(db)
	require.NoError(t, repo.Upsert(context.Background(), []models.Novel{{ID: 5, Title: "Five"}, {ID: 4, Title: "Four"}}))

	src, err := catalog.Open("sqlite:", repo, nil)
	require.NoError(t, err)

	novels, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, novels, 2)
	assert.Equal(t, 4, novels[0].ID)
}

func TestOpen(t *testing.T) {
	src, err := catalog.Open("data/data.json", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, catalog.FileSource{}, src)

	src, err = catalog.Open("https://example.test/data.json", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, catalog.HTTPSource{}, src)

	_, err = catalog.Open("sqlite:", nil, nil)
	assert.Error(t, err)

	_, err = catalog.Open("  ", nil, nil)
	assert.Error(t, err)
}
