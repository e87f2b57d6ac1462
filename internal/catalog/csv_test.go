package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"novelhub/internal/catalog"
	"novelhub/pkg/models"
)

func TestCSVRoundTrip(t *testing.T) {
	in := []models.Novel{
		{ID: 1, Title: "Foo, the \"First\"", Image: "f.png", Status: "Ongoing", Genres: "Drama, Action", NumVolumes: 3, Synopsis: "line one\nline two"},
		{ID: 2, Title: "Bar", Status: "Completed", URL: "https://x.test/Bar.html"},
	}

	var buf bytes.Buffer
	require.NoError(t, catalog.WriteCSV(&buf, in))

	out, err := catalog.ReadCSV(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_HeaderOrderAndSkips(t *testing.T) {
	out, err := catalog.ReadCSV(strings.NewReader(
		"title,id,extra\nFoo,7,x\n,8,x\nNoID,,x\n"))
	require.NoError(t, err)
	require.Equal(t, []models.Novel{{ID: 7, Title: "Foo"}}, out)
}

func TestReadCSV_BadID(t *testing.T) {
	_, err := catalog.ReadCSV(strings.NewReader("id,title\nseven,Foo\n"))
	require.ErrorContains(t, err, "line 2")
}
