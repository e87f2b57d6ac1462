package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelhub/pkg/models"
)

func TestNovel_UnmarshalNumbers(t *testing.T) {
	var n models.Novel
	err := json.Unmarshal([]byte(`{"id":1,"title":"Foo","image":"/i.png","status":"Ongoing","genres":"Action","num_volumes":5,"synopsis":"..."}`), &n)
	require.NoError(t, err)

	assert.Equal(t, models.Novel{
		ID:         1,
		Title:      "Foo",
		Image:      "/i.png",
		Status:     "Ongoing",
		Genres:     "Action",
		NumVolumes: 5,
		Synopsis:   "...",
	}, n)
}

func TestNovel_UnmarshalNumericStrings(t *testing.T) {
	var n models.Novel
	err := json.Unmarshal([]byte(`{"id":" 7 ","num_volumes":"12"}`), &n)
	require.NoError(t, err)

	assert.Equal(t, 7, n.ID)
	assert.Equal(t, 12, n.NumVolumes)
}

func TestNovel_UnmarshalIntegralFloat(t *testing.T) {
	var n models.Novel
	require.NoError(t, json.Unmarshal([]byte(`{"id":3.0,"num_volumes":null}`), &n))

	assert.Equal(t, 3, n.ID)
	assert.Zero(t, n.NumVolumes)
}

func TestNovel_UnmarshalRejectsBadID(t *testing.T) {
	for _, doc := range []string{
		`{"id":"abc"}`,
		`{"id":1.5}`,
		`{"id":true}`,
	} {
		var n models.Novel
		assert.Error(t, json.Unmarshal([]byte(doc), &n), doc)
	}
}

func TestGenres_ListIsJoined(t *testing.T) {
	var n models.Novel
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"genres":["Action","Drama"]}`), &n))

	assert.Equal(t, models.Genres("Action, Drama"), n.Genres)
}

func TestGenres_NullIsEmpty(t *testing.T) {
	var n models.Novel
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"genres":null}`), &n))

	assert.Empty(t, n.Genres.String())
}

func TestNovel_MarshalKeepsDocumentKeys(t *testing.T) {
	b, err := json.Marshal(models.Novel{ID: 2, Title: "Bar", Genres: "Fantasy", NumVolumes: 3})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":2,"title":"Bar","image":"","status":"","genres":"Fantasy","num_volumes":3}`, string(b))
}
