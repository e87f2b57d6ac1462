package novel_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelhub/internal/novel"
	"novelhub/pkg/database"
	"novelhub/pkg/models"
)

func newRepo(t *testing.T) *novel.Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "novels.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return novel.NewRepo(db)
}

var fixture = []models.Novel{
	{ID: 2, Title: "Spice and Wolf", Image: "static/media/spice.png", Status: "Completed", Genres: "Fantasy, Romance", NumVolumes: 22, Synopsis: "A merchant and a wolf.", URL: "https://example.test/spice"},
	{ID: 1, Title: "Overlord", Image: "static/media/overlord.png", Status: "Ongoing", Genres: "Action", NumVolumes: 16},
	{ID: 3, Title: "Wolf Children", Status: "completed "},
}

func TestRepo_UpsertAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, fixture))

	got, err := repo.List(ctx, novel.ListQuery{})
	require.NoError(t, err)

	want := []models.Novel{fixture[1], fixture[0], fixture[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestRepo_UpsertReplaces(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, fixture))

	updated := fixture[1]
	updated.NumVolumes = 17
	require.NoError(t, repo.Upsert(ctx, []models.Novel{updated}))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 17, got.NumVolumes)

	total, err := repo.Count(ctx, novel.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestRepo_GetByIDMissing(t *testing.T) {
	repo := newRepo(t)
	got, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_ListQuery(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, fixture))

	got, err := repo.List(ctx, novel.ListQuery{Q: "WOLF", Status: "completed"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	total, err := repo.Count(ctx, novel.ListQuery{Status: "ongoing"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRepo_ListQueryIsLiteral(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	novels := []models.Novel{
		{ID: 1, Title: "100% Orange"},
		{ID: 2, Title: "1000 Days"},
		{ID: 3, Title: "snake_case"},
		{ID: 4, Title: "snakescase"},
		{ID: 5, Title: `Back\Slash`},
	}
	require.NoError(t, repo.Upsert(ctx, novels))

	for _, q := range []string{"100%", "e_c", `k\s`, "%", "_"} {
		got, err := repo.List(ctx, novel.ListQuery{Q: q})
		require.NoError(t, err)
		if diff := cmp.Diff(novel.Filter(novels, novel.ListQuery{Q: q}), got); diff != "" {
			t.Errorf("q=%q: List disagrees with Filter (-filter +list):\n%s", q, diff)
		}
		total, err := repo.Count(ctx, novel.ListQuery{Q: q})
		require.NoError(t, err)
		assert.Equal(t, len(got), total, q)
	}
}

func TestFilter_MatchesRepoSemantics(t *testing.T) {
	got := novel.Filter(fixture, novel.ListQuery{Q: " wolf ", Status: "Completed"})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID, "document order is kept")
	assert.Equal(t, 3, got[1].ID)

	assert.Len(t, novel.Filter(fixture, novel.ListQuery{}), 3)
	assert.Empty(t, novel.Filter(fixture, novel.ListQuery{Q: "nothing"}))
}
