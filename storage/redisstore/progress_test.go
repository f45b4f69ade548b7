package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/core/progress"
)

// needs a disposable Redis server, e.g. TEST_REDIS_URL=redis://localhost:6379/15
func newTestRepo(t *testing.T) *progressRepository {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	ctx := context.Background()
	client, err := Open(ctx, url)
	require.NoError(t, err)

	repo := &progressRepository{client: client, key: ProgressKey + ":test"}
	t.Cleanup(func() {
		_ = client.Del(ctx, repo.key).Err()
		_ = client.Close()
	})
	require.NoError(t, client.Del(ctx, repo.key).Err())
	return repo
}

func TestProgressRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetProgress(ctx, "u1")
	assert.Equal(t, progress.ErrNotFound, err)

	rec := progress.Record{
		Name:  "Ann",
		Group: "IELTS 5",
		Books: map[string]*progress.BookProgress{
			"b1": {Units: map[string]*progress.UnitProgress{"1.1": {VocabularyFound: []int{1}, ReadingTime: 3, Completed: true}}},
		},
		TotalExercises: 1,
		AverageScore:   50,
	}
	require.NoError(t, repo.SetProgress(ctx, "u1", rec))
	require.NoError(t, repo.SetProgress(ctx, "u2", progress.Record{Name: "Bob", Books: map[string]*progress.BookProgress{}}))

	got, err := repo.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	all, err := repo.QueryAllProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Bob", all["u2"].Name)
}

func TestOpen_badURL(t *testing.T) {
	_, err := Open(context.Background(), "http://nope")
	assert.Error(t, err)
}
