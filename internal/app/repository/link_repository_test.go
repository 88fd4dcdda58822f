package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sifan077/tinyurl/internal/app/model"
	"github.com/sifan077/tinyurl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *linkRepository {
	t.Helper()
	return NewLinkRepository(testutil.NewSQLite(t)).(*linkRepository)
}

func countLinks(t *testing.T, repo *linkRepository) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.db.Model(&model.Link{}).Count(&n).Error)
	return n
}

func TestLinkRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	link := &model.Link{Code: "ABC123", URL: "https://example.com"}
	require.NoError(t, repo.Create(ctx, link))
	assert.False(t, link.CreatedAt.IsZero())

	got, err := repo.GetByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, int64(0), got.TotalClicks)
	assert.Nil(t, got.LastClicked)

	exists, err := repo.Exists(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "XYZ789")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLinkRepository_CreateDuplicate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://example.com"}))

	err := repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://other.example.com"})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	got, err := repo.GetByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL, "original row must be untouched")
}

func TestLinkRepository_GetByCode_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByCode(context.Background(), "NOPE00")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkRepository_List(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	empty, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"first1", "second", "third3"} {
		require.NoError(t, repo.Create(ctx, &model.Link{
			Code:      code,
			URL:       "https://example.com/" + code,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third3", all[0].Code)
	assert.Equal(t, "second", all[1].Code)
	assert.Equal(t, "first1", all[2].Code)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Code)
}

func TestLinkRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://example.com"}))
	require.NoError(t, repo.Delete(ctx, "ABC123"))

	_, err := repo.GetByCode(ctx, "ABC123")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	_, err = repo.ResolveAndTrack(ctx, "ABC123")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "ABC123"), ErrLinkNotFound)
}

func TestLinkRepository_ResolveAndTrack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://example.com"}))

	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Minute)
		url, err := repo.ResolveAndTrack(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url)
	}

	got, err := repo.GetByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalClicks)
	require.NotNil(t, got.LastClicked)
	assert.True(t, got.LastClicked.Equal(clock), "last_clicked %v, want %v", got.LastClicked, clock)
}

func TestLinkRepository_ResolveAndTrack_MissLeavesStoreUnchanged(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://example.com"}))

	_, err := repo.ResolveAndTrack(ctx, "MISS00")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	assert.Equal(t, int64(1), countLinks(t, repo))
	got, err := repo.GetByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TotalClicks)
	assert.Nil(t, got.LastClicked)
}

func TestLinkRepository_ResolveAndTrack_Concurrent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Link{Code: "ABC123", URL: "https://example.com"}))

	const clicks = 50
	var wg sync.WaitGroup
	errs := make(chan error, clicks)
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ResolveAndTrack(ctx, "ABC123"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("ResolveAndTrack: %v", err)
	}

	got, err := repo.GetByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(clicks), got.TotalClicks)
}
