package repository

import (
	"errors"
	"sync"
	"testing"

	"vidarc/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMirror records saves in memory and can be pre-loaded or made to fail.
type fakeMirror struct {
	mu      sync.Mutex
	stored  []*model.Video
	saves   int
	loadErr error
	saveErr error
}

func (m *fakeMirror) Load() ([]*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stored, nil
}

func (m *fakeMirror) Save(videos []*model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = videos
	m.saves++
	return nil
}

func (m *fakeMirror) snapshot() []*model.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored
}

func seedPair() []*model.Video {
	return []*model.Video{
		{ID: "v1", Title: "First", DateAdded: "2024-01-02"},
		{ID: "v2", Title: "Second", DateAdded: "2024-01-01"},
	}
}

func TestNewCatalogSeedsWhenMirrorEmpty(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	got := c.List()
	require.Len(t, got, 2)
	assert.Equal(t, "v1", got[0].ID)
}

func TestNewCatalogPrefersMirrorContents(t *testing.T) {
	mirror := &fakeMirror{stored: []*model.Video{{ID: "m1", Title: "Mirrored"}}}
	c := NewCatalog(mirror, seedPair())
	defer c.Close()

	got := c.List()
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestNewCatalogUnreadableMirrorFallsBackToSeed(t *testing.T) {
	mirror := &fakeMirror{loadErr: errors.New("connection refused")}
	c := NewCatalog(mirror, seedPair())
	defer c.Close()

	assert.Len(t, c.List(), 2)
}

func TestCreateAssignsIDAndPrepends(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	created, err := c.Create(&model.Video{Title: "Newest"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got := c.List()
	require.Len(t, got, 3)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, "Newest", got[0].Title)
	assert.NotNil(t, got[0].Playlists)
}

func TestGetReturnsCopy(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	got, err := c.Get("v1")
	require.NoError(t, err)
	got.Title = "scribbled on"

	again, err := c.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, "First", again.Title)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	duration := 90
	thumb := "/thumbs/v1.jpg"
	err := c.Update("v1", VideoPatch{Duration: &duration, ThumbnailURL: &thumb})
	require.NoError(t, err)

	got, err := c.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Duration)
	assert.Equal(t, "/thumbs/v1.jpg", got.ThumbnailURL)
	assert.Equal(t, "First", got.Title)

	assert.ErrorIs(t, c.Update("missing", VideoPatch{Duration: &duration}), ErrNotFound)
}

func TestDelete(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	require.NoError(t, c.Delete("v1"))
	assert.Len(t, c.List(), 1)
	_, err := c.Get("v1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Delete("v1"), ErrNotFound)
}

func TestIncrementViewsMonotonic(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.IncrementViews("v2")
	}
	got, err := c.Get("v2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)

	// Unknown IDs are ignored without error.
	c.IncrementViews("missing")
}

func TestFlushSettlesMirrorWrites(t *testing.T) {
	mirror := &fakeMirror{}
	c := NewCatalog(mirror, nil)
	defer c.Close()

	_, err := c.Create(&model.Video{Title: "One"})
	require.NoError(t, err)
	_, err = c.Create(&model.Video{Title: "Two"})
	require.NoError(t, err)
	c.Flush()

	stored := mirror.snapshot()
	require.Len(t, stored, 2)
	assert.Equal(t, "Two", stored[0].Title)
}

func TestMirrorWriteFailureIsNonFatal(t *testing.T) {
	mirror := &fakeMirror{saveErr: errors.New("redis down")}
	c := NewCatalog(mirror, seedPair())
	defer c.Close()

	require.NoError(t, c.Delete("v2"))
	c.Flush()

	// The in-memory catalog stays authoritative.
	assert.Len(t, c.List(), 1)
}

func TestCloseWritesFinalSnapshot(t *testing.T) {
	mirror := &fakeMirror{}
	c := NewCatalog(mirror, nil)

	_, err := c.Create(&model.Video{Title: "Last write"})
	require.NoError(t, err)
	c.Close()

	stored := mirror.snapshot()
	require.Len(t, stored, 1)
	assert.Equal(t, "Last write", stored[0].Title)
}

func TestConcurrentMutations(t *testing.T) {
	c := NewCatalog(&fakeMirror{}, seedPair())
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.IncrementViews("v1")
		}()
		go func() {
			defer wg.Done()
			c.List()
		}()
	}
	wg.Wait()

	got, err := c.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.Views)
}
