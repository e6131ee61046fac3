package repository

import (
	"errors"
	"sync"

	"vidarc/logger"
	"vidarc/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation names a video the catalog does not hold.
var ErrNotFound = errors.New("video not found")

// VideoPatch carries partial updates for a video. Nil fields are left untouched.
type VideoPatch struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	VideoURL     *string
	Duration     *int
	Playlists    *[]string
}

// CatalogStore defines the catalog data operations.
//
// All operations are synchronous against the in-memory catalog, which is
// authoritative for the process lifetime. Mutations additionally schedule a
// best-effort mirror write; callers must treat cross-session durability as
// eventually consistent with that mirror.
type CatalogStore interface {
	Create(v *model.Video) (*model.Video, error)
	List() []*model.Video
	Get(id string) (*model.Video, error)
	Update(id string, patch VideoPatch) error
	Delete(id string) error
	// IncrementViews bumps the view counter. A miss is silently ignored.
	IncrementViews(id string)
	// Flush blocks until all scheduled mirror writes have settled.
	Flush()
	Close()
}

// memoryCatalog implements CatalogStore over an ordered in-memory slice,
// newest-first at insertion, mirrored asynchronously through a Mirror.
type memoryCatalog struct {
	mu     sync.Mutex
	videos []*model.Video

	mirror  Mirror
	pending chan []*model.Video
	done    chan struct{}
	wg      sync.WaitGroup

	flushMu  sync.Mutex
	flushCnd *sync.Cond
	inflight int
}

// NewCatalog creates a catalog seeded from the mirror, or from seed when the
// mirror is empty, absent, or unreadable. A nil mirror disables mirroring.
func NewCatalog(mirror Mirror, seed []*model.Video) CatalogStore {
	c := &memoryCatalog{
		mirror:  mirror,
		pending: make(chan []*model.Video, 1),
		done:    make(chan struct{}),
	}
	c.flushCnd = sync.NewCond(&c.flushMu)

	if mirror != nil {
		loaded, err := mirror.Load()
		if err != nil {
			logger.Warn("Catalog mirror unreadable, falling back to seed data", logger.ErrorField(err))
		}
		if len(loaded) > 0 {
			c.videos = loaded
		}
	}
	if len(c.videos) == 0 {
		for _, v := range seed {
			c.videos = append(c.videos, v.Clone())
		}
	}

	c.wg.Add(1)
	go c.mirrorLoop()
	return c
}

// mirrorLoop serializes mirror writes. Only the most recent snapshot matters,
// so queued snapshots are replaced rather than accumulated.
func (c *memoryCatalog) mirrorLoop() {
	defer c.wg.Done()
	for {
		select {
		case snapshot := <-c.pending:
			c.writeMirror(snapshot)
		case <-c.done:
			// Drain one last pending snapshot so Close does not lose the
			// final write.
			select {
			case snapshot := <-c.pending:
				c.writeMirror(snapshot)
			default:
			}
			return
		}
	}
}

func (c *memoryCatalog) writeMirror(snapshot []*model.Video) {
	if c.mirror != nil {
		if err := c.mirror.Save(snapshot); err != nil {
			// Persistence failure is non-fatal: the in-memory catalog remains
			// authoritative for the session.
			logger.Warn("Catalog mirror write failed", logger.ErrorField(err))
		}
	}
	c.settleOne()
}

func (c *memoryCatalog) settleOne() {
	c.flushMu.Lock()
	c.inflight--
	if c.inflight == 0 {
		c.flushCnd.Broadcast()
	}
	c.flushMu.Unlock()
}

// scheduleMirror snapshots the catalog and queues it for the mirror writer,
// replacing any not-yet-written snapshot. Callers must hold c.mu.
func (c *memoryCatalog) scheduleMirror() {
	snapshot := c.snapshotLocked()

	select {
	case <-c.pending:
		// Superseded before it was written; its slot settles here.
		c.settleOne()
	default:
	}

	c.flushMu.Lock()
	c.inflight++
	c.flushMu.Unlock()
	c.pending <- snapshot
}

func (c *memoryCatalog) snapshotLocked() []*model.Video {
	out := make([]*model.Video, 0, len(c.videos))
	for _, v := range c.videos {
		out = append(out, v.Clone())
	}
	return out
}

// Create adds a new video at the head of the catalog and returns the stored
// record with its assigned identifier.
func (c *memoryCatalog) Create(v *model.Video) (*model.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := v.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	} else {
		for _, existing := range c.videos {
			if existing.ID == stored.ID {
				return nil, errors.New("duplicate video id")
			}
		}
	}
	if stored.Playlists == nil {
		stored.Playlists = []string{}
	}

	// Newest first by convention.
	c.videos = append([]*model.Video{stored}, c.videos...)
	c.scheduleMirror()

	logger.Info("Video created", logger.String("id", stored.ID), logger.String("title", stored.Title))
	return stored.Clone(), nil
}

// List returns a snapshot of the catalog in insertion order.
func (c *memoryCatalog) List() []*model.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Get retrieves a single video by ID.
func (c *memoryCatalog) Get(id string) (*model.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.videos {
		if v.ID == id {
			return v.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Update applies a partial update to the named video.
func (c *memoryCatalog) Update(id string, patch VideoPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.videos {
		if v.ID != id {
			continue
		}
		if patch.Title != nil {
			v.Title = *patch.Title
		}
		if patch.Description != nil {
			v.Description = *patch.Description
		}
		if patch.ThumbnailURL != nil {
			v.ThumbnailURL = *patch.ThumbnailURL
		}
		if patch.VideoURL != nil {
			v.VideoURL = *patch.VideoURL
		}
		if patch.Duration != nil {
			v.Duration = *patch.Duration
		}
		if patch.Playlists != nil {
			v.Playlists = append([]string(nil), (*patch.Playlists)...)
		}
		c.scheduleMirror()
		return nil
	}
	return ErrNotFound
}

// Delete removes the named video from the catalog.
func (c *memoryCatalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.videos {
		if v.ID == id {
			c.videos = append(c.videos[:i], c.videos[i+1:]...)
			c.scheduleMirror()
			return nil
		}
	}
	return ErrNotFound
}

// IncrementViews bumps the view counter for the named video. The counter is
// monotonically non-decreasing; a miss is silently ignored.
func (c *memoryCatalog) IncrementViews(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.videos {
		if v.ID == id {
			v.Views++
			c.scheduleMirror()
			return
		}
	}
	logger.Debug("IncrementViews on unknown video ignored", logger.String("id", id))
}

// Flush blocks until every scheduled mirror write has settled.
func (c *memoryCatalog) Flush() {
	c.flushMu.Lock()
	for c.inflight > 0 {
		c.flushCnd.Wait()
	}
	c.flushMu.Unlock()
}

// Close stops the mirror writer after draining any pending snapshot.
func (c *memoryCatalog) Close() {
	close(c.done)
	c.wg.Wait()
}
