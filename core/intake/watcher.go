package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidarc/logger"

	"github.com/fsnotify/fsnotify"
)

var watchedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

// Watcher auto-ingests video files dropped into a watch directory, using the
// same local-file intake path as an interactive upload.
type Watcher struct {
	workflow *Workflow
	dir      string
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher starts watching dir. The directory is created if missing.
func NewWatcher(workflow *Workflow, dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watch directory %s: %w", dir, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		workflow: workflow,
		dir:      dir,
		watcher:  fsWatcher,
		done:     make(chan struct{}),
	}
	go w.loop()
	logger.Info("Watching drop directory for videos", logger.String("dir", dir))
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create && watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				go w.ingestWhenStable(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Drop directory watcher error", logger.ErrorField(err))
		case <-w.done:
			return
		}
	}
}

// ingestWhenStable waits for the file size to stop changing before ingesting,
// since Create fires while the file is still being written.
func (w *Watcher) ingestWhenStable(path string) {
	var lastSize int64 = -1
	for i := 0; i < 60; i++ {
		select {
		case <-w.done:
			return
		case <-time.After(time.Second):
		}
		info, err := os.Stat(path)
		if err != nil {
			return // removed before it settled
		}
		if info.Size() == lastSize {
			break
		}
		lastSize = info.Size()
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	req := Request{
		Title:       name,
		Description: "Imported from the drop directory",
	}
	video, err := w.workflow.IngestPath(req, path)
	if err != nil {
		logger.Warn("Drop directory ingest failed", logger.String("path", path), logger.ErrorField(err))
		return
	}

	// The workflow copied the file into the uploads directory.
	if err := os.Remove(path); err != nil {
		logger.Warn("Failed to remove ingested drop file", logger.String("path", path), logger.ErrorField(err))
	}
	logger.Info("Drop directory ingest complete",
		logger.String("path", path), logger.String("videoId", video.ID))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
