// Package intake implements the video intake workflow: validating
// user-supplied metadata for each source kind, deriving thumbnails and
// durations by best-effort media introspection, and appending the finished
// record to the catalog.
package intake

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"vidarc/core/media"
	"vidarc/logger"
	"vidarc/model"
	"vidarc/repository"
)

// ValidationError marks a malformed or missing intake field. It is recovered
// locally: submission is blocked and the message is shown inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ThumbnailStore persists a captured thumbnail frame and returns the URL it
// will be served from.
type ThumbnailStore interface {
	PutThumbnail(ctx context.Context, name string, localPath string) (string, error)
}

// Workflow wires the intake paths to the catalog, the media prober, and the
// thumbnail store.
type Workflow struct {
	catalog    repository.CatalogStore
	playlists  repository.PlaylistRepository
	processor  media.Processor
	thumbnails ThumbnailStore

	videoUploadDir string
	probeSeq       atomic.Int64

	// titleLookup prefills a missing embed title, best effort.
	titleLookup func(videoID string) string
}

// NewWorkflow creates an intake workflow. thumbnails may be nil, in which case
// captured frames are kept next to the uploaded file and served from there.
func NewWorkflow(
	catalog repository.CatalogStore,
	playlists repository.PlaylistRepository,
	processor media.Processor,
	thumbnails ThumbnailStore,
	videoUploadDir string,
) *Workflow {
	return &Workflow{
		catalog:        catalog,
		playlists:      playlists,
		processor:      processor,
		thumbnails:     thumbnails,
		videoUploadDir: videoUploadDir,
		titleLookup:    FetchOEmbedTitle,
	}
}

// Request carries the fields shared by every intake path.
type Request struct {
	Title       string
	Description string
	Playlists   []string
}

func (w *Workflow) validateCommon(req Request) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &ValidationError{Field: "description", Message: "Description is required"}
	}
	for _, p := range req.Playlists {
		if !w.playlists.Exists(p) {
			return &ValidationError{Field: "playlists", Message: fmt.Sprintf("unknown playlist %q", p)}
		}
	}
	return nil
}

func today() string {
	return time.Now().Format(model.DateLayout)
}

// SubmitEmbed admits an embedded-link video. The link must contain a
// recognizable platform video ID; playback and thumbnail URLs are derived
// from it deterministically. An omitted title is prefilled from the platform's
// oEmbed endpoint when it answers; a title is still required either way.
func (w *Workflow) SubmitEmbed(req Request, link string) (*model.Video, error) {
	videoID, err := ExtractVideoID(strings.TrimSpace(link))
	if err != nil {
		return nil, &ValidationError{Field: "videoUrl", Message: "Could not find a video ID in the link"}
	}

	if strings.TrimSpace(req.Title) == "" && w.titleLookup != nil {
		req.Title = w.titleLookup(videoID)
	}
	if err := w.validateCommon(req); err != nil {
		return nil, err
	}

	video := &model.Video{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: ThumbnailURL(videoID),
		VideoURL:     EmbedURL(videoID),
		SourceType:   model.SourceEmbed,
		Duration:     model.DurationUnknown,
		DateAdded:    today(),
		Playlists:    req.Playlists,
		Views:        0,
	}
	return w.catalog.Create(video)
}

// SubmitDirectURL admits a direct-media-URL video. Duration and thumbnail are
// detected asynchronously after submission; detection failure degrades to an
// unknown duration and a blank thumbnail without ever blocking the submit.
func (w *Workflow) SubmitDirectURL(req Request, rawURL string) (*model.Video, error) {
	if err := w.validateCommon(req); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &ValidationError{Field: "videoUrl", Message: "Must be a valid URL"}
	}

	video := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    parsed.String(),
		SourceType:  model.SourceDirectURL,
		Duration:    model.DurationUnknown,
		DateAdded:   today(),
		Playlists:   req.Playlists,
		Views:       0,
	}

	created, err := w.catalog.Create(video)
	if err != nil {
		return nil, err
	}

	go w.detectMetadata(created.ID, created.VideoURL, "")
	return created, nil
}

// LocalFileWarning is attached to local-file submissions: the playback
// reference is ephemeral and does not survive across installations.
const LocalFileWarning = "Local file playback references are only valid on this server; the video will be unavailable if the uploads directory is removed."

// SubmitLocalFile admits an uploaded file. The declared media type must begin
// with "video/". The file is stored in the uploads directory; duration and a
// midpoint thumbnail frame are detected asynchronously.
func (w *Workflow) SubmitLocalFile(req Request, file multipart.File, filename, contentType string) (*model.Video, error) {
	if err := w.validateCommon(req); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "video/") {
		return nil, &ValidationError{Field: "file", Message: "File must be a video"}
	}

	storeName := safeFilename(req.Title, filename)
	diskPath := filepath.Join(w.videoUploadDir, storeName)
	if err := saveUploadedFile(file, diskPath); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	video := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    "/uploads/videos/" + storeName,
		SourceType:  model.SourceLocalFile,
		Duration:    model.DurationUnknown,
		DateAdded:   today(),
		Playlists:   req.Playlists,
		Views:       0,
	}

	created, err := w.catalog.Create(video)
	if err != nil {
		os.Remove(diskPath)
		return nil, err
	}

	go w.detectMetadata(created.ID, created.VideoURL, diskPath)
	return created, nil
}

// IngestPath admits a video file already on disk (drop-directory intake).
func (w *Workflow) IngestPath(req Request, path string) (*model.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return w.SubmitLocalFile(req, f, filepath.Base(path), "video/"+strings.TrimPrefix(filepath.Ext(path), "."))
}

// detectMetadata probes duration and captures a thumbnail for a record that
// was already admitted. probeInput overrides the record URL for local files,
// where the URL is a serving path rather than the on-disk location.
//
// Results are applied only if the record still exists and still points at the
// URL the probe was started for; anything else means the probe was superseded
// and its result is discarded.
func (w *Workflow) detectMetadata(videoID, videoURL, probeInput string) {
	token := w.probeSeq.Add(1)
	input := probeInput
	if input == "" {
		input = videoURL
	}

	duration, err := w.processor.ProbeDuration(input)
	if err != nil {
		// MetadataDetectionFailure: degrade silently to unknown duration.
		logger.Warn("Duration detection failed",
			logger.String("videoId", videoID), logger.Int64("probe", token), logger.ErrorField(err))
		return
	}

	patch := repository.VideoPatch{}
	seconds := int(duration)
	patch.Duration = &seconds

	thumbURL := w.captureThumbnail(videoID, input, duration)
	if thumbURL != "" {
		patch.ThumbnailURL = &thumbURL
	}

	if !w.stillRelevant(videoID, videoURL) {
		logger.Debug("Discarding superseded metadata detection",
			logger.String("videoId", videoID), logger.Int64("probe", token))
		return
	}
	if err := w.catalog.Update(videoID, patch); err != nil {
		logger.Debug("Metadata detection target vanished",
			logger.String("videoId", videoID), logger.ErrorField(err))
	}
}

// stillRelevant checks that the record the probe was started for has not been
// deleted or rebound to a different source in the meantime.
func (w *Workflow) stillRelevant(videoID, videoURL string) bool {
	current, err := w.catalog.Get(videoID)
	return err == nil && current.VideoURL == videoURL
}

// captureThumbnail renders a frame at the midpoint of the video, no more than
// one second in for very short files, and stores it. Returns "" on failure.
func (w *Workflow) captureThumbnail(videoID, input string, duration float64) string {
	captureAt := duration / 2
	if duration < 2 && captureAt > 1 {
		captureAt = 1
	}

	framePath := filepath.Join(os.TempDir(), fmt.Sprintf("vidarc-thumb-%s.jpg", videoID))
	if err := w.processor.CaptureFrame(input, captureAt, framePath); err != nil {
		logger.Warn("Thumbnail capture failed",
			logger.String("videoId", videoID), logger.ErrorField(err))
		return ""
	}
	defer os.Remove(framePath)

	if w.thumbnails == nil {
		// No object store configured; keep the frame beside the uploads.
		dest := filepath.Join(w.videoUploadDir, videoID+".jpg")
		if err := copyFile(framePath, dest); err != nil {
			logger.Warn("Thumbnail store failed", logger.String("videoId", videoID), logger.ErrorField(err))
			return ""
		}
		return "/uploads/videos/" + videoID + ".jpg"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	thumbURL, err := w.thumbnails.PutThumbnail(ctx, videoID+".jpg", framePath)
	if err != nil {
		logger.Warn("Thumbnail upload failed", logger.String("videoId", videoID), logger.ErrorField(err))
		return ""
	}
	return thumbURL
}

var (
	nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)
	multipleSpaces  = regexp.MustCompile(`\s+`)
)

// safeFilename derives a filesystem-safe stored name from the title, keeping
// the original extension.
func safeFilename(title, original string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = "Untitled_Video"
	}
	base = multipleSpaces.ReplaceAllString(base, "_")
	base = nonAlphaNumeric.ReplaceAllString(base, "")

	maxLength := 150
	if len(base) > maxLength {
		base = base[:maxLength]
	}
	if base == "" {
		base = "fallback_filename"
	}

	ext := filepath.Ext(original)
	if ext == "" {
		ext = ".dat"
	}
	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}

func saveUploadedFile(src io.Reader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file %s: %w", destPath, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return saveUploadedFile(in, dest)
}
