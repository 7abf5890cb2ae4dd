package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
)

// Extension allow-lists per media kind. Checked before anything is written.
var (
	allowedImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	allowedVideoExtensions = []string{"mp4", "mov", "webm", "ogg", "mkv"}
)

// Storage writes uploaded media bytes under two flat directories, one per
// media kind. Filenames are deterministic: {projectID}_{img|vid}_{sanitized
// original name}. Two concurrent uploads of the same original name to the
// same project can overwrite each other; that is an accepted limitation.
type Storage struct {
	imagesDir string
	videosDir string
}

// NewStorage creates the upload directories under baseDir if needed
func NewStorage(baseDir string) (*Storage, error) {
	s := &Storage{
		imagesDir: filepath.Join(baseDir, "images"),
		videosDir: filepath.Join(baseDir, "videos"),
	}
	for _, dir := range []string{s.imagesDir, s.videosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// Dir returns the directory files of the given kind are stored in
func (s *Storage) Dir(kind models.MediaType) string {
	if kind == models.MediaTypeVideo {
		return s.videosDir
	}
	return s.imagesDir
}

// FileExtension returns the lowercased extension without the dot, or ""
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// CheckExtension rejects filenames whose extension is not on the allow-list
// for the given kind.
func CheckExtension(filename string, kind models.MediaType) error {
	allowed := allowedImageExtensions
	if kind == models.MediaTypeVideo {
		allowed = allowedVideoExtensions
	}
	ext := FileExtension(filename)
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return errs.NewUnsupportedFileTypeError(ext, allowed)
}

// StoredName builds the deterministic on-disk name for an upload
func StoredName(projectID int, kind models.MediaType, originalName string) string {
	prefix := "img"
	if kind == models.MediaTypeVideo {
		prefix = "vid"
	}
	return fmt.Sprintf("%d_%s_%s", projectID, prefix, SanitizeFilename(originalName))
}

// SanitizeFilename strips path components and reduces the name to a safe
// character set, the way uploaded names are normalized before hitting disk.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		return "file"
	}
	return sanitized
}

// Save writes the upload to disk under the stored name
func (s *Storage) Save(kind models.MediaType, storedName string, src io.Reader) error {
	path := filepath.Join(s.Dir(kind), storedName)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CleanupResult reports a best-effort file deletion. Callers log it; it is
// never propagated as a request failure.
type CleanupResult struct {
	Path    string
	Removed bool
	Err     error
}

// Remove deletes a stored file best-effort. A file already gone counts as
// removed.
func (s *Storage) Remove(kind models.MediaType, filename string) CleanupResult {
	path := filepath.Join(s.Dir(kind), filepath.Base(filename))
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return CleanupResult{Path: path, Removed: true}
	}
	return CleanupResult{Path: path, Err: err}
}
