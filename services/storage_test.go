package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nemo-delft/project-catalog/models"
)

func TestCheckExtension(t *testing.T) {
	tests := []struct {
		filename string
		kind     models.MediaType
		wantErr  bool
	}{
		{"photo.png", models.MediaTypeImage, false},
		{"photo.JPG", models.MediaTypeImage, false},
		{"photo.webp", models.MediaTypeImage, false},
		{"photo.exe", models.MediaTypeImage, true},
		{"photo", models.MediaTypeImage, true},
		{"clip.mp4", models.MediaTypeVideo, false},
		{"clip.mkv", models.MediaTypeVideo, false},
		{"clip.png", models.MediaTypeVideo, true},
		{"clip.avi", models.MediaTypeVideo, true},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"_"+string(tt.kind), func(t *testing.T) {
			err := CheckExtension(tt.filename, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckExtension(%q, %s) error = %v, wantErr %v", tt.filename, tt.kind, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"photo.png", "photo.png"},
		{"my photo.png", "my_photo.png"},
		{"../../etc/passwd", "passwd"},
		{"..\\windows\\evil.png", "evil.png"},
		{"héllo wörld.png", "hllo_wrld.png"},
		{"...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStoredName(t *testing.T) {
	if got := StoredName(7, models.MediaTypeImage, "my photo.png"); got != "7_img_my_photo.png" {
		t.Errorf("StoredName image = %q", got)
	}
	if got := StoredName(7, models.MediaTypeVideo, "clip.mp4"); got != "7_vid_clip.mp4" {
		t.Errorf("StoredName video = %q", got)
	}
}

func TestStorageSaveAndRemove(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}

	if err := storage.Save(models.MediaTypeImage, "1_img_a.png", strings.NewReader("bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path := filepath.Join(storage.Dir(models.MediaTypeImage), "1_img_a.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	result := storage.Remove(models.MediaTypeImage, "1_img_a.png")
	if result.Err != nil || !result.Removed {
		t.Errorf("Remove() = %+v, want removed", result)
	}

	// Removing a file that is already gone is still a clean cleanup
	result = storage.Remove(models.MediaTypeImage, "1_img_a.png")
	if result.Err != nil || !result.Removed {
		t.Errorf("Remove() of missing file = %+v, want removed", result)
	}
}
