package database

import (
	"errors"

	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
	"gorm.io/gorm"
)

type MediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db}
}

// Add inserts a new media row for an existing project
func (r *MediaRepo) Add(media *models.Media) error {
	if !media.MediaType.IsValid() {
		return errs.NewInvalidFieldError("media_type", "must be 'image' or 'video'")
	}
	return r.db.Create(media).Error
}

// FindByID returns a media row by id, or nil if no such row exists
func (r *MediaRepo) FindByID(id int) (*models.Media, error) {
	var media models.Media
	err := r.db.First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// Delete removes a media row only; the owning project is untouched
func (r *MediaRepo) Delete(id int) error {
	return r.db.Delete(&models.Media{}, id).Error
}

// CountByType returns the image and video counts for a project
func (r *MediaRepo) CountByType(projectID int) (imageCount, videoCount int, err error) {
	type typeCount struct {
		MediaType models.MediaType
		Count     int
	}
	var counts []typeCount
	err = r.db.Model(&models.Media{}).
		Select("media_type, COUNT(*) as count").
		Where("project_id = ?", projectID).
		Group("media_type").
		Find(&counts).Error
	if err != nil {
		return 0, 0, err
	}
	for _, c := range counts {
		switch c.MediaType {
		case models.MediaTypeImage:
			imageCount = c.Count
		case models.MediaTypeVideo:
			videoCount = c.Count
		}
	}
	return imageCount, videoCount, nil
}

// LatestFilename returns the filename of the most recently created media of
// the given type for a project, or nil when the project has none.
func (r *MediaRepo) LatestFilename(projectID int, mediaType models.MediaType) (*string, error) {
	var media models.Media
	err := r.db.Where("project_id = ? AND media_type = ?", projectID, mediaType).
		Order("created_at DESC, id DESC").
		First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media.Filename, nil
}
