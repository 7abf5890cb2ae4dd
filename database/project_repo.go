package database

import (
	"errors"
	"strings"

	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
	"gorm.io/gorm"
)

// validSortColumns is the allow-list for listing order. Anything else
// silently falls back to created_at.
var validSortColumns = map[string]bool{
	"created_at":   true,
	"title":        true,
	"student_name": true,
	"year":         true,
	"category":     true,
}

type ProjectRepo struct {
	db    *gorm.DB
	media *MediaRepo
}

func NewProjectRepo(db *gorm.DB, media *MediaRepo) *ProjectRepo {
	return &ProjectRepo{db: db, media: media}
}

// Add inserts a new project into the database. Title and student name must
// be non-empty; no row is created otherwise.
func (r *ProjectRepo) Add(project *models.Project) error {
	if strings.TrimSpace(project.Title) == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if strings.TrimSpace(project.StudentName) == "" {
		return errs.NewMissingRequiredFieldError("student_name")
	}
	return r.db.Create(project).Error
}

// FindAll returns projects matching the filter, each enriched with media
// counts and thumbnail filenames.
//
// Search matches a case-insensitive substring of title, student name or
// description. The category filter treats the flat column as a comma-joined
// list: an exact value or a list containing the value at start, middle or
// end all match.
func (r *ProjectRepo) FindAll(filter models.ProjectFilter) ([]models.ProjectSummary, error) {
	sortBy := filter.SortBy
	if !validSortColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		order = "ASC"
	}

	query := r.db.Model(&models.Project{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR student_name LIKE ? OR description LIKE ?", like, like, like)
	}
	if filter.Category != "" {
		c := filter.Category
		query = query.Where(
			"category = ? OR category LIKE ? OR category LIKE ? OR category LIKE ?",
			c, c+",%", "%,"+c+",%", "%,"+c,
		)
	}
	// Year zero means unfiltered, like an absent parameter. No stored
	// project carries year 0.
	if filter.Year != nil && *filter.Year != 0 {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}

	var projects []models.Project
	if err := query.Order(sortBy + " " + order).Find(&projects).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summary, err := r.enrich(project)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// enrich attaches media counts and thumbnails to a project. A project with
// at least one image never exposes a video thumbnail.
func (r *ProjectRepo) enrich(project models.Project) (models.ProjectSummary, error) {
	summary := models.ProjectSummary{Project: project}

	imageCount, videoCount, err := r.media.CountByType(project.ID)
	if err != nil {
		return summary, err
	}
	summary.ImageCount = imageCount
	summary.VideoCount = videoCount

	summary.ThumbnailImage, err = r.media.LatestFilename(project.ID, models.MediaTypeImage)
	if err != nil {
		return summary, err
	}
	if summary.ThumbnailImage == nil && videoCount > 0 {
		summary.ThumbnailVideo, err = r.media.LatestFilename(project.ID, models.MediaTypeVideo)
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// FindByID returns a project with its media loaded newest first, or nil if
// no such project exists.
func (r *ProjectRepo) FindByID(id int) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC, id DESC")
	}).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if project.Media == nil {
		project.Media = []models.Media{}
	}
	return &project, nil
}

// Update overwrites exactly the fields set on the update. A no-op update
// succeeds without touching the row.
func (r *ProjectRepo) Update(id int, update models.ProjectUpdate) error {
	fields := map[string]interface{}{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.StudentName != nil {
		fields["student_name"] = *update.StudentName
	}
	if update.Category != nil {
		fields["category"] = models.JoinTags(*update.Category)
	}
	if update.Tags != nil {
		fields["tags"] = models.JoinTags(*update.Tags)
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Year != nil {
		fields["year"] = *update.Year
	}
	if update.VideoURL != nil {
		fields["video_url"] = *update.VideoURL
	}
	if update.Rating != nil {
		fields["rating"] = *update.Rating
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a project, its media rows and its category links. Backing
// files on disk are the caller's concern.
func (r *ProjectRepo) Delete(id int) error {
	if err := r.db.Where("project_id = ?", id).Delete(&models.Media{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectCategory{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Project{}, id).Error
}
