package database

import (
	"github.com/nemo-delft/project-catalog/models"
	"gorm.io/gorm"
)

// CategoryRepo maintains the normalized categories/project_categories
// extension. The flat comma-joined column on projects stays authoritative;
// these tables are kept populated write-through.
type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all known categories
func (r *CategoryRepo) FindAll() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// Ensure returns the id of the named category, creating it if needed
func (r *CategoryRepo) Ensure(name string) (int, error) {
	var category models.Category
	err := r.db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}

// SyncProject replaces a project's category links with the given names
func (r *CategoryRepo) SyncProject(projectID int, names []string) error {
	if err := r.db.Where("project_id = ?", projectID).Delete(&models.ProjectCategory{}).Error; err != nil {
		return err
	}
	for _, name := range names {
		categoryID, err := r.Ensure(name)
		if err != nil {
			return err
		}
		link := models.ProjectCategory{ProjectID: projectID, CategoryID: categoryID}
		if err := r.db.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
