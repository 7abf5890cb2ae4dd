package database

import (
	"github.com/nemo-delft/project-catalog/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo  *ProjectRepo
	mediaRepo    *MediaRepo
	categoryRepo *CategoryRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance
func New(db *gorm.DB) Database {
	mediaRepo := NewMediaRepo(db)
	return Database{
		projectRepo:  NewProjectRepo(db, mediaRepo),
		mediaRepo:    mediaRepo,
		categoryRepo: NewCategoryRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) MediaRepo() *MediaRepo {
	return d.mediaRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

// Initialize creates or migrates the schema. Safe to run on every start.
func Initialize(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Media{},
		&models.Category{},
		&models.ProjectCategory{},
	)
}
