package database

import (
	"testing"

	"github.com/nemo-delft/project-catalog/models"
)

func TestMediaAddRejectsUnknownType(t *testing.T) {
	db := newTestDatabase(t)
	project := mustAddProject(t, db.ProjectRepo(), models.Project{Title: "Vortex", StudentName: "Dana"})

	media := models.Media{ProjectID: project.ID, MediaType: "document", Filename: "1_doc_a.pdf"}
	if err := db.MediaRepo().Add(&media); err == nil {
		t.Fatal("Add() accepted media_type 'document'")
	}

	found, err := db.MediaRepo().FindByID(media.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found != nil {
		t.Error("rejected media was stored anyway")
	}
}

func TestMediaDeleteLeavesProject(t *testing.T) {
	db := newTestDatabase(t)
	project := mustAddProject(t, db.ProjectRepo(), models.Project{Title: "Vortex", StudentName: "Dana"})

	media := models.Media{ProjectID: project.ID, MediaType: models.MediaTypeImage, Filename: "1_img_a.png"}
	if err := db.MediaRepo().Add(&media); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := db.MediaRepo().Delete(media.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	gone, err := db.MediaRepo().FindByID(media.ID)
	if err != nil {
		t.Fatalf("FindByID(media) error = %v", err)
	}
	if gone != nil {
		t.Error("media still exists after delete")
	}

	still, err := db.ProjectRepo().FindByID(project.ID)
	if err != nil {
		t.Fatalf("FindByID(project) error = %v", err)
	}
	if still == nil {
		t.Error("project disappeared with its media")
	}
}

func TestCategorySyncProject(t *testing.T) {
	db := newTestDatabase(t)
	project := mustAddProject(t, db.ProjectRepo(), models.Project{Title: "Vortex", StudentName: "Dana"})

	if err := db.CategoryRepo().SyncProject(project.ID, []string{"Magnetism", "Light"}); err != nil {
		t.Fatalf("SyncProject() error = %v", err)
	}
	// Re-syncing with a different set replaces the links and reuses names
	if err := db.CategoryRepo().SyncProject(project.ID, []string{"Light"}); err != nil {
		t.Fatalf("SyncProject() error = %v", err)
	}

	categories, err := db.CategoryRepo().FindAll()
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("found %d categories, want the 2 distinct names", len(categories))
	}
}
