package database

import (
	"path/filepath"
	"testing"

	"github.com/nemo-delft/project-catalog/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite3")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Initialize(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return New(db)
}

func mustAddProject(t *testing.T, repo *ProjectRepo, project models.Project) models.Project {
	t.Helper()
	if err := repo.Add(&project); err != nil {
		t.Fatalf("add project %q: %v", project.Title, err)
	}
	return project
}

func TestProjectAddRequiresTitleAndStudentName(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	tests := []struct {
		name    string
		project models.Project
	}{
		{"empty title", models.Project{StudentName: "Alice"}},
		{"empty student name", models.Project{Title: "Pendulum"}},
		{"whitespace title", models.Project{Title: "   ", StudentName: "Alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Add(&tt.project); err == nil {
				t.Fatal("Add() succeeded, want validation error")
			}
		})
	}

	projects, err := repo.FindAll(models.ProjectFilter{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("found %d projects, want none created", len(projects))
	}
}

func TestProjectCategoryFilter(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	categories := []string{"A", "A,B", "X,A", "X,A,B", "AB", "BA"}
	for _, category := range categories {
		c := category
		mustAddProject(t, repo, models.Project{Title: "P " + c, StudentName: "S", Category: &c})
	}

	projects, err := repo.FindAll(models.ProjectFilter{Category: "A"})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	got := map[string]bool{}
	for _, p := range projects {
		got[*p.Category] = true
	}
	want := []string{"A", "A,B", "X,A", "X,A,B"}
	if len(projects) != len(want) {
		t.Fatalf("matched %d projects (%v), want %d", len(projects), got, len(want))
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("category %q did not match filter A", w)
		}
	}
}

func TestProjectSearchFilter(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	desc := "An interactive exhibit about waves"
	mustAddProject(t, repo, models.Project{Title: "Pendulum Wave", StudentName: "Alice"})
	mustAddProject(t, repo, models.Project{Title: "Laser Harp", StudentName: "Bob", Description: &desc})
	mustAddProject(t, repo, models.Project{Title: "Cloud Chamber", StudentName: "Carol"})

	projects, err := repo.FindAll(models.ProjectFilter{Search: "wave"})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	// Matches title of one and description of another, case-insensitively
	if len(projects) != 2 {
		t.Errorf("search matched %d projects, want 2", len(projects))
	}
}

func TestProjectYearFilter(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	year := 2024
	mustAddProject(t, repo, models.Project{Title: "Dated", StudentName: "S", Year: &year})
	mustAddProject(t, repo, models.Project{Title: "Undated", StudentName: "S"})

	projects, err := repo.FindAll(models.ProjectFilter{Year: &year})
	if err != nil {
		t.Fatalf("FindAll(2024) error = %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Dated" {
		t.Errorf("year filter matched %d projects, want only the dated one", len(projects))
	}

	// Year zero behaves like no filter at all
	zero := 0
	projects, err = repo.FindAll(models.ProjectFilter{Year: &zero})
	if err != nil {
		t.Fatalf("FindAll(0) error = %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("year 0 matched %d projects, want all 2", len(projects))
	}
}

func TestProjectSortFallback(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	for _, title := range []string{"C", "A", "B"} {
		mustAddProject(t, repo, models.Project{Title: title, StudentName: "S"})
	}

	bogus, err := repo.FindAll(models.ProjectFilter{SortBy: "bogus"})
	if err != nil {
		t.Fatalf("FindAll(bogus) error = %v", err)
	}
	byCreated, err := repo.FindAll(models.ProjectFilter{SortBy: "created_at"})
	if err != nil {
		t.Fatalf("FindAll(created_at) error = %v", err)
	}

	if len(bogus) != len(byCreated) {
		t.Fatalf("result lengths differ: %d vs %d", len(bogus), len(byCreated))
	}
	for i := range bogus {
		if bogus[i].ID != byCreated[i].ID {
			t.Errorf("row %d: id %d vs %d, want identical ordering", i, bogus[i].ID, byCreated[i].ID)
		}
	}
}

func TestProjectSortByTitleAscending(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	for _, title := range []string{"C", "A", "B"} {
		mustAddProject(t, repo, models.Project{Title: title, StudentName: "S"})
	}

	projects, err := repo.FindAll(models.ProjectFilter{SortBy: "title", Order: "ASC"})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	want := []string{"A", "B", "C"}
	for i, title := range want {
		if projects[i].Title != title {
			t.Errorf("row %d: title %q, want %q", i, projects[i].Title, title)
		}
	}
}

func TestProjectThumbnails(t *testing.T) {
	db := newTestDatabase(t)
	projectRepo := db.ProjectRepo()
	mediaRepo := db.MediaRepo()

	project := mustAddProject(t, projectRepo, models.Project{Title: "Vortex", StudentName: "Dana"})

	// Only a video: the video thumbnail is exposed
	video := models.Media{ProjectID: project.ID, MediaType: models.MediaTypeVideo, Filename: "1_vid_a.mp4"}
	if err := mediaRepo.Add(&video); err != nil {
		t.Fatalf("add video: %v", err)
	}

	projects, err := projectRepo.FindAll(models.ProjectFilter{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	summary := projects[0]
	if summary.VideoCount != 1 || summary.ImageCount != 0 {
		t.Errorf("counts = %d images, %d videos", summary.ImageCount, summary.VideoCount)
	}
	if summary.ThumbnailVideo == nil || *summary.ThumbnailVideo != "1_vid_a.mp4" {
		t.Errorf("ThumbnailVideo = %v, want 1_vid_a.mp4", summary.ThumbnailVideo)
	}

	// Once an image exists the video thumbnail must disappear
	older := models.Media{ProjectID: project.ID, MediaType: models.MediaTypeImage, Filename: "1_img_a.png"}
	newer := models.Media{ProjectID: project.ID, MediaType: models.MediaTypeImage, Filename: "1_img_b.png"}
	if err := mediaRepo.Add(&older); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if err := mediaRepo.Add(&newer); err != nil {
		t.Fatalf("add image: %v", err)
	}

	projects, err = projectRepo.FindAll(models.ProjectFilter{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	summary = projects[0]
	if summary.ImageCount != 2 || summary.VideoCount != 1 {
		t.Errorf("counts = %d images, %d videos", summary.ImageCount, summary.VideoCount)
	}
	if summary.ThumbnailImage == nil || *summary.ThumbnailImage != "1_img_b.png" {
		t.Errorf("ThumbnailImage = %v, want the most recent image", summary.ThumbnailImage)
	}
	if summary.ThumbnailVideo != nil {
		t.Errorf("ThumbnailVideo = %v, want nil when an image exists", summary.ThumbnailVideo)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	db := newTestDatabase(t)
	projectRepo := db.ProjectRepo()
	mediaRepo := db.MediaRepo()

	project := mustAddProject(t, projectRepo, models.Project{Title: "Vortex", StudentName: "Dana"})
	var mediaIDs []int
	for _, filename := range []string{"1_img_a.png", "1_img_b.png", "1_vid_a.mp4"} {
		kind := models.MediaTypeImage
		if filepath.Ext(filename) == ".mp4" {
			kind = models.MediaTypeVideo
		}
		media := models.Media{ProjectID: project.ID, MediaType: kind, Filename: filename}
		if err := mediaRepo.Add(&media); err != nil {
			t.Fatalf("add media: %v", err)
		}
		mediaIDs = append(mediaIDs, media.ID)
	}

	if err := projectRepo.Delete(project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	deleted, err := projectRepo.FindByID(project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if deleted != nil {
		t.Error("project still exists after delete")
	}
	for _, id := range mediaIDs {
		media, err := mediaRepo.FindByID(id)
		if err != nil {
			t.Fatalf("FindByID(media) error = %v", err)
		}
		if media != nil {
			t.Errorf("media %d still exists after project delete", id)
		}
	}
}

func TestProjectPartialUpdate(t *testing.T) {
	db := newTestDatabase(t)
	repo := db.ProjectRepo()

	tags := "a,b"
	year := 2024
	project := mustAddProject(t, repo, models.Project{
		Title:       "Vortex",
		StudentName: "Dana",
		Tags:        &tags,
		Year:        &year,
		Rating:      3,
	})

	// A no-op update must not touch anything
	if err := repo.Update(project.ID, models.ProjectUpdate{}); err != nil {
		t.Fatalf("no-op Update() error = %v", err)
	}
	after, err := repo.FindByID(project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if after.Title != "Vortex" || after.StudentName != "Dana" || *after.Tags != "a,b" ||
		*after.Year != 2024 || after.Rating != 3 {
		t.Errorf("no-op update changed the row: %+v", after)
	}
	if !after.CreatedAt.Equal(project.CreatedAt) {
		t.Errorf("no-op update touched created_at: %v vs %v", after.CreatedAt, project.CreatedAt)
	}

	// Updating a single field leaves the rest untouched
	newTitle := "Vortex II"
	if err := repo.Update(project.ID, models.ProjectUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update(title) error = %v", err)
	}
	after, err = repo.FindByID(project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if after.Title != "Vortex II" {
		t.Errorf("title = %q, want Vortex II", after.Title)
	}
	if after.StudentName != "Dana" || *after.Tags != "a,b" || *after.Year != 2024 {
		t.Errorf("unrelated fields changed: %+v", after)
	}

	// An explicit empty tag list clears the stored value to NULL
	empty := []string{}
	if err := repo.Update(project.ID, models.ProjectUpdate{Tags: &empty}); err != nil {
		t.Fatalf("Update(tags) error = %v", err)
	}
	after, err = repo.FindByID(project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if after.Tags != nil {
		t.Errorf("tags = %v, want cleared to NULL", *after.Tags)
	}
}

func TestProjectFindByIDNotFound(t *testing.T) {
	db := newTestDatabase(t)

	project, err := db.ProjectRepo().FindByID(9999)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if project != nil {
		t.Errorf("FindByID(9999) = %+v, want nil", project)
	}
}
