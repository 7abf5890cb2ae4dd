package models

import (
	"strings"
	"time"
)

// Project represents one student work in the catalog with its metadata
type Project struct {
	ID          int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	StudentName string    `json:"student_name" db:"student_name" gorm:"type:text;not null"`
	Category    *string   `json:"category" db:"category" gorm:"type:text"`
	Tags        *string   `json:"tags" db:"tags" gorm:"type:text"`
	Description *string   `json:"description" db:"description" gorm:"type:text"`
	Year        *int      `json:"year" db:"year" gorm:"type:integer"`
	VideoURL    *string   `json:"video_url" db:"video_url" gorm:"type:text"`
	Rating      int       `json:"rating" db:"rating" gorm:"type:integer;not null;default:0"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"type:datetime;not null;autoCreateTime"`

	Media []Media `json:"media" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectSummary is a listing row: the project plus media counts and the
// thumbnail filenames derived from its media.
type ProjectSummary struct {
	Project
	// Listing rows carry counts and thumbnails instead of the media list
	Media          []Media `json:"-"`
	ImageCount     int     `json:"image_count"`
	VideoCount     int     `json:"video_count"`
	ThumbnailImage *string `json:"thumbnail_image"`
	ThumbnailVideo *string `json:"thumbnail_video"`
}

// ProjectFilter carries the listing query parameters. A nil or zero Year
// means "not filtered"; for Rating only nil does, zero is a valid value.
type ProjectFilter struct {
	Search   string
	Category string
	Year     *int
	Rating   *int
	SortBy   string
	Order    string
}

// ProjectUpdate is a partial update: nil fields are left untouched. An
// explicit empty Category or Tags list clears the stored value to NULL.
type ProjectUpdate struct {
	Title       *string
	StudentName *string
	Category    *[]string
	Tags        *[]string
	Description *string
	Year        *int
	VideoURL    *string
	Rating      *int
}

// JoinTags serializes a tag list to the flat comma-joined column value.
// An empty list maps to NULL, not the empty string. Order is preserved and
// duplicates are kept.
func JoinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	joined := strings.Join(tags, ",")
	return &joined
}

// SplitList parses a comma-joined column value back into its entries,
// trimming whitespace and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
