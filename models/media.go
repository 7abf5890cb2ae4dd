package models

import "time"

// MediaType is the kind of uploaded file. Only images and videos exist;
// the column carries a CHECK constraint rejecting anything else.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (t MediaType) IsValid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// Media represents one uploaded file owned by exactly one project
type Media struct {
	ID           int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	ProjectID    int       `json:"project_id" db:"project_id" gorm:"not null;index:idx_media_project_id"`
	MediaType    MediaType `json:"media_type" db:"media_type" gorm:"type:text;not null;check:media_type IN ('image','video')"`
	Filename     string    `json:"filename" db:"filename" gorm:"type:text;not null"`
	OriginalName string    `json:"original_name" db:"original_name" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"type:datetime;not null;autoCreateTime"`
}
