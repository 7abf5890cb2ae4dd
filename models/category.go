package models

// Category is the normalized side of the category field. The flat
// comma-joined Project.Category column stays authoritative for filtering;
// these tables are maintained write-through so the relation stays populated.
type Category struct {
	ID   int    `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Name string `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_category_name"`
}

// ProjectCategory links a project to a normalized category
type ProjectCategory struct {
	ProjectID  int `json:"project_id" db:"project_id" gorm:"primaryKey;not null"`
	CategoryID int `json:"category_id" db:"category_id" gorm:"primaryKey;not null"`
}
