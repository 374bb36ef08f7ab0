package models

// CategoryModel groups articles. Slug is always derived from Name.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"size:191;uniqueIndex:idx_categories_name;not null"`
	Slug string `json:"slug" gorm:"size:191;uniqueIndex:idx_categories_slug;not null"`
}

func (CategoryModel) TableName() string { return "categories" }
