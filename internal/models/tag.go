package models

import "time"

// TagModel labels articles. Slug is always derived from Name.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"size:191;uniqueIndex:idx_tags_name;not null"`
	Slug string `json:"slug" gorm:"size:191;uniqueIndex:idx_tags_slug;not null"`
}

func (TagModel) TableName() string { return "tags" }

// ArticleTag is the article/tag association row. The composite key makes
// duplicate pairs impossible.
type ArticleTag struct {
	ArticleID uint64    `json:"article_id" gorm:"primaryKey;autoIncrement:false"`
	TagID     uint64    `json:"tag_id"     gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ArticleTag) TableName() string { return "article_tags" }
