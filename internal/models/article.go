package models

// ArticleModel is a news article ("berita").
type ArticleModel struct {
	Base
	Title      string         `json:"title"       gorm:"size:191;uniqueIndex:idx_articles_title;not null"`
	Slug       string         `json:"slug"        gorm:"size:191;uniqueIndex:idx_articles_slug;not null"`
	Body       string         `json:"body"        gorm:"type:longtext;not null"`
	Image      string         `json:"image"       gorm:"size:255;not null"`
	CategoryID uint64         `json:"category_id" gorm:"index;not null"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	AuthorID   uint64         `json:"author_id"   gorm:"index;not null"`
	Author     *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Tags []TagModel `json:"tags" gorm:"many2many:article_tags;joinForeignKey:ArticleID;joinReferences:TagID"`
}

func (ArticleModel) TableName() string { return "articles" }
