package models

// UserModel is an account that can sign in and author articles.
type UserModel struct {
	Base
	Name     string `json:"name"  gorm:"size:191;uniqueIndex:idx_users_name;not null"`
	Email    string `json:"email" gorm:"size:191;uniqueIndex:idx_users_email;not null"`
	Password string `json:"-"     gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }
