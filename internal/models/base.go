package models

import "time"

// Base is the base model for all entities.
// Rows are deleted physically so unique indexes and join rows stay exact.
type Base struct {
	ID        uint64    `json:"id"         gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}
