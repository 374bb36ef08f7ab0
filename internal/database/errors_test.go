package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestDuplicateKey_MySQL(t *testing.T) {
	err := fmt.Errorf("insert: %w", &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'Hello' for key 'articles.idx_articles_title'",
	})
	if !DuplicateKey(err, "idx_articles_title") {
		t.Fatalf("title index not matched")
	}
	if DuplicateKey(err, "idx_articles_slug") {
		t.Fatalf("slug index matched a title violation")
	}
	if !DuplicateKey(err, "") {
		t.Fatalf("any-index match failed")
	}
}

func TestDuplicateKey_SQLite(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: articles.title")
	if !DuplicateKey(err, "idx_articles_title") {
		t.Fatalf("sqlite title violation not matched")
	}
	if DuplicateKey(err, "idx_articles_slug") {
		t.Fatalf("sqlite slug matched a title violation")
	}
	if DuplicateKey(gorm.ErrRecordNotFound, "") {
		t.Fatalf("not-found treated as duplicate")
	}
}

func TestMissingReference(t *testing.T) {
	err := &mysql.MySQLError{
		Number:  1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails (`db`.`articles`, CONSTRAINT `fk_articles_category` FOREIGN KEY (`category_id`) REFERENCES `categories` (`id`))",
	}
	col, ok := MissingReference(err)
	if !ok || col != "category_id" {
		t.Fatalf("col=%q ok=%v want=category_id true", col, ok)
	}
	if _, ok := MissingReference(errors.New("boom")); ok {
		t.Fatalf("plain error treated as fk violation")
	}
}

func TestStillReferenced(t *testing.T) {
	if !StillReferenced(&mysql.MySQLError{Number: 1451}) {
		t.Fatalf("1451 not treated as referenced")
	}
	if StillReferenced(&mysql.MySQLError{Number: 1062}) {
		t.Fatalf("1062 treated as referenced")
	}
}
