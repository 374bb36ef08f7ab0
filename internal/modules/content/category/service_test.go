package category

import (
	"context"
	"testing"

	"github.com/portal-berita/core/internal/database/dbtest"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/slug"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewService(db, nil), db
}

func TestCreate_DerivesSlug(t *testing.T) {
	s, _ := newTestService(t)
	cat, err := s.Create(context.Background(), Input{Name: "  Ekonomi Bisnis "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.Name != "Ekonomi Bisnis" || cat.Slug != slug.Make("Ekonomi Bisnis") {
		t.Fatalf("name=%q slug=%q", cat.Name, cat.Slug)
	}
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, Input{Name: "   "}); !apperr.IsValidation(err) {
		t.Fatalf("blank name err=%v want validation", err)
	}
	if _, err := s.Create(ctx, Input{Name: "Olahraga"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Create(ctx, Input{Name: "Olahraga"})
	ae, _ := apperr.As(err)
	if ae == nil || ae.Kind != apperr.KindValidation || ae.Fields["name"][0] != msgNameTaken {
		t.Fatalf("duplicate err=%v", err)
	}
}

func TestUpdate_SlugFollowsNameIdempotently(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	cat, _ := s.Create(ctx, Input{Name: "Tekno"})

	got, err := s.Update(ctx, cat.ID, Input{Name: "Sains Tekno"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Slug != "sains-tekno" {
		t.Fatalf("slug=%q want=sains-tekno", got.Slug)
	}
	again, err := s.Update(ctx, cat.ID, Input{Name: "Sains Tekno"})
	if err != nil {
		t.Fatalf("second update rejected own name: %v", err)
	}
	if again.Slug != got.Slug {
		t.Fatalf("slug changed on identical rename: %q -> %q", got.Slug, again.Slug)
	}
	if _, err := s.Update(ctx, 404, Input{Name: "X"}); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestDelete_RefusedWhileReferenced(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	cat, _ := s.Create(ctx, Input{Name: "Politik"})
	author := &models.UserModel{Name: "Ani", Email: "ani@example.com", Password: "x"}
	db.Create(author)
	art := &models.ArticleModel{Title: "T", Slug: "t", Body: "b", Image: "berita/a.png", CategoryID: cat.ID, AuthorID: author.ID}
	if err := db.Omit("Tags").Create(art).Error; err != nil {
		t.Fatalf("article: %v", err)
	}

	if _, err := s.Delete(ctx, cat.ID); !apperr.IsConflict(err) {
		t.Fatalf("err=%v want conflict", err)
	}

	db.Delete(art)
	deleted, err := s.Delete(ctx, cat.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Name != "Politik" {
		t.Fatalf("deleted=%+v", deleted)
	}
	if _, err := s.Get(ctx, cat.ID); !apperr.IsNotFound(err) {
		t.Fatalf("get after delete err=%v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	for _, n := range []string{"A1", "B2", "C3"} {
		if _, err := s.Create(ctx, Input{Name: n}); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	cats, _, err := s.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 3 || cats[0].Name != "C3" || cats[2].Name != "A1" {
		t.Fatalf("order=%v", cats)
	}
}

func TestCreateUpdate_RejectsNameWithoutSlug(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	_, err := s.Create(ctx, Input{Name: "!!!"})
	ae, _ := apperr.As(err)
	if ae == nil || ae.Kind != apperr.KindValidation || ae.Fields["name"][0] != msgNameNoSlug {
		t.Fatalf("create err=%v want %q", err, msgNameNoSlug)
	}

	cat, err := s.Create(ctx, Input{Name: "Hukum"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = s.Update(ctx, cat.ID, Input{Name: "---"})
	ae, _ = apperr.As(err)
	if ae == nil || ae.Fields["name"][0] != msgNameNoSlug {
		t.Fatalf("update err=%v want %q", err, msgNameNoSlug)
	}
}
