package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portal-berita/core/internal/database/dbtest"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/pkg/apperr"
	sessionpkg "github.com/portal-berita/core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(dbtest.Open(t), WithBcryptCost(bcrypt.MinCost))
}

func mustCreate(t *testing.T, s *Service, name, email string) *models.UserModel {
	t.Helper()
	u, err := s.Create(context.Background(), CreateInput{Name: name, Email: email, Password: "password123"})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return u
}

func TestCreate_HashesPassword(t *testing.T) {
	s := newTestService(t)
	u := mustCreate(t, s, "Budi", "Budi@Example.com")
	if u.Email != "budi@example.com" {
		t.Fatalf("email=%q want lowercased", u.Email)
	}
	if u.Password == "password123" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")); err != nil {
		t.Fatalf("hash mismatch: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	s := newTestService(t)
	mustCreate(t, s, "Budi", "budi@example.com")

	_, err := s.Create(context.Background(), CreateInput{Name: "Budi", Email: "budi@example.com", Password: "short"})
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("err=%v want validation", err)
	}
	for _, f := range []string{"name", "email", "password"} {
		if !ae.Fields.Has(f) {
			t.Fatalf("missing %s in %v", f, ae.Fields)
		}
	}

	_, err = s.Create(context.Background(), CreateInput{Name: "A", Email: "nope", Password: "password123"})
	ae, _ = apperr.As(err)
	if ae == nil || !ae.Fields.Has("name") || !ae.Fields.Has("email") {
		t.Fatalf("err=%v want name+email errors", err)
	}
}

func TestUpdate_KeepsPasswordWhenAbsent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := mustCreate(t, s, "Budi", "budi@example.com")
	oldHash := u.Password

	empty := ""
	got, err := s.Update(ctx, u.ID, UpdateInput{Name: "Budi S", Email: "budi@example.com", Password: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Budi S" || got.Password != oldHash {
		t.Fatalf("name=%q hash changed=%v", got.Name, got.Password != oldHash)
	}

	pw := "newpassword"
	got, err = s.Update(ctx, u.ID, UpdateInput{Name: "Budi S", Email: "budi@example.com", Password: &pw})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(got.Password), []byte(pw)) != nil {
		t.Fatalf("password not rehashed")
	}
}

func TestUpdate_UniqueExcludesSelf(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, s, "Ani", "ani@example.com")
	mustCreate(t, s, "Budi", "budi@example.com")

	if _, err := s.Update(ctx, a.ID, UpdateInput{Name: "Ani", Email: "ani@example.com"}); err != nil {
		t.Fatalf("self update rejected: %v", err)
	}
	_, err := s.Update(ctx, a.ID, UpdateInput{Name: "Ani", Email: "budi@example.com"})
	ae, _ := apperr.As(err)
	if ae == nil || ae.Fields["email"][0] != msgEmailTaken {
		t.Fatalf("err=%v want email taken", err)
	}
	if _, err := s.Update(ctx, 999, UpdateInput{Name: "X Y", Email: "x@example.com"}); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := mustCreate(t, s, "Budi", "budi@example.com")
	if _, _, err := sessionpkg.Issue(ctx, s.db, u.ID, "", "", time.Hour); err != nil {
		t.Fatalf("issue: %v", err)
	}

	deleted, err := s.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != u.ID || deleted.Email != "budi@example.com" {
		t.Fatalf("deleted=%+v", deleted)
	}
	var sessions int64
	s.db.Model(&models.UserSession{}).Where("user_id = ?", u.ID).Count(&sessions)
	if sessions != 0 {
		t.Fatalf("sessions left=%d", sessions)
	}
	if _, err := s.Get(ctx, u.ID); !apperr.IsNotFound(err) {
		t.Fatalf("get after delete err=%v", err)
	}
	if _, err := s.Delete(ctx, u.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second delete err=%v", err)
	}
}

func TestDelete_RefusedWhileAuthoring(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	u := mustCreate(t, s, "Budi", "budi@example.com")
	cat := &models.CategoryModel{Name: "News", Slug: "news"}
	s.db.Create(cat)
	art := &models.ArticleModel{Title: "T", Slug: "t", Body: "b", Image: "berita/x.png", CategoryID: cat.ID, AuthorID: u.ID}
	if err := s.db.Omit("Tags").Create(art).Error; err != nil {
		t.Fatalf("article: %v", err)
	}

	if _, err := s.Delete(ctx, u.ID); !apperr.IsConflict(err) {
		t.Fatalf("err=%v want conflict", err)
	}
	if _, err := s.Get(ctx, u.ID); err != nil {
		t.Fatalf("user gone after refused delete: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustCreate(t, s, "Budi", "budi@example.com")

	if u, err := s.Authenticate(ctx, " BUDI@example.com ", "password123"); err != nil || u.Name != "Budi" {
		t.Fatalf("u=%v err=%v", u, err)
	}
	if _, err := s.Authenticate(ctx, "budi@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
	if _, err := s.Authenticate(ctx, "ghost@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err=%v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestService(t)
	a := mustCreate(t, s, "Ani", "ani@example.com")
	b := mustCreate(t, s, "Budi", "budi@example.com")
	users, pag, err := s.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if pag != nil {
		t.Fatalf("unpaged list returned pagination")
	}
	if len(users) != 2 || users[0].ID != b.ID || users[1].ID != a.ID {
		t.Fatalf("order=%v", []uint64{users[0].ID, users[1].ID})
	}
}
