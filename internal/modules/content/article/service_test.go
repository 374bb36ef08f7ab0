package article

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/portal-berita/core/internal/database/dbtest"
	"github.com/portal-berita/core/internal/models"
	"github.com/portal-berita/core/internal/modules/storage/image"
	"github.com/portal-berita/core/internal/pkg/apperr"
	"github.com/portal-berita/core/internal/pkg/slug"
	"gorm.io/gorm"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fixture struct {
	db     *gorm.DB
	store  *image.MemoryStore
	svc    *Service
	cat    *models.CategoryModel
	author *models.UserModel
	tags   []models.TagModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	store := image.NewMemoryStore()
	f := &fixture{db: db, store: store, svc: NewService(db, store)}

	f.cat = &models.CategoryModel{Name: "Nasional", Slug: "nasional"}
	f.author = &models.UserModel{Name: "Ani", Email: "ani@example.com", Password: "x"}
	if err := db.Create(f.cat).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	if err := db.Create(f.author).Error; err != nil {
		t.Fatalf("author: %v", err)
	}
	for _, n := range []string{"satu", "dua", "tiga"} {
		tag := models.TagModel{Name: n, Slug: n}
		if err := db.Create(&tag).Error; err != nil {
			t.Fatalf("tag: %v", err)
		}
		f.tags = append(f.tags, tag)
	}
	return f
}

func (f *fixture) upload() *image.Upload {
	return &image.Upload{Filename: "a.png", Data: append([]byte(nil), pngData...)}
}

func (f *fixture) input(title string, tagIdx ...int) CreateInput {
	in := CreateInput{
		Title:      title,
		Body:       "Isi **berita**",
		Image:      f.upload(),
		CategoryID: f.cat.ID,
		AuthorID:   f.author.ID,
	}
	for _, i := range tagIdx {
		in.TagIDs = append(in.TagIDs, f.tags[i].ID)
	}
	return in
}

func (f *fixture) pairs(t *testing.T, articleID uint64) []uint64 {
	t.Helper()
	var ids []uint64
	if err := f.db.Model(&models.ArticleTag{}).Where("article_id = ?", articleID).Pluck("tag_id", &ids).Error; err != nil {
		t.Fatalf("pairs: %v", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestCreate_DerivesSlugAndLinksTags(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.Create(context.Background(), f.input("Banjir Melanda Jakarta Utara", 0, 1, 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Slug != slug.Make("Banjir Melanda Jakarta Utara") {
		t.Fatalf("slug=%q", a.Slug)
	}
	if got := f.pairs(t, a.ID); len(got) != 2 || got[0] != f.tags[0].ID || got[1] != f.tags[1].ID {
		t.Fatalf("pairs=%v", got)
	}
	if len(a.Tags) != 2 || a.Category == nil || a.Category.ID != f.cat.ID || a.Author == nil || a.Author.ID != f.author.ID {
		t.Fatalf("relations not loaded: %+v", a)
	}
	if !f.store.Has(a.Image) {
		t.Fatalf("image %q not stored", a.Image)
	}
}

func TestCreate_DuplicateTitleIsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, f.input("Sama", 0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := f.svc.Create(ctx, f.input("Sama", 1))
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("err=%v want validation", err)
	}
	if ae.Fields["title"][0] != msgTitleTaken {
		t.Fatalf("fields=%v", ae.Fields)
	}
	if f.store.Len() != 1 {
		t.Fatalf("rejected create stored an image: len=%d", f.store.Len())
	}
}

func TestCreate_ReportsEveryFieldAtOnce(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		CategoryID: 999,
		TagIDs:     []uint64{f.tags[0].ID, 999},
		FormErrors: apperr.Fields{"author_id": {"author_id must be an integer"}},
	})
	ae, _ := apperr.As(err)
	if ae == nil {
		t.Fatalf("err=%v want validation", err)
	}
	for _, k := range []string{"title", "body", "image", "category_id", "author_id", "tag_ids"} {
		if !ae.Fields.Has(k) {
			t.Fatalf("missing %s in %v", k, ae.Fields)
		}
	}
	if got := ae.Fields["category_id"][0]; got != "selected category_id is invalid" {
		t.Fatalf("category_id=%q", got)
	}
}

func TestCreate_RejectsNonImage(t *testing.T) {
	f := newFixture(t)
	in := f.input("Gambar palsu", 0)
	in.Image = &image.Upload{Filename: "x.png", Data: []byte("just text")}
	_, err := f.svc.Create(context.Background(), in)
	ae, _ := apperr.As(err)
	if ae == nil || !ae.Fields.Has(image.Field) {
		t.Fatalf("err=%v want image error", err)
	}
}

func TestCreate_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailPut = errors.New("disk full")
	_, err := f.svc.Create(context.Background(), f.input("Tanpa gambar", 0))
	if apperr.KindOf(err) != apperr.KindStorage {
		t.Fatalf("err=%v want storage", err)
	}
	var n int64
	f.db.Model(&models.ArticleModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("article row written without image")
	}
}

func TestCreate_RemovesImageWhenTransactionFails(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("join insert failed")
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_article_tags", func(tx *gorm.DB) {
		if tx.Statement.Table == "article_tags" {
			_ = tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = f.svc.Create(context.Background(), f.input("Gagal", 0))
	if apperr.KindOf(err) != apperr.KindInternal || !errors.Is(err, boom) {
		t.Fatalf("err=%v want internal wrapping boom", err)
	}
	if f.store.Len() != 0 {
		t.Fatalf("image left behind: len=%d", f.store.Len())
	}
	var n int64
	f.db.Model(&models.ArticleModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("article row survived rollback")
	}
}

func TestUpdate_SyncsTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, f.input("Sinkron", 0, 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var before models.ArticleTag
	f.db.Where("article_id = ? AND tag_id = ?", a.ID, f.tags[1].ID).First(&before)

	got, err := f.svc.Update(ctx, a.ID, UpdateInput{
		Title:      "Sinkron",
		Body:       "baru",
		CategoryID: f.cat.ID,
		AuthorID:   f.author.ID,
		TagIDs:     []uint64{f.tags[1].ID, f.tags[2].ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ids := f.pairs(t, a.ID); len(ids) != 2 || ids[0] != f.tags[1].ID || ids[1] != f.tags[2].ID {
		t.Fatalf("pairs=%v want [%d %d]", ids, f.tags[1].ID, f.tags[2].ID)
	}
	var after models.ArticleTag
	f.db.Where("article_id = ? AND tag_id = ?", a.ID, f.tags[1].ID).First(&after)
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("unchanged pair was rewritten")
	}
	if got.Body != "baru" || got.Image != a.Image || got.Slug != a.Slug {
		t.Fatalf("got=%+v", got)
	}
}

func TestUpdate_NilTagsKeepsAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.input("Tetap", 0, 2))

	_, err := f.svc.Update(ctx, a.ID, UpdateInput{Title: "Tetap Judul Baru", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ids := f.pairs(t, a.ID); len(ids) != 2 {
		t.Fatalf("pairs=%v", ids)
	}

	_, err = f.svc.Update(ctx, a.ID, UpdateInput{Title: "Tetap", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID, TagIDs: []uint64{}})
	ae, _ := apperr.As(err)
	if ae == nil || ae.Fields["tag_ids"][0] != msgTagsEmpty {
		t.Fatalf("empty tag set err=%v", err)
	}
}

func TestUpdate_SlugIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.input("Judul Lama", 0))
	got, err := f.svc.Update(ctx, a.ID, UpdateInput{Title: "Judul Baru", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Judul Baru" || got.Slug != "judul-lama" {
		t.Fatalf("title=%q slug=%q", got.Title, got.Slug)
	}
}

func TestUpdate_ReplacesImageAfterCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.input("Foto", 0))
	old := a.Image

	got, err := f.svc.Update(ctx, a.ID, UpdateInput{Title: "Foto", Body: "b", Image: f.upload(), CategoryID: f.cat.ID, AuthorID: f.author.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Image == old || !f.store.Has(got.Image) {
		t.Fatalf("new image=%q stored=%v", got.Image, f.store.Has(got.Image))
	}
	if f.store.Has(old) {
		t.Fatalf("old image %q kept", old)
	}
}

func TestUpdate_TitleUniquenessExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.input("Pertama", 0))
	f.svc.Create(ctx, f.input("Kedua", 0))

	if _, err := f.svc.Update(ctx, a.ID, UpdateInput{Title: "Pertama", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID}); err != nil {
		t.Fatalf("own title rejected: %v", err)
	}
	_, err := f.svc.Update(ctx, a.ID, UpdateInput{Title: "Kedua", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID})
	if !apperr.IsValidation(err) {
		t.Fatalf("err=%v want validation", err)
	}
	if _, err := f.svc.Update(ctx, 12345, UpdateInput{Title: "X", Body: "b", CategoryID: f.cat.ID, AuthorID: f.author.ID}); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestDelete_RemovesPairsRowAndImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.input("Hapus", 0, 1, 2))

	deleted, err := f.svc.Delete(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Title != "Hapus" || len(deleted.Tags) != 3 {
		t.Fatalf("deleted=%+v", deleted)
	}
	if ids := f.pairs(t, a.ID); len(ids) != 0 {
		t.Fatalf("pairs left=%v", ids)
	}
	if f.store.Has(a.Image) {
		t.Fatalf("image kept")
	}
	if _, err := f.svc.Get(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("get after delete err=%v", err)
	}
	var tags int64
	f.db.Model(&models.TagModel{}).Count(&tags)
	if tags != 3 {
		t.Fatalf("tags removed with article: %d", tags)
	}
}

func TestList_NewestFirstWithRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, title := range []string{"A satu", "B dua", "C tiga"} {
		if _, err := f.svc.Create(ctx, f.input(title, 0, 1)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	arts, pag, err := f.svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if pag != nil || len(arts) != 3 {
		t.Fatalf("len=%d pag=%v", len(arts), pag)
	}
	if arts[0].Title != "C tiga" || arts[2].Title != "A satu" {
		t.Fatalf("order=%s,%s,%s", arts[0].Title, arts[1].Title, arts[2].Title)
	}
	for _, a := range arts {
		if len(a.Tags) != 2 || a.Category == nil || a.Author == nil {
			t.Fatalf("relations missing on %q", a.Title)
		}
	}
}

func TestDiffIDs(t *testing.T) {
	remove, add := diffIDs([]uint64{1, 2}, []uint64{2, 3})
	if len(remove) != 1 || remove[0] != 1 || len(add) != 1 || add[0] != 3 {
		t.Fatalf("remove=%v add=%v", remove, add)
	}
	if got := uniqueIDs([]uint64{3, 0, 3, 1}); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("uniqueIDs=%v", got)
	}
}

func TestCreate_FormErrorReplacesRequired(t *testing.T) {
	f := newFixture(t)
	in := f.input("Angka", 0)
	in.CategoryID = 0
	in.FormErrors = apperr.Fields{"category_id": {"category_id must be an integer"}}

	_, err := f.svc.Create(context.Background(), in)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("err=%v want validation", err)
	}
	got := ae.Fields["category_id"]
	if len(got) != 1 || got[0] != "category_id must be an integer" {
		t.Fatalf("category_id=%v want only the integer message", got)
	}
}
