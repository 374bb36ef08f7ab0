package article

import (
	"github.com/portal-berita/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttachTags links tagIDs to the article. Pairs that already exist are
// left as they are.
func AttachTags(tx *gorm.DB, articleID uint64, tagIDs []uint64) error {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.ArticleTag, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.ArticleTag{ArticleID: articleID, TagID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// SyncTags makes the article's tag set equal to tagIDs. Pairs in both sets
// are not touched.
func SyncTags(tx *gorm.DB, articleID uint64, tagIDs []uint64) error {
	var current []uint64
	if err := tx.Model(&models.ArticleTag{}).Where("article_id = ?", articleID).Pluck("tag_id", &current).Error; err != nil {
		return err
	}
	remove, add := diffIDs(current, uniqueIDs(tagIDs))
	if len(remove) > 0 {
		if err := tx.Where("article_id = ? AND tag_id IN ?", articleID, remove).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
	}
	return AttachTags(tx, articleID, add)
}

// DetachTags removes every tag from the article.
func DetachTags(tx *gorm.DB, articleID uint64) error {
	return tx.Where("article_id = ?", articleID).Delete(&models.ArticleTag{}).Error
}

// diffIDs returns the ids only in current and the ids only in want.
func diffIDs(current, want []uint64) (remove, add []uint64) {
	inWant := make(map[uint64]struct{}, len(want))
	for _, id := range want {
		inWant[id] = struct{}{}
	}
	inCurrent := make(map[uint64]struct{}, len(current))
	for _, id := range current {
		inCurrent[id] = struct{}{}
		if _, ok := inWant[id]; !ok {
			remove = append(remove, id)
		}
	}
	for _, id := range want {
		if _, ok := inCurrent[id]; !ok {
			add = append(add, id)
		}
	}
	return remove, add
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	if ids == nil {
		return nil
	}
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
