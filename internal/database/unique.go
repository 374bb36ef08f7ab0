package database

import (
	"context"

	"gorm.io/gorm"
)

// Taken reports whether another row of model already holds value in column.
// excludeID skips the row being updated; pass 0 on create.
func Taken(ctx context.Context, db *gorm.DB, model interface{}, column, value string, excludeID uint64) (bool, error) {
	q := db.WithContext(ctx).Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Exists reports whether a row of model with the given primary key exists.
func Exists(ctx context.Context, db *gorm.DB, model interface{}, id uint64) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MissingIDs returns the ids that have no row in model's table, preserving
// input order.
func MissingIDs(ctx context.Context, db *gorm.DB, model interface{}, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint64
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[uint64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uint64
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
