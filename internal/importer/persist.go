package importer

import (
	"time"

	"gorm.io/gorm"
)

// PersistBatchSize bounds the number of rows per bulk-insert call to keep
// per-call memory and transaction size in check.
const PersistBatchSize = 250_000

// bulkInsert persists a batch with chunked inserts. GORM assigns primary
// keys back into the passed structs, so dependent join rows can read them
// after the call.
func bulkInsert[T any](tx *gorm.DB, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, PersistBatchSize).Error
}

// ensureEntities assigns primary keys to a batch-local unique entity set,
// reusing rows that already exist in the store and bulk-inserting the rest.
// conds builds the natural-key lookup for one entity (nil values match NULL
// columns); id exposes the entity's primary-key field.
//
// Batch-local fingerprinting alone cannot see entities persisted by earlier
// import runs (the tree-debris and tree-trims files share the trees table,
// and re-imports overlap on every shared type), so each unique entity gets
// one existence check before the insert step.
func ensureEntities[T any](tx *gorm.DB, entities []*T, conds func(*T) map[string]interface{}, id func(*T) *uint) error {
	fresh := make([]*T, 0, len(entities))
	for _, entity := range entities {
		existing := new(T)
		res := tx.Where(conds(entity)).Limit(1).Find(existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			*id(entity) = *id(existing)
			continue
		}
		fresh = append(fresh, entity)
	}
	return bulkInsert(tx, fresh)
}

// nullable converts a *string natural-key field into a lookup condition
// value, mapping nil onto an SQL NULL match.
func nullable(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// nullableTime is the *time.Time counterpart of nullable.
func nullableTime(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
