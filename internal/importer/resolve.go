package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable content hash over an entity's natural-key
// values. Null fields contribute the empty string, so two entities whose
// field tuples are equal after null normalization share a fingerprint. The
// hash lets a batch of hundreds of thousands of rows deduplicate shared
// sub-entities without a storage round trip per row.
func Fingerprint(parts ...*string) string {
	values := make([]string, len(parts))
	for i, p := range parts {
		if p != nil {
			values[i] = *p
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(values, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// ResolveEntities deduplicates the sub-entities referenced by a batch of
// records. extract returns the candidate entity for a record, or nil when
// every natural-key field is null (the record then maps to no entity).
// fingerprint decides batch-local identity: the first record producing a
// given fingerprint creates the canonical instance, and every later record
// with the same fingerprint maps to that same instance.
//
// unique contains no two entities with equal fingerprints; byRecord is a
// total mapping from record index to canonical-entity-or-nil.
func ResolveEntities[T any](records []Record, extract func(Record) *T, fingerprint func(*T) string) (unique []*T, byRecord []*T) {
	byRecord = make([]*T, len(records))
	seen := make(map[string]*T)

	for i := range records {
		entity := extract(records[i])
		if entity == nil {
			continue
		}
		fp := fingerprint(entity)
		if canonical, ok := seen[fp]; ok {
			byRecord[i] = canonical
			continue
		}
		seen[fp] = entity
		unique = append(unique, entity)
		byRecord[i] = entity
	}

	return unique, byRecord
}
