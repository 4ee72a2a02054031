package importer

import (
	"strings"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// DedupMode selects the row-deduplication key used by Normalize.
type DedupMode string

const (
	// DedupNaturalKey collapses rows sharing the incident natural-key tuple
	// plus zip code.
	DedupNaturalKey DedupMode = "natural_key"
	// DedupFullRow collapses only rows that are identical across every column.
	DedupFullRow DedupMode = "full_row"
)

// timestampLayouts are the accepted source timestamp formats: the Chicago
// data-portal format first, ISO fallbacks after.
var timestampLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp coerces a raw cell into a UTC instant. Returns nil for
// empty or unparseable values; normalization never fails on bad input.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ParseStatus maps the source's free-text status onto the canonical enum.
// ok=false means the raw text matched no known form.
func ParseStatus(raw string) (database.IncidentStatus, bool) {
	switch strings.ToUpper(strings.Join(strings.Fields(raw), " ")) {
	case "OPEN":
		return database.StatusOpen, true
	case "OPEN - DUP", "OPEN_DUP":
		return database.StatusOpenDup, true
	case "COMPLETED", "CLOSED":
		return database.StatusCompleted, true
	case "COMPLETED - DUP", "COMPLETED_DUP", "CLOSED - DUP":
		return database.StatusCompletedDup, true
	}
	return "", false
}

// Normalize prepares one freshly parsed batch for entity construction:
// stamps every record with the dataset's service-type tag (discarding the
// source's free-text request type), maps status text onto the enum, coerces
// creation/completion timestamps to UTC (empty or unparseable completion
// stays null — that is the open-request contract, not an error), and
// collapses duplicate rows keeping the last occurrence. Later rows win
// because a file can contain successive refreshes of the same request.
func Normalize(records []Record, ds *Dataset) []Record {
	for i := range records {
		rec := &records[i]

		rec.ServiceType = ds.ServiceType
		rec.Fields["type_of_service_request"] = string(ds.ServiceType)

		if status, ok := ParseStatus(rec.Fields["status"]); ok {
			rec.Status = status
		} else {
			// Keep the raw text so the storage constraint surfaces it
			// instead of silently dropping the row.
			rec.Status = database.IncidentStatus(rec.Fields["status"])
		}

		rec.CreationDate = ParseTimestamp(rec.Fields["creation_date"])
		rec.CompletionDate = ParseTimestamp(rec.Fields["completion_date"])
	}

	return dedupKeepLast(records, ds)
}

// dedupKeepLast removes duplicate records, keeping the last occurrence of
// each key in file order.
func dedupKeepLast(records []Record, ds *Dataset) []Record {
	lastIndex := make(map[string]int, len(records))
	for i := range records {
		lastIndex[dedupKey(records[i], ds)] = i
	}
	if len(lastIndex) == len(records) {
		return records
	}

	out := make([]Record, 0, len(lastIndex))
	for i := range records {
		if lastIndex[dedupKey(records[i], ds)] == i {
			out = append(out, records[i])
		}
	}
	return out
}

func dedupKey(rec Record, ds *Dataset) string {
	var parts []string
	switch ds.Dedup {
	case DedupFullRow:
		parts = make([]string, 0, len(ds.Columns))
		for _, col := range ds.Columns {
			parts = append(parts, rec.Fields[col])
		}
	default:
		parts = []string{
			rec.Fields["creation_date"],
			rec.Fields["status"],
			rec.Fields["completion_date"],
			rec.Fields["service_request_number"],
			rec.Fields["type_of_service_request"],
			rec.Fields["street_address"],
			rec.Fields["zip_code"],
		}
	}
	return strings.Join(parts, "\x1f")
}
