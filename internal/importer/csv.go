package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// Record is one source row with cells mapped onto canonical column names.
// Raw cell values stay in Fields; the normalizer fills in the parsed
// timestamp, status and service-type fields.
type Record struct {
	Fields map[string]string

	CreationDate   *time.Time
	CompletionDate *time.Time
	Status         database.IncidentStatus
	ServiceType    database.ServiceType
}

// Field returns the trimmed cell value for a canonical column, with ok=false
// for missing or empty cells. An empty cell represents null.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FieldPtr returns the cell value as a nullable string.
func (r Record) FieldPtr(name string) *string {
	if v, ok := r.Field(name); ok {
		return &v
	}
	return nil
}

// ReadFile parses one delimited source file into records using the dataset's
// positional column layout. The header row is discarded. Rows shorter than
// the layout leave the trailing columns null; extra cells are ignored.
func ReadFile(path string, ds *Dataset) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return readRecords(f, ds)
}

func readRecords(r io.Reader, ds *Dataset) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Header row carries the source's own column names; the registry layout
	// replaces them.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}

		fields := make(map[string]string, len(ds.Columns))
		for i, col := range ds.Columns {
			if i < len(row) {
				fields[col] = strings.TrimSpace(row[i])
			} else {
				fields[col] = ""
			}
		}
		records = append(records, Record{Fields: fields})
	}

	return records, nil
}
