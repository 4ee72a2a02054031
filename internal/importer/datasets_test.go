package importer

import (
	"testing"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

func TestDatasetRegistry(t *testing.T) {
	datasets := Datasets()
	if len(datasets) != 11 {
		t.Fatalf("registry holds %d datasets, want 11", len(datasets))
	}

	suffixes := make(map[string]bool)
	for _, ds := range datasets {
		if suffixes[ds.Suffix] {
			t.Errorf("duplicate suffix %q", ds.Suffix)
		}
		suffixes[ds.Suffix] = true

		if !database.IsValidServiceType(ds.ServiceType) {
			t.Errorf("%s: unknown service type %q", ds.Name, ds.ServiceType)
		}
		if ds.Dedup != DedupNaturalKey && ds.Dedup != DedupFullRow {
			t.Errorf("%s: unknown dedup mode %q", ds.Name, ds.Dedup)
		}
		// Every dataset carries the incident core columns.
		for _, col := range []string{"creation_date", "status", "completion_date", "service_request_number"} {
			if !containsColumn(ds.Columns, col) {
				t.Errorf("%s: missing column %q", ds.Name, col)
			}
		}
	}
}

func TestDatasetForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"abandoned-vehicles.csv", "abandoned-vehicles"},
		{"/data/2011-abandoned-vehicles.csv", "abandoned-vehicles"},
		{"downloads/tree-trims.csv", "tree-trims"},
		{"mystery.csv", ""},
		{"abandoned-vehicles.json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ds := DatasetForFile(tt.path)
			if tt.want == "" {
				if ds != nil {
					t.Fatalf("DatasetForFile(%q) = %s, want nil", tt.path, ds.Name)
				}
				return
			}
			if ds == nil || ds.Name != tt.want {
				t.Fatalf("DatasetForFile(%q) = %v, want %s", tt.path, ds, tt.want)
			}
		})
	}
}

func containsColumn(cols []string, want string) bool {
	for _, c := range cols {
		if c == want {
			return true
		}
	}
	return false
}
