package importer

import (
	"testing"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"portal format", "01/15/2011 02:30:00 PM", timePtr(2011, time.January, 15, 14, 30)},
		{"iso with t", "2011-01-15T14:30:00", timePtr(2011, time.January, 15, 14, 30)},
		{"iso with space", "2011-01-15 14:30:00", timePtr(2011, time.January, 15, 14, 30)},
		{"date only", "2011-01-15", timePtr(2011, time.January, 15, 0, 0)},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"garbage", "not a date", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.raw)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   database.IncidentStatus
		wantOK bool
	}{
		{"Open", database.StatusOpen, true},
		{"OPEN", database.StatusOpen, true},
		{"Open - Dup", database.StatusOpenDup, true},
		{"Completed", database.StatusCompleted, true},
		{"Closed", database.StatusCompleted, true},
		{"Completed - Dup", database.StatusCompletedDup, true},
		{"  completed   -   dup ", database.StatusCompletedDup, true},
		{"Pending", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseStatus(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseStatus(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_StampsServiceType(t *testing.T) {
	ds := DatasetForFile("abandoned-vehicles.csv")
	records := []Record{
		{Fields: map[string]string{
			"creation_date":           "01/15/2011 02:30:00 PM",
			"status":                  "Completed",
			"type_of_service_request": "Abandoned Vehicle Complaint",
		}},
	}

	got := Normalize(records, ds)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].ServiceType != database.ServiceAbandonedVehicle {
		t.Errorf("service type = %q, want %q", got[0].ServiceType, database.ServiceAbandonedVehicle)
	}
	if got[0].Fields["type_of_service_request"] != "ABANDONED_VEHICLE" {
		t.Errorf("type field = %q, want ABANDONED_VEHICLE", got[0].Fields["type_of_service_request"])
	}
	if got[0].Status != database.StatusCompleted {
		t.Errorf("status = %q, want %q", got[0].Status, database.StatusCompleted)
	}
	if got[0].CreationDate == nil {
		t.Error("creation date not parsed")
	}
	if got[0].CompletionDate != nil {
		t.Error("empty completion date should stay null")
	}
}

func TestNormalize_KeepsRawStatusWhenUnknown(t *testing.T) {
	ds := DatasetForFile("pot-holes-reported.csv")
	records := []Record{
		{Fields: map[string]string{"status": "Pending Review"}},
	}

	got := Normalize(records, ds)
	if got[0].Status != database.IncidentStatus("Pending Review") {
		t.Errorf("status = %q, want raw text preserved", got[0].Status)
	}
}

func TestNormalize_DedupNaturalKeyKeepsLast(t *testing.T) {
	ds := DatasetForFile("pot-holes-reported.csv")
	key := map[string]string{
		"creation_date":          "01/15/2011 02:30:00 PM",
		"status":                 "Open",
		"service_request_number": "11-00001",
		"street_address":         "100 N STATE ST",
		"zip_code":               "60602",
	}
	first := cloneFields(key)
	first["number_of_elements"] = "1"
	second := cloneFields(key)
	second["number_of_elements"] = "7"
	other := cloneFields(key)
	other["service_request_number"] = "11-00002"

	got := Normalize([]Record{{Fields: first}, {Fields: other}, {Fields: second}}, ds)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Original order preserved, later duplicate wins.
	if got[0].Fields["service_request_number"] != "11-00002" {
		t.Errorf("first kept record = %q, want 11-00002", got[0].Fields["service_request_number"])
	}
	if got[1].Fields["number_of_elements"] != "7" {
		t.Errorf("kept duplicate carries %q, want the last occurrence (7)", got[1].Fields["number_of_elements"])
	}
}

func TestNormalize_DedupFullRow(t *testing.T) {
	ds := DatasetForFile("graffiti-removal.csv")
	row := map[string]string{
		"creation_date":          "01/15/2011 02:30:00 PM",
		"status":                 "Open",
		"service_request_number": "11-00001",
		"surface":                "Brick",
	}
	sameKeyDifferentSurface := cloneFields(row)
	sameKeyDifferentSurface["surface"] = "Metal"

	got := Normalize([]Record{{Fields: row}, {Fields: cloneFields(row)}, {Fields: sameKeyDifferentSurface}}, ds)
	// Full-row mode collapses only byte-identical rows; the row differing in
	// a non-key column survives.
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}

func timePtr(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return &t
}

func cloneFields(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
