package importer

import (
	"testing"
)

func TestFingerprint_NullEqualsEmpty(t *testing.T) {
	plate := "ABC123"
	if Fingerprint(&plate, nil, nil) != Fingerprint(&plate, strPtr(""), strPtr("")) {
		t.Error("null and empty fields should share a fingerprint")
	}
}

func TestFingerprint_DistinguishesFieldBoundaries(t *testing.T) {
	a, b, ab := "a", "b", "ab"
	if Fingerprint(&a, &b) == Fingerprint(&ab, nil) {
		t.Error("concatenation across field boundaries should not collide")
	}
}

func TestResolveEntities(t *testing.T) {
	records := []Record{
		{Fields: map[string]string{"license_plate": "ABC123", "vehicle_color": "Red"}},
		{Fields: map[string]string{"license_plate": "XYZ789"}},
		{Fields: map[string]string{"license_plate": "ABC123", "vehicle_color": "Red"}},
		{Fields: map[string]string{}},
	}

	unique, byRecord := ResolveEntities(records, extractVehicle, vehicleFingerprint)

	if len(unique) != 2 {
		t.Fatalf("got %d unique vehicles, want 2", len(unique))
	}
	if len(byRecord) != len(records) {
		t.Fatalf("byRecord length = %d, want %d", len(byRecord), len(records))
	}
	if byRecord[0] != byRecord[2] {
		t.Error("records sharing vehicle fields should map to the same instance")
	}
	if byRecord[0] == byRecord[1] {
		t.Error("distinct vehicles should not share an instance")
	}
	if byRecord[3] != nil {
		t.Error("all-null record should map to no vehicle")
	}
	if byRecord[0] != unique[0] {
		t.Error("first occurrence should be the canonical instance")
	}
}

func TestResolveEntities_AllNullActivity(t *testing.T) {
	records := []Record{
		{Fields: map[string]string{"current_activity": "", "most_recent_action": ""}},
	}

	unique, byRecord := ResolveEntities(records, extractActivity, activityFingerprint)
	if len(unique) != 0 {
		t.Errorf("got %d activities, want 0", len(unique))
	}
	if byRecord[0] != nil {
		t.Error("all-null activity should map to nil")
	}
}

func strPtr(s string) *string { return &s }
