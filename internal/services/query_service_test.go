package services

import (
	"testing"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"github.com/vtsiatouras/311-chicago-incidents/internal/testhelpers"
	"gorm.io/gorm"
)

func seedIncident(t *testing.T, db *gorm.DB, srn string, st database.ServiceType, created time.Time, opts ...func(*database.Incident)) {
	t.Helper()
	incident := testhelpers.NewIncidentBuilder().
		WithServiceRequestNumber(srn).
		WithServiceType(st).
		WithCreationDate(created).
		Build()
	for _, opt := range opts {
		opt(incident)
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("failed to seed incident %s: %v", srn, err)
	}
}

func withZip(zip int) func(*database.Incident) {
	return func(i *database.Incident) { i.ZipCode = &zip }
}

func withCompletion(completed time.Time) func(*database.Incident) {
	return func(i *database.Incident) {
		i.Status = database.StatusCompleted
		i.CompletionDate = &completed
	}
}

func TestTotalRequestsPerType(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := NewQueryService(db)

	day := time.Date(2011, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedIncident(t, db, "11-1", database.ServicePotHole, day)
	seedIncident(t, db, "11-2", database.ServicePotHole, day.Add(time.Hour))
	seedIncident(t, db, "11-3", database.ServiceGraffiti, day)
	seedIncident(t, db, "11-4", database.ServicePotHole, day.AddDate(0, 2, 0)) // outside range

	start := time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2011, time.March, 31, 23, 59, 59, 0, time.UTC)
	out, err := s.TotalRequestsPerType(start, end)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	if out[0].TypeOfServiceRequest != database.ServicePotHole || out[0].NumberOfRequests != 2 {
		t.Errorf("top row = %+v, want POT_HOLE x2", out[0])
	}
	if out[1].TypeOfServiceRequest != database.ServiceGraffiti || out[1].NumberOfRequests != 1 {
		t.Errorf("second row = %+v, want GRAFFITI x1", out[1])
	}
}

func TestTotalRequestsPerDay(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := NewQueryService(db)

	seedIncident(t, db, "11-1", database.ServicePotHole, time.Date(2011, time.March, 1, 10, 0, 0, 0, time.UTC))
	seedIncident(t, db, "11-2", database.ServicePotHole, time.Date(2011, time.March, 1, 15, 0, 0, 0, time.UTC))
	seedIncident(t, db, "11-3", database.ServicePotHole, time.Date(2011, time.March, 2, 10, 0, 0, 0, time.UTC))
	seedIncident(t, db, "11-4", database.ServiceGraffiti, time.Date(2011, time.March, 1, 10, 0, 0, 0, time.UTC))

	start := time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2011, time.March, 31, 23, 59, 59, 0, time.UTC)
	out, err := s.TotalRequestsPerDay(database.ServicePotHole, start, end)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	if out[0].Date != "2011-03-01" || out[0].NumberOfRequests != 2 {
		t.Errorf("first day = %+v, want 2011-03-01 x2", out[0])
	}
	if out[1].Date != "2011-03-02" || out[1].NumberOfRequests != 1 {
		t.Errorf("second day = %+v, want 2011-03-02 x1", out[1])
	}
}

func TestMostCommonServicePerZipCode(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := NewQueryService(db)

	day := time.Date(2011, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedIncident(t, db, "11-1", database.ServicePotHole, day, withZip(60602))
	seedIncident(t, db, "11-2", database.ServicePotHole, day.Add(time.Hour), withZip(60602))
	seedIncident(t, db, "11-3", database.ServiceGraffiti, day, withZip(60602))
	seedIncident(t, db, "11-4", database.ServiceGraffiti, day, withZip(60614))
	seedIncident(t, db, "11-5", database.ServicePotHole, day) // no zip, excluded

	out, err := s.MostCommonServicePerZipCode(time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	if out[0].ZipCode != 60602 || out[0].TypeOfServiceRequest != database.ServicePotHole || out[0].NumberOfRequests != 2 {
		t.Errorf("60602 row = %+v, want POT_HOLE x2", out[0])
	}
	if out[1].ZipCode != 60614 || out[1].TypeOfServiceRequest != database.ServiceGraffiti {
		t.Errorf("60614 row = %+v, want GRAFFITI", out[1])
	}
}

func TestAverageCompletionTimePerRequest(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	s := NewQueryService(db)

	created := time.Date(2011, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedIncident(t, db, "11-1", database.ServicePotHole, created, withCompletion(created.Add(2*time.Hour)))
	seedIncident(t, db, "11-2", database.ServicePotHole, created, withCompletion(created.Add(4*time.Hour)))
	seedIncident(t, db, "11-3", database.ServicePotHole, created) // still open, excluded

	start := time.Date(2011, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2011, time.March, 31, 23, 59, 59, 0, time.UTC)
	out, err := s.AverageCompletionTimePerRequest(start, end)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("rows = %d, want 1", len(out))
	}
	want := (3 * time.Hour).Seconds()
	if out[0].AverageSeconds != want {
		t.Errorf("average = %f seconds, want %f", out[0].AverageSeconds, want)
	}
}
