package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/api"
	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"github.com/vtsiatouras/311-chicago-incidents/internal/services"
	"github.com/vtsiatouras/311-chicago-incidents/internal/testhelpers"
	"gorm.io/gorm"
)

func newTestAPI(t *testing.T) (*http.ServeMux, *gorm.DB) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	h := NewAPIHandler(services.NewIncidentService(db), services.NewQueryService(db))
	mux := http.NewServeMux()
	h.SetupRoutes(mux)
	return mux, db
}

func incidentPayload(serviceType string) map[string]interface{} {
	return map[string]interface{}{
		"creation_date":           "2011-01-15T14:30:00Z",
		"status":                  "OPEN",
		"service_request_number":  "11-00000001",
		"type_of_service_request": serviceType,
		"street_address":          "100 N STATE ST",
		"zip_code":                60602,
	}
}

func TestCreatePotHoleEndpoint(t *testing.T) {
	mux, db := newTestAPI(t)

	body := map[string]interface{}{
		"incident":           incidentPayload("POT_HOLE"),
		"number_of_elements": 4,
		"activity": map[string]interface{}{
			"current_activity": "Dispatch Crew",
		},
	}

	var created database.Incident
	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/incidents/pot-hole", nil).
		WithJSONBody(body).
		Execute(mux).
		ExpectStatus(http.StatusCreated).
		DecodeResponse(&created)

	if created.ID == 0 {
		t.Fatal("response carries no incident ID")
	}

	var n int64
	if err := db.Model(&database.NumberOfCartsAndPotholes{}).Count(&n).Error; err != nil || n != 1 {
		t.Errorf("element count rows = %d (err %v), want 1", n, err)
	}
}

func TestCreateEndpoint_CategoryMismatch(t *testing.T) {
	mux, _ := newTestAPI(t)

	body := map[string]interface{}{
		"incident": incidentPayload("GRAFFITI"),
	}

	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/incidents/pot-hole", nil).
		WithJSONBody(body).
		Execute(mux).
		ExpectStatus(http.StatusBadRequest)
}

func TestCreateEndpoint_InvalidJSON(t *testing.T) {
	mux, _ := newTestAPI(t)

	ctx := testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/incidents/pot-hole", nil)
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Execute(mux).ExpectStatus(http.StatusBadRequest)
}

func TestCreateEndpoint_MissingStatus(t *testing.T) {
	mux, _ := newTestAPI(t)

	payload := incidentPayload("POT_HOLE")
	delete(payload, "status")

	testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/incidents/pot-hole", nil).
		WithJSONBody(map[string]interface{}{"incident": payload}).
		Execute(mux).
		ExpectStatus(http.StatusUnprocessableEntity)
}

func TestCreateTreeEndpoint_AcceptsBothCategories(t *testing.T) {
	mux, _ := newTestAPI(t)

	for i, serviceType := range []string{"TREE_DEBRIS", "TREE_TRIM"} {
		payload := incidentPayload(serviceType)
		payload["service_request_number"] = "11-0000000" + string(rune('1'+i))
		body := map[string]interface{}{
			"incident": payload,
			"tree":     map[string]interface{}{"location_description": "Parkway"},
		}

		testhelpers.NewHTTPTestContext(t, http.MethodPost, "/api/incidents/tree", nil).
			WithJSONBody(body).
			Execute(mux).
			ExpectStatus(http.StatusCreated)
	}
}

func TestGetIncidentEndpoint(t *testing.T) {
	mux, db := newTestAPI(t)

	seeded := testhelpers.NewIncidentBuilder().Build()
	if err := db.Create(seeded).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	var got database.Incident
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/incidents/1", nil).
		Execute(mux).
		ExpectStatus(http.StatusOK).
		DecodeResponse(&got)
	if got.ServiceRequestNumber != seeded.ServiceRequestNumber {
		t.Errorf("request number = %q, want %q", got.ServiceRequestNumber, seeded.ServiceRequestNumber)
	}

	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/incidents/999", nil).
		Execute(mux).
		ExpectStatus(http.StatusNotFound)
}

func TestListIncidentsEndpoint(t *testing.T) {
	mux, db := newTestAPI(t)

	for day := 1; day <= 3; day++ {
		incident := testhelpers.NewIncidentBuilder().
			WithCreationDate(time.Date(2011, time.March, day, 12, 0, 0, 0, time.UTC)).
			WithServiceRequestNumber("11-0000000" + string(rune('0'+day))).
			Build()
		if err := db.Create(incident).Error; err != nil {
			t.Fatalf("failed to seed incident: %v", err)
		}
	}

	var resp api.ListIncidentsResponse
	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/incidents?start_date=2011-03-02&end_date=2011-03-03", nil).
		Execute(mux).
		ExpectStatus(http.StatusOK).
		DecodeResponse(&resp)

	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Incidents) != 2 {
		t.Errorf("incidents = %d, want 2", len(resp.Incidents))
	}

	testhelpers.NewHTTPTestContext(t, http.MethodGet, "/api/incidents?start_date=bogus", nil).
		Execute(mux).
		ExpectStatus(http.StatusBadRequest)
}

func TestQueryEndpoints(t *testing.T) {
	mux, db := newTestAPI(t)

	seeded := testhelpers.NewIncidentBuilder().
		WithCreationDate(time.Date(2011, time.March, 1, 12, 0, 0, 0, time.UTC)).
		WithZipCode(60602).
		Build()
	if err := db.Create(seeded).Error; err != nil {
		t.Fatalf("failed to seed incident: %v", err)
	}

	var perType []services.TypeCount
	testhelpers.NewHTTPTestContext(t, http.MethodGet,
		"/api/queries/total-requests-per-type?start_date=2011-03-01&end_date=2011-03-31", nil).
		Execute(mux).
		ExpectStatus(http.StatusOK).
		DecodeResponse(&perType)
	if len(perType) != 1 || perType[0].NumberOfRequests != 1 {
		t.Errorf("per-type rows = %+v, want one POT_HOLE row", perType)
	}

	// Inverted range
	testhelpers.NewHTTPTestContext(t, http.MethodGet,
		"/api/queries/total-requests-per-type?start_date=2011-03-31&end_date=2011-03-01", nil).
		Execute(mux).
		ExpectStatus(http.StatusBadRequest)

	// Unknown service type
	testhelpers.NewHTTPTestContext(t, http.MethodGet,
		"/api/queries/total-requests-per-day?type_of_service_request=SNOW&start_date=2011-03-01&end_date=2011-03-31", nil).
		Execute(mux).
		ExpectStatus(http.StatusBadRequest)

	var perZip []services.ZipCodeTopService
	testhelpers.NewHTTPTestContext(t, http.MethodGet,
		"/api/queries/most-common-service-per-zipcode?date=2011-03-01", nil).
		Execute(mux).
		ExpectStatus(http.StatusOK).
		DecodeResponse(&perZip)
	if len(perZip) != 1 || perZip[0].ZipCode != 60602 {
		t.Errorf("per-zipcode rows = %+v, want one 60602 row", perZip)
	}
}
