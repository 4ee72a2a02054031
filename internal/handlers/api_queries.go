package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/api"
	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// handleTotalRequestsPerType handles
// GET /api/queries/total-requests-per-type?start_date=&end_date=
func (h *APIHandler) handleTotalRequestsPerType(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}

	out, err := h.queryService.TotalRequestsPerType(start, end)
	if err != nil {
		log.Printf("APIHandler: total-requests-per-type failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// handleTotalRequestsPerDay handles
// GET /api/queries/total-requests-per-day?type_of_service_request=&start_date=&end_date=
func (h *APIHandler) handleTotalRequestsPerDay(w http.ResponseWriter, r *http.Request) {
	serviceType := database.ServiceType(r.URL.Query().Get("type_of_service_request"))
	if !database.IsValidServiceType(serviceType) {
		api.RespondError(w, http.StatusBadRequest, "type_of_service_request must be a known service type")
		return
	}
	start, end, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}

	out, err := h.queryService.TotalRequestsPerDay(serviceType, start, end)
	if err != nil {
		log.Printf("APIHandler: total-requests-per-day failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// handleMostCommonServicePerZipCode handles
// GET /api/queries/most-common-service-per-zipcode?date=
func (h *APIHandler) handleMostCommonServicePerZipCode(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	out, err := h.queryService.MostCommonServicePerZipCode(day)
	if err != nil {
		log.Printf("APIHandler: most-common-service-per-zipcode failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// handleAverageCompletionTime handles
// GET /api/queries/average-completion-time-per-request?start_date=&end_date=
func (h *APIHandler) handleAverageCompletionTime(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}

	out, err := h.queryService.AverageCompletionTimePerRequest(start, end)
	if err != nil {
		log.Printf("APIHandler: average-completion-time failed: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Query failed")
		return
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// parseDateRange reads the mandatory start_date/end_date query parameters,
// writing the 400 response itself when they are missing, malformed, or
// inverted. The end date is inclusive.
func (h *APIHandler) parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if start.After(end) {
		api.RespondError(w, http.StatusBadRequest, "start_date must not exceed end_date")
		return time.Time{}, time.Time{}, false
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), true
}
