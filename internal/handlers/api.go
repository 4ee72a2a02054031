package handlers

import (
	"net/http"

	"github.com/vtsiatouras/311-chicago-incidents/internal/services"
)

// APIHandler handles the incident and analytics API endpoints.
type APIHandler struct {
	incidentService *services.IncidentService
	queryService    *services.QueryService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(incidentService *services.IncidentService, queryService *services.QueryService) *APIHandler {
	return &APIHandler{
		incidentService: incidentService,
		queryService:    queryService,
	}
}

// SetupRoutes sets up all API routes.
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Incident creation, one endpoint per request category
	mux.HandleFunc("POST /api/incidents/abandoned-vehicle", h.handleCreateAbandonedVehicle)
	mux.HandleFunc("POST /api/incidents/garbage-cart", h.handleCreateGarbageCart)
	mux.HandleFunc("POST /api/incidents/pot-hole", h.handleCreatePotHole)
	mux.HandleFunc("POST /api/incidents/rodent-baiting", h.handleCreateRodentBaiting)
	mux.HandleFunc("POST /api/incidents/graffiti", h.handleCreateGraffiti)
	mux.HandleFunc("POST /api/incidents/sanitation-code", h.handleCreateSanitationCode)
	mux.HandleFunc("POST /api/incidents/tree", h.handleCreateTree)

	// Incident retrieval
	mux.HandleFunc("GET /api/incidents", h.handleListIncidents)
	mux.HandleFunc("GET /api/incidents/{id}", h.handleGetIncident)

	// Analytics
	mux.HandleFunc("GET /api/queries/total-requests-per-type", h.handleTotalRequestsPerType)
	mux.HandleFunc("GET /api/queries/total-requests-per-day", h.handleTotalRequestsPerDay)
	mux.HandleFunc("GET /api/queries/most-common-service-per-zipcode", h.handleMostCommonServicePerZipCode)
	mux.HandleFunc("GET /api/queries/average-completion-time-per-request", h.handleAverageCompletionTime)
}
