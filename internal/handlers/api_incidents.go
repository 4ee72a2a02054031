package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/api"
	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"github.com/vtsiatouras/311-chicago-incidents/internal/services"
	"gorm.io/gorm"
)

// handleCreateAbandonedVehicle handles POST /api/incidents/abandoned-vehicle
func (h *APIHandler) handleCreateAbandonedVehicle(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAbandonedVehicleIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreateAbandonedVehicleIncident(
		api.ToIncident(req.Incident),
		api.ToAbandonedVehicle(req.AbandonedVehicle),
		req.DaysOfReportAsParked,
		api.ToActivity(req.Activity),
	)
	h.respondCreated(w, incident, err)
}

// handleCreateGarbageCart handles POST /api/incidents/garbage-cart
func (h *APIHandler) handleCreateGarbageCart(w http.ResponseWriter, r *http.Request) {
	var req api.CreateElementsIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreateGarbageCartIncident(
		api.ToIncident(req.Incident), req.NumberOfElements, api.ToActivity(req.Activity))
	h.respondCreated(w, incident, err)
}

// handleCreatePotHole handles POST /api/incidents/pot-hole
func (h *APIHandler) handleCreatePotHole(w http.ResponseWriter, r *http.Request) {
	var req api.CreateElementsIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreatePotHoleIncident(
		api.ToIncident(req.Incident), req.NumberOfElements, api.ToActivity(req.Activity))
	h.respondCreated(w, incident, err)
}

// handleCreateRodentBaiting handles POST /api/incidents/rodent-baiting
func (h *APIHandler) handleCreateRodentBaiting(w http.ResponseWriter, r *http.Request) {
	var req api.CreateRodentBaitingIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var premises *database.RodentBaitingPremises
	if req.NumberOfPremisesBaited != nil || req.NumberOfPremisesWGarbage != nil || req.NumberOfPremisesWRats != nil {
		premises = &database.RodentBaitingPremises{
			NumberOfPremisesBaited:   req.NumberOfPremisesBaited,
			NumberOfPremisesWGarbage: req.NumberOfPremisesWGarbage,
			NumberOfPremisesWRats:    req.NumberOfPremisesWRats,
		}
	}

	incident, err := h.incidentService.CreateRodentBaitingIncident(
		api.ToIncident(req.Incident), premises, api.ToActivity(req.Activity))
	h.respondCreated(w, incident, err)
}

// handleCreateGraffiti handles POST /api/incidents/graffiti
func (h *APIHandler) handleCreateGraffiti(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGraffitiIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreateGraffitiIncident(
		api.ToIncident(req.Incident), api.ToGraffiti(req.Graffiti))
	h.respondCreated(w, incident, err)
}

// handleCreateSanitationCode handles POST /api/incidents/sanitation-code
func (h *APIHandler) handleCreateSanitationCode(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSanitationCodeIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreateSanitationCodeIncident(
		api.ToIncident(req.Incident), api.ToSanitationCodeViolation(req.SanitationCodeViolation))
	h.respondCreated(w, incident, err)
}

// handleCreateTree handles POST /api/incidents/tree (tree-debris and
// tree-trim requests)
func (h *APIHandler) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTreeIncidentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	incident, err := h.incidentService.CreateTreeIncident(
		api.ToIncident(req.Incident), api.ToTree(req.Tree), api.ToActivity(req.Activity))
	h.respondCreated(w, incident, err)
}

// handleListIncidents handles GET /api/incidents
func (h *APIHandler) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)

	opts := services.ListOptions{Offset: p.Offset(), Limit: p.PerPage}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		opts.StartDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		// Inclusive upper bound for a date-only filter
		t = t.Add(24*time.Hour - time.Nanosecond)
		opts.EndDate = &t
	}
	if opts.StartDate != nil && opts.EndDate != nil && opts.StartDate.After(*opts.EndDate) {
		api.RespondError(w, http.StatusBadRequest, "start_date must not exceed end_date")
		return
	}

	incidents, total, err := h.incidentService.ListIncidents(opts)
	if err != nil {
		log.Printf("APIHandler: Failed to list incidents: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list incidents")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.ListIncidentsResponse{
		Incidents:  incidents,
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: p.TotalPages(total),
	})
}

// handleGetIncident handles GET /api/incidents/{id}
func (h *APIHandler) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid incident ID")
		return
	}

	incident, err := h.incidentService.GetIncident(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondError(w, http.StatusNotFound, "Incident not found")
			return
		}
		log.Printf("APIHandler: Failed to load incident %d: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load incident")
		return
	}

	api.RespondJSON(w, http.StatusOK, incident)
}

// decodeAndValidate reads the request body into dst and runs tag validation,
// writing the error response itself. Returns false when the request is bad.
func (h *APIHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := api.DecodeJSON(r, dst); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if fieldErrors := api.Validate(dst); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return false
	}
	return true
}

func (h *APIHandler) respondCreated(w http.ResponseWriter, incident *database.Incident, err error) {
	if err == nil {
		api.RespondJSON(w, http.StatusCreated, incident)
		return
	}

	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		api.RespondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		api.RespondError(w, http.StatusBadRequest, "Record already exists")
	default:
		log.Printf("APIHandler: Failed to create incident: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to create incident")
	}
}
