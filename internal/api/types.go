package api

import (
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// IncidentPayload carries the columns shared by every incident creation
// request. Dates are RFC 3339.
type IncidentPayload struct {
	CreationDate         time.Time              `json:"creation_date" validate:"required"`
	Status               string                 `json:"status" validate:"required,oneof=OPEN OPEN_DUP COMPLETED COMPLETED_DUP"`
	CompletionDate       *time.Time             `json:"completion_date"`
	ServiceRequestNumber string                 `json:"service_request_number" validate:"required,max=20"`
	TypeOfServiceRequest string                 `json:"type_of_service_request" validate:"required,max=30"`
	StreetAddress        *string                `json:"street_address" validate:"omitempty,max=80"`
	ZipCode              *int                   `json:"zip_code"`
	ZipCodes             *int                   `json:"zip_codes"`
	XCoordinate          *float64               `json:"x_coordinate"`
	YCoordinate          *float64               `json:"y_coordinate"`
	Ward                 *int                   `json:"ward"`
	Wards                *int                   `json:"wards"`
	HistoricalWards0315  *int                   `json:"historical_wards_03_15"`
	PoliceDistrict       *int                   `json:"police_district"`
	CommunityArea        *int                   `json:"community_area"`
	CommunityAreas       *int                   `json:"community_areas"`
	SSA                  *int                   `json:"ssa"`
	CensusTracts         *int                   `json:"census_tracts"`
	Latitude             *float64               `json:"latitude"`
	Longitude            *float64               `json:"longitude"`
	Location             map[string]interface{} `json:"location"`
}

// ActivityPayload is the optional activity block of a creation request.
type ActivityPayload struct {
	CurrentActivity  *string `json:"current_activity" validate:"omitempty,max=60"`
	MostRecentAction *string `json:"most_recent_action" validate:"omitempty,max=80"`
}

// AbandonedVehiclePayload is the optional vehicle block.
type AbandonedVehiclePayload struct {
	LicensePlate     *string `json:"license_plate" validate:"omitempty,max=400"`
	VehicleMakeModel *string `json:"vehicle_make_model" validate:"omitempty,max=80"`
	VehicleColor     *string `json:"vehicle_color" validate:"omitempty,max=30"`
}

// GraffitiPayload is the optional graffiti block.
type GraffitiPayload struct {
	Surface             *string `json:"surface" validate:"omitempty,max=100"`
	LocationDescription *string `json:"location_description" validate:"omitempty,max=100"`
}

// TreePayload is the optional tree location block.
type TreePayload struct {
	LocationDescription string `json:"location_description" validate:"required,max=100"`
}

// SanitationCodeViolationPayload is the optional violation block.
type SanitationCodeViolationPayload struct {
	ViolationDescription string `json:"violation_description" validate:"required,max=100"`
}

// CreateAbandonedVehicleIncidentRequest is the composite payload of
// POST /api/incidents/abandoned-vehicle.
type CreateAbandonedVehicleIncidentRequest struct {
	Incident             IncidentPayload          `json:"incident"`
	AbandonedVehicle     *AbandonedVehiclePayload `json:"abandoned_vehicle"`
	DaysOfReportAsParked *int64                   `json:"days_of_report_as_parked"`
	Activity             *ActivityPayload         `json:"activity"`
}

// CreateElementsIncidentRequest is the composite payload of the garbage-cart
// and pot-hole endpoints.
type CreateElementsIncidentRequest struct {
	Incident         IncidentPayload  `json:"incident"`
	NumberOfElements *int64           `json:"number_of_elements"`
	Activity         *ActivityPayload `json:"activity"`
}

// CreateRodentBaitingIncidentRequest is the composite payload of
// POST /api/incidents/rodent-baiting.
type CreateRodentBaitingIncidentRequest struct {
	Incident                 IncidentPayload  `json:"incident"`
	NumberOfPremisesBaited   *int             `json:"number_of_premises_baited"`
	NumberOfPremisesWGarbage *int             `json:"number_of_premises_w_garbage"`
	NumberOfPremisesWRats    *int             `json:"number_of_premises_w_rats"`
	Activity                 *ActivityPayload `json:"activity"`
}

// CreateGraffitiIncidentRequest is the composite payload of
// POST /api/incidents/graffiti.
type CreateGraffitiIncidentRequest struct {
	Incident IncidentPayload  `json:"incident"`
	Graffiti *GraffitiPayload `json:"graffiti"`
}

// CreateSanitationCodeIncidentRequest is the composite payload of
// POST /api/incidents/sanitation-code.
type CreateSanitationCodeIncidentRequest struct {
	Incident                IncidentPayload                 `json:"incident"`
	SanitationCodeViolation *SanitationCodeViolationPayload `json:"sanitation_code_violation"`
}

// CreateTreeIncidentRequest is the composite payload of
// POST /api/incidents/tree, serving both debris and trim requests.
type CreateTreeIncidentRequest struct {
	Incident IncidentPayload  `json:"incident"`
	Tree     *TreePayload     `json:"tree"`
	Activity *ActivityPayload `json:"activity"`
}

// ListIncidentsResponse is the paginated envelope of GET /api/incidents.
type ListIncidentsResponse struct {
	Incidents  []database.Incident `json:"incidents"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
}
