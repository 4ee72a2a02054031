package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// IncidentStatus represents the lifecycle status of a service request
type IncidentStatus string

const (
	StatusOpen         IncidentStatus = "OPEN"
	StatusOpenDup      IncidentStatus = "OPEN_DUP"
	StatusCompleted    IncidentStatus = "COMPLETED"
	StatusCompletedDup IncidentStatus = "COMPLETED_DUP"
)

// ValidIncidentStatuses returns every accepted status value.
func ValidIncidentStatuses() []IncidentStatus {
	return []IncidentStatus{StatusOpen, StatusOpenDup, StatusCompleted, StatusCompletedDup}
}

// ServiceType identifies the 311 service-request category.
// Source files carry the category as free text; it is always replaced with
// one of these canonical tags during import.
type ServiceType string

const (
	ServiceAbandonedVehicle   ServiceType = "ABANDONED_VEHICLE"
	ServiceAlleyLightOut      ServiceType = "ALLEY_LIGHT_OUT"
	ServiceGarbageCart        ServiceType = "GARBAGE_CART"
	ServiceGraffiti           ServiceType = "GRAFFITI"
	ServicePotHole            ServiceType = "POT_HOLE"
	ServiceRodentBaiting      ServiceType = "RODENT_BAITING"
	ServiceSanitationCode     ServiceType = "SANITATION_CODE"
	ServiceStreetLightsAllOut ServiceType = "STREET_LIGHTS_ALL_OUT"
	ServiceStreetLightOneOut  ServiceType = "STREET_LIGHT_ONE_OUT"
	ServiceTreeDebris         ServiceType = "TREE_DEBRIS"
	ServiceTreeTrim           ServiceType = "TREE_TRIM"
)

// ValidServiceTypes returns every accepted service-type tag.
func ValidServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceAbandonedVehicle, ServiceAlleyLightOut, ServiceGarbageCart,
		ServiceGraffiti, ServicePotHole, ServiceRodentBaiting,
		ServiceSanitationCode, ServiceStreetLightsAllOut,
		ServiceStreetLightOneOut, ServiceTreeDebris, ServiceTreeTrim,
	}
}

// IsValidServiceType reports whether s is a canonical service-type tag.
func IsValidServiceType(s ServiceType) bool {
	for _, t := range ValidServiceTypes() {
		if t == s {
			return true
		}
	}
	return false
}

// Incident is one 311 service-request occurrence.
//
// Two incidents sharing (creation_date, status, completion_date,
// service_request_number, type_of_service_request, street_address) are
// indistinguishable; the composite unique index rejects the second one.
// zip_code and zip_codes are distinct concepts in the source geodata and are
// both preserved.
type Incident struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreationDate         time.Time      `gorm:"not null;index;uniqueIndex:idx_incidents_natural_key" json:"creation_date"`
	Status               IncidentStatus `gorm:"type:varchar(15);not null;uniqueIndex:idx_incidents_natural_key" json:"status"`
	CompletionDate       *time.Time     `gorm:"uniqueIndex:idx_incidents_natural_key" json:"completion_date"`
	ServiceRequestNumber string         `gorm:"size:20;uniqueIndex:idx_incidents_natural_key" json:"service_request_number"`
	TypeOfServiceRequest ServiceType    `gorm:"type:varchar(30);not null;index;uniqueIndex:idx_incidents_natural_key" json:"type_of_service_request"`
	StreetAddress        *string        `gorm:"size:80;uniqueIndex:idx_incidents_natural_key" json:"street_address"`
	ZipCode              *int           `gorm:"index" json:"zip_code"`
	ZipCodes             *int           `json:"zip_codes"`
	XCoordinate          *float64       `gorm:"type:numeric(25,10)" json:"x_coordinate"`
	YCoordinate          *float64       `gorm:"type:numeric(25,10)" json:"y_coordinate"`
	Ward                 *int           `json:"ward"`
	Wards                *int           `json:"wards"`
	HistoricalWards0315  *int           `gorm:"column:historical_wards_03_15" json:"historical_wards_03_15"`
	PoliceDistrict       *int           `json:"police_district"`
	CommunityArea        *int           `json:"community_area"`
	CommunityAreas       *int           `json:"community_areas"`
	SSA                  *int           `gorm:"column:ssa" json:"ssa"`
	CensusTracts         *int           `json:"census_tracts"`
	Latitude             *float64       `gorm:"type:numeric(30,20)" json:"latitude"`
	Longitude            *float64       `gorm:"type:numeric(30,20)" json:"longitude"`
	Location             JSONB          `gorm:"type:jsonb" json:"location,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (Incident) TableName() string {
	return "incidents"
}

// Activity is a (current activity, most recent action) processing-state pair
// shared across many incidents. Not both fields may be null.
type Activity struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CurrentActivity  *string   `gorm:"size:60;uniqueIndex:idx_activities_pair" json:"current_activity"`
	MostRecentAction *string   `gorm:"size:80;uniqueIndex:idx_activities_pair" json:"most_recent_action"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// Validate enforces the at-least-one-field invariant.
func (a *Activity) Validate() error {
	if a.CurrentActivity == nil && a.MostRecentAction == nil {
		return errors.New("activity fields are all null")
	}
	return nil
}

// ActivityIncident links an activity pair to an incident.
type ActivityIncident struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:idx_activity_incident" json:"activity_id"`
	IncidentID uint      `gorm:"not null;uniqueIndex:idx_activity_incident;index" json:"incident_id"`
	Activity   Activity  `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"-"`
	Incident   Incident  `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ActivityIncident) TableName() string {
	return "activity_incidents"
}

// AbandonedVehicle is a vehicle referenced by one or more abandoned-vehicle
// complaints. Unique on the (plate, make/model, color) triple.
type AbandonedVehicle struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LicensePlate     *string   `gorm:"size:400;uniqueIndex:idx_vehicles_natural_key" json:"license_plate"`
	VehicleMakeModel *string   `gorm:"size:80;uniqueIndex:idx_vehicles_natural_key" json:"vehicle_make_model"`
	VehicleColor     *string   `gorm:"size:30;uniqueIndex:idx_vehicles_natural_key" json:"vehicle_color"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (AbandonedVehicle) TableName() string {
	return "abandoned_vehicles"
}

// Validate enforces the at-least-one-field invariant.
func (v *AbandonedVehicle) Validate() error {
	if v.LicensePlate == nil && v.VehicleMakeModel == nil && v.VehicleColor == nil {
		return errors.New("abandoned vehicle fields are all null")
	}
	return nil
}

// AbandonedVehicleIncident links a vehicle to an incident. The days-parked
// value varies per occurrence, so it lives here and not on the vehicle.
type AbandonedVehicleIncident struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	AbandonedVehicleID   uint             `gorm:"not null;uniqueIndex:idx_vehicle_incident" json:"abandoned_vehicle_id"`
	IncidentID           uint             `gorm:"not null;uniqueIndex:idx_vehicle_incident;index" json:"incident_id"`
	DaysOfReportAsParked *int64           `json:"days_of_report_as_parked"`
	AbandonedVehicle     AbandonedVehicle `gorm:"foreignKey:AbandonedVehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Incident             Incident         `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (AbandonedVehicleIncident) TableName() string {
	return "abandoned_vehicle_incidents"
}

// Graffiti is a defaced surface/location referenced by removal requests.
type Graffiti struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Surface             *string   `gorm:"size:100;uniqueIndex:idx_graffitis_natural_key" json:"surface"`
	LocationDescription *string   `gorm:"size:100;uniqueIndex:idx_graffitis_natural_key" json:"location_description"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Graffiti) TableName() string {
	return "graffitis"
}

// Validate enforces the at-least-one-field invariant.
func (g *Graffiti) Validate() error {
	if g.Surface == nil && g.LocationDescription == nil {
		return errors.New("graffiti fields are all null")
	}
	return nil
}

// GraffitiIncident links a graffiti site to an incident.
type GraffitiIncident struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GraffitiID uint      `gorm:"not null;uniqueIndex:idx_graffiti_incident" json:"graffiti_id"`
	IncidentID uint      `gorm:"not null;uniqueIndex:idx_graffiti_incident;index" json:"incident_id"`
	Graffiti   Graffiti  `gorm:"foreignKey:GraffitiID;constraint:OnDelete:CASCADE" json:"-"`
	Incident   Incident  `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (GraffitiIncident) TableName() string {
	return "graffiti_incidents"
}

// Tree is a tree location shared by debris and trim requests. The same tree
// can arrive from both the tree-debris and tree-trims files.
type Tree struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	LocationDescription string    `gorm:"size:100;not null;uniqueIndex" json:"location_description"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Tree) TableName() string {
	return "trees"
}

// TreeIncident links a tree to an incident.
type TreeIncident struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TreeID     uint      `gorm:"not null;uniqueIndex:idx_tree_incident" json:"tree_id"`
	IncidentID uint      `gorm:"not null;uniqueIndex:idx_tree_incident;index" json:"incident_id"`
	Tree       Tree      `gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE" json:"-"`
	Incident   Incident  `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TreeIncident) TableName() string {
	return "tree_incidents"
}

// SanitationCodeViolation is a code-violation description referenced by
// sanitation complaints.
type SanitationCodeViolation struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ViolationDescription string    `gorm:"size:100;not null;uniqueIndex" json:"violation_description"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (SanitationCodeViolation) TableName() string {
	return "sanitation_code_violations"
}

// SanitationCodeViolationIncident links a violation code to an incident.
type SanitationCodeViolationIncident struct {
	ID                        uint                    `gorm:"primaryKey" json:"id"`
	SanitationCodeViolationID uint                    `gorm:"not null;uniqueIndex:idx_violation_incident" json:"sanitation_code_violation_id"`
	IncidentID                uint                    `gorm:"not null;uniqueIndex:idx_violation_incident;index" json:"incident_id"`
	SanitationCodeViolation   SanitationCodeViolation `gorm:"foreignKey:SanitationCodeViolationID;constraint:OnDelete:CASCADE" json:"-"`
	Incident                  Incident                `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt                 time.Time               `json:"created_at"`
	UpdatedAt                 time.Time               `json:"updated_at"`
}

func (SanitationCodeViolationIncident) TableName() string {
	return "sanitation_code_violation_incidents"
}

// NumberOfCartsAndPotholes holds the element count of a garbage-cart or
// pothole request. Carts and potholes share the physical shape; the owning
// incident's service type tells them apart.
type NumberOfCartsAndPotholes struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	NumberOfElements *int64    `json:"number_of_elements"`
	IncidentID       uint      `gorm:"not null;index" json:"incident_id"`
	Incident         Incident  `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (NumberOfCartsAndPotholes) TableName() string {
	return "number_of_carts_and_potholes"
}

// RodentBaitingPremises holds the premises counts of a rodent-baiting
// request. Not all three counts may be null.
type RodentBaitingPremises struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	NumberOfPremisesBaited   *int      `json:"number_of_premises_baited"`
	NumberOfPremisesWGarbage *int      `gorm:"column:number_of_premises_w_garbage" json:"number_of_premises_w_garbage"`
	NumberOfPremisesWRats    *int      `gorm:"column:number_of_premises_w_rats" json:"number_of_premises_w_rats"`
	IncidentID               uint      `gorm:"not null;index" json:"incident_id"`
	Incident                 Incident  `gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (RodentBaitingPremises) TableName() string {
	return "rodent_baiting_premises"
}

// Validate enforces the at-least-one-field invariant.
func (r *RodentBaitingPremises) Validate() error {
	if r.NumberOfPremisesBaited == nil && r.NumberOfPremisesWGarbage == nil && r.NumberOfPremisesWRats == nil {
		return errors.New("rodent baiting premises fields are all null")
	}
	return nil
}
