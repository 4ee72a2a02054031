package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"gorm.io/gorm"
)

// ValidationError reports a request field that failed a domain rule. Handlers
// map it to a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IncidentService handles online incident creation and retrieval.
type IncidentService struct {
	db *gorm.DB
}

// NewIncidentService creates a new incident service.
func NewIncidentService(db *gorm.DB) *IncidentService {
	return &IncidentService{db: db}
}

// CreateAbandonedVehicleIncident records an abandoned-vehicle request. The
// vehicle and activity blocks are optional; daysParked rides on the
// vehicle-incident link, not on the vehicle itself.
func (s *IncidentService) CreateAbandonedVehicleIncident(incident *database.Incident, vehicle *database.AbandonedVehicle, daysParked *int64, activity *database.Activity) (*database.Incident, error) {
	if err := s.checkIncident(incident, database.ServiceAbandonedVehicle); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureIncident(tx, incident); err != nil {
			return err
		}
		if vehicle != nil {
			if err := vehicle.Validate(); err != nil {
				return &ValidationError{Field: "abandoned_vehicle", Message: err.Error()}
			}
			if err := getOrCreate(tx, vehicle, map[string]interface{}{
				"license_plate":      nullValue(vehicle.LicensePlate),
				"vehicle_make_model": nullValue(vehicle.VehicleMakeModel),
				"vehicle_color":      nullValue(vehicle.VehicleColor),
			}); err != nil {
				return fmt.Errorf("failed to resolve abandoned vehicle: %w", err)
			}
			link := &database.AbandonedVehicleIncident{
				AbandonedVehicleID:   vehicle.ID,
				IncidentID:           incident.ID,
				DaysOfReportAsParked: daysParked,
			}
			if err := getOrCreate(tx, link, map[string]interface{}{
				"abandoned_vehicle_id": vehicle.ID,
				"incident_id":          incident.ID,
			}); err != nil {
				return fmt.Errorf("failed to link abandoned vehicle: %w", err)
			}
		}
		return s.attachActivity(tx, incident, activity)
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// CreateGarbageCartIncident records a garbage-cart request with its optional
// cart count.
func (s *IncidentService) CreateGarbageCartIncident(incident *database.Incident, numberOfElements *int64, activity *database.Activity) (*database.Incident, error) {
	return s.createElementsIncident(incident, numberOfElements, activity, database.ServiceGarbageCart)
}

// CreatePotHoleIncident records a pot-hole request with its optional pothole
// count.
func (s *IncidentService) CreatePotHoleIncident(incident *database.Incident, numberOfElements *int64, activity *database.Activity) (*database.Incident, error) {
	return s.createElementsIncident(incident, numberOfElements, activity, database.ServicePotHole)
}

func (s *IncidentService) createElementsIncident(incident *database.Incident, numberOfElements *int64, activity *database.Activity, want database.ServiceType) (*database.Incident, error) {
	if err := s.checkIncident(incident, want); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, err := s.ensureIncidentReport(tx, incident)
		if err != nil {
			return err
		}
		if created && numberOfElements != nil {
			row := &database.NumberOfCartsAndPotholes{
				NumberOfElements: numberOfElements,
				IncidentID:       incident.ID,
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to record element count: %w", err)
			}
		}
		return s.attachActivity(tx, incident, activity)
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// CreateRodentBaitingIncident records a rodent-baiting request. The premises
// block must carry at least one non-null count when present.
func (s *IncidentService) CreateRodentBaitingIncident(incident *database.Incident, premises *database.RodentBaitingPremises, activity *database.Activity) (*database.Incident, error) {
	if err := s.checkIncident(incident, database.ServiceRodentBaiting); err != nil {
		return nil, err
	}
	if premises != nil {
		if err := premises.Validate(); err != nil {
			return nil, &ValidationError{Field: "rodent_baiting_premises", Message: err.Error()}
		}
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		created, err := s.ensureIncidentReport(tx, incident)
		if err != nil {
			return err
		}
		if created && premises != nil {
			premises.IncidentID = incident.ID
			if err := tx.Create(premises).Error; err != nil {
				return fmt.Errorf("failed to record baited premises: %w", err)
			}
		}
		return s.attachActivity(tx, incident, activity)
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// CreateGraffitiIncident records a graffiti-removal request.
func (s *IncidentService) CreateGraffitiIncident(incident *database.Incident, graffiti *database.Graffiti) (*database.Incident, error) {
	if err := s.checkIncident(incident, database.ServiceGraffiti); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureIncident(tx, incident); err != nil {
			return err
		}
		if graffiti == nil {
			return nil
		}
		if err := graffiti.Validate(); err != nil {
			return &ValidationError{Field: "graffiti", Message: err.Error()}
		}
		if err := getOrCreate(tx, graffiti, map[string]interface{}{
			"surface":              nullValue(graffiti.Surface),
			"location_description": nullValue(graffiti.LocationDescription),
		}); err != nil {
			return fmt.Errorf("failed to resolve graffiti entity: %w", err)
		}
		link := &database.GraffitiIncident{GraffitiID: graffiti.ID, IncidentID: incident.ID}
		if err := getOrCreate(tx, link, map[string]interface{}{
			"graffiti_id": graffiti.ID,
			"incident_id": incident.ID,
		}); err != nil {
			return fmt.Errorf("failed to link graffiti entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// CreateSanitationCodeIncident records a sanitation-code complaint.
func (s *IncidentService) CreateSanitationCodeIncident(incident *database.Incident, violation *database.SanitationCodeViolation) (*database.Incident, error) {
	if err := s.checkIncident(incident, database.ServiceSanitationCode); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureIncident(tx, incident); err != nil {
			return err
		}
		if violation == nil {
			return nil
		}
		if err := getOrCreate(tx, violation, map[string]interface{}{
			"violation_description": violation.ViolationDescription,
		}); err != nil {
			return fmt.Errorf("failed to resolve violation: %w", err)
		}
		link := &database.SanitationCodeViolationIncident{
			SanitationCodeViolationID: violation.ID,
			IncidentID:                incident.ID,
		}
		if err := getOrCreate(tx, link, map[string]interface{}{
			"sanitation_code_violation_id": violation.ID,
			"incident_id":                  incident.ID,
		}); err != nil {
			return fmt.Errorf("failed to link violation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// CreateTreeIncident records a tree-debris or tree-trim request; the single
// endpoint serves both categories.
func (s *IncidentService) CreateTreeIncident(incident *database.Incident, tree *database.Tree, activity *database.Activity) (*database.Incident, error) {
	if err := s.checkIncident(incident, database.ServiceTreeDebris, database.ServiceTreeTrim); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureIncident(tx, incident); err != nil {
			return err
		}
		if tree != nil {
			if err := getOrCreate(tx, tree, map[string]interface{}{
				"location_description": tree.LocationDescription,
			}); err != nil {
				return fmt.Errorf("failed to resolve tree location: %w", err)
			}
			link := &database.TreeIncident{TreeID: tree.ID, IncidentID: incident.ID}
			if err := getOrCreate(tx, link, map[string]interface{}{
				"tree_id":     tree.ID,
				"incident_id": incident.ID,
			}); err != nil {
				return fmt.Errorf("failed to link tree location: %w", err)
			}
		}
		return s.attachActivity(tx, incident, activity)
	})
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// GetIncident returns one incident by ID.
func (s *IncidentService) GetIncident(id uint) (*database.Incident, error) {
	var incident database.Incident
	if err := s.db.First(&incident, id).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

// ListOptions filters and pages the incident listing.
type ListOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// ListIncidents returns a page of incidents ordered by creation date, newest
// first, plus the total count for the filter.
func (s *IncidentService) ListIncidents(opts ListOptions) ([]database.Incident, int64, error) {
	q := s.db.Model(&database.Incident{})
	if opts.StartDate != nil {
		q = q.Where("creation_date >= ?", *opts.StartDate)
	}
	if opts.EndDate != nil {
		q = q.Where("creation_date <= ?", *opts.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incidents []database.Incident
	err := q.Order("creation_date DESC").Offset(opts.Offset).Limit(opts.Limit).Find(&incidents).Error
	return incidents, total, err
}

// checkIncident validates the category and enum fields before any storage
// work.
func (s *IncidentService) checkIncident(incident *database.Incident, want ...database.ServiceType) error {
	for _, w := range want {
		if incident.TypeOfServiceRequest == w {
			return s.checkStatus(incident)
		}
	}
	return &ValidationError{
		Field:   "type_of_service_request",
		Message: fmt.Sprintf("must be %s for this endpoint, got %q", serviceTypeList(want), incident.TypeOfServiceRequest),
	}
}

func (s *IncidentService) checkStatus(incident *database.Incident) error {
	for _, valid := range database.ValidIncidentStatuses() {
		if incident.Status == valid {
			return nil
		}
	}
	return &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("unknown status %q", incident.Status),
	}
}

func serviceTypeList(types []database.ServiceType) string {
	if len(types) == 1 {
		return string(types[0])
	}
	out := ""
	for i, t := range types {
		if i > 0 {
			out += " or "
		}
		out += string(t)
	}
	return out
}

// ensureIncident get-or-creates the incident by its natural key.
func (s *IncidentService) ensureIncident(tx *gorm.DB, incident *database.Incident) error {
	_, err := s.ensureIncidentReport(tx, incident)
	return err
}

// ensureIncidentReport is ensureIncident plus a created-vs-found flag, for
// callers that must not duplicate one-per-incident side rows.
func (s *IncidentService) ensureIncidentReport(tx *gorm.DB, incident *database.Incident) (bool, error) {
	conds := map[string]interface{}{
		"creation_date":           incident.CreationDate,
		"status":                  incident.Status,
		"completion_date":         nullTimeValue(incident.CompletionDate),
		"service_request_number":  incident.ServiceRequestNumber,
		"type_of_service_request": incident.TypeOfServiceRequest,
		"street_address":          nullValue(incident.StreetAddress),
	}
	created, err := getOrCreateReport(tx, incident, conds)
	if err != nil {
		return false, fmt.Errorf("failed to resolve incident: %w", err)
	}
	return created, nil
}

// attachActivity get-or-creates the activity pair and its incident link.
func (s *IncidentService) attachActivity(tx *gorm.DB, incident *database.Incident, activity *database.Activity) error {
	if activity == nil {
		return nil
	}
	if err := activity.Validate(); err != nil {
		return &ValidationError{Field: "activity", Message: err.Error()}
	}
	if err := getOrCreate(tx, activity, map[string]interface{}{
		"current_activity":   nullValue(activity.CurrentActivity),
		"most_recent_action": nullValue(activity.MostRecentAction),
	}); err != nil {
		return fmt.Errorf("failed to resolve activity: %w", err)
	}
	link := &database.ActivityIncident{ActivityID: activity.ID, IncidentID: incident.ID}
	if err := getOrCreate(tx, link, map[string]interface{}{
		"activity_id": activity.ID,
		"incident_id": incident.ID,
	}); err != nil {
		return fmt.Errorf("failed to link activity: %w", err)
	}
	return nil
}

// getOrCreate finds the row matching conds or inserts instance. On a
// duplicate-key race the winner's row is loaded back into instance.
func getOrCreate[T any](tx *gorm.DB, instance *T, conds map[string]interface{}) error {
	_, err := getOrCreateReport(tx, instance, conds)
	return err
}

func getOrCreateReport[T any](tx *gorm.DB, instance *T, conds map[string]interface{}) (created bool, err error) {
	res := tx.Where(conds).Limit(1).Find(instance)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Create(instance).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, tx.Where(conds).First(instance).Error
		}
		return false, err
	}
	return true, nil
}

// nullValue maps a nil string pointer onto an IS NULL condition value.
func nullValue(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullTimeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
