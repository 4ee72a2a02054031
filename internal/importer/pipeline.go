package importer

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"gorm.io/gorm"
)

// Importer runs the category-specific import pipelines against one database.
type Importer struct {
	db *gorm.DB
}

// NewImporter creates a new Importer.
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// importDataset normalizes one parsed batch and runs the category pipeline
// inside a single transaction. Rows whose incident is already stored are
// skipped, so re-running a file is a no-op; any storage error rolls the
// whole file back while earlier files stay committed.
func (im *Importer) importDataset(ds *Dataset, records []Record) error {
	records = Normalize(records, ds)

	return im.db.Transaction(func(tx *gorm.DB) error {
		switch ds.ServiceType {
		case database.ServiceAbandonedVehicle:
			return im.importAbandonedVehicles(tx, records)
		case database.ServiceGarbageCart, database.ServicePotHole:
			return im.importCartsAndPotholes(tx, records)
		case database.ServiceRodentBaiting:
			return im.importRodentBaiting(tx, records)
		case database.ServiceGraffiti:
			return im.importGraffiti(tx, records)
		case database.ServiceSanitationCode:
			return im.importSanitationCodeViolations(tx, records)
		case database.ServiceTreeDebris, database.ServiceTreeTrim:
			return im.importTrees(tx, records)
		default:
			// Lights datasets carry no sub-entities.
			_, err := im.persistIncidents(tx, records)
			return err
		}
	})
}

// importAbandonedVehicles resolves the shared vehicle per batch, persists
// vehicles, incidents and activities, then links them with per-occurrence
// days-parked values (clamped; the value is not part of vehicle identity).
func (im *Importer) importAbandonedVehicles(tx *gorm.DB, records []Record) error {
	vehicles, vehicleByRecord := ResolveEntities(records, extractVehicle, vehicleFingerprint)
	if err := ensureEntities(tx, vehicles, vehicleConds, func(v *database.AbandonedVehicle) *uint { return &v.ID }); err != nil {
		return fmt.Errorf("failed to persist abandoned vehicles: %w", err)
	}

	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	var joins []*database.AbandonedVehicleIncident
	for i, incident := range incidents {
		if incident == nil || vehicleByRecord[i] == nil {
			continue
		}
		joins = append(joins, &database.AbandonedVehicleIncident{
			AbandonedVehicleID:   vehicleByRecord[i].ID,
			IncidentID:           incident.ID,
			DaysOfReportAsParked: Clamp(parseInt64Ptr(records[i].Fields["days_of_report_as_parked"]), CounterCeiling),
		})
	}
	if err := bulkInsert(tx, joins); err != nil {
		return fmt.Errorf("failed to persist abandoned vehicle links: %w", err)
	}

	return im.persistActivities(tx, records, incidents)
}

// importCartsAndPotholes persists incidents with their element-count rows.
// Garbage carts and potholes share the same shape; the incident's service
// type tells them apart.
func (im *Importer) importCartsAndPotholes(tx *gorm.DB, records []Record) error {
	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	var counts []*database.NumberOfCartsAndPotholes
	for i, incident := range incidents {
		if incident == nil {
			continue
		}
		counts = append(counts, &database.NumberOfCartsAndPotholes{
			NumberOfElements: Clamp(parseInt64Ptr(records[i].Fields["number_of_elements"]), CounterCeiling),
			IncidentID:       incident.ID,
		})
	}
	if err := bulkInsert(tx, counts); err != nil {
		return fmt.Errorf("failed to persist element counts: %w", err)
	}

	return im.persistActivities(tx, records, incidents)
}

// importRodentBaiting persists incidents with their premises-count rows.
// Rows with all three counts null carry no premises information and get no
// row.
func (im *Importer) importRodentBaiting(tx *gorm.DB, records []Record) error {
	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	ceiling := int(CounterCeiling)
	var premises []*database.RodentBaitingPremises
	for i, incident := range incidents {
		if incident == nil {
			continue
		}
		row := &database.RodentBaitingPremises{
			NumberOfPremisesBaited:   ClampInt(parseIntPtr(records[i].Fields["number_of_premises_baited"]), ceiling),
			NumberOfPremisesWGarbage: ClampInt(parseIntPtr(records[i].Fields["number_of_premises_w_garbage"]), ceiling),
			NumberOfPremisesWRats:    ClampInt(parseIntPtr(records[i].Fields["number_of_premises_w_rats"]), ceiling),
			IncidentID:               incident.ID,
		}
		if row.Validate() != nil {
			continue
		}
		premises = append(premises, row)
	}
	if err := bulkInsert(tx, premises); err != nil {
		return fmt.Errorf("failed to persist rodent baiting premises: %w", err)
	}

	return im.persistActivities(tx, records, incidents)
}

func (im *Importer) importGraffiti(tx *gorm.DB, records []Record) error {
	graffitis, graffitiByRecord := ResolveEntities(records, extractGraffiti, graffitiFingerprint)
	if err := ensureEntities(tx, graffitis, graffitiConds, func(g *database.Graffiti) *uint { return &g.ID }); err != nil {
		return fmt.Errorf("failed to persist graffiti entities: %w", err)
	}

	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	var joins []*database.GraffitiIncident
	for i, incident := range incidents {
		if incident == nil || graffitiByRecord[i] == nil {
			continue
		}
		joins = append(joins, &database.GraffitiIncident{
			GraffitiID: graffitiByRecord[i].ID,
			IncidentID: incident.ID,
		})
	}
	if err := bulkInsert(tx, joins); err != nil {
		return fmt.Errorf("failed to persist graffiti links: %w", err)
	}
	return nil
}

func (im *Importer) importSanitationCodeViolations(tx *gorm.DB, records []Record) error {
	violations, violationByRecord := ResolveEntities(records, extractViolation, violationFingerprint)
	if err := ensureEntities(tx, violations, violationConds, func(v *database.SanitationCodeViolation) *uint { return &v.ID }); err != nil {
		return fmt.Errorf("failed to persist sanitation code violations: %w", err)
	}

	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	var joins []*database.SanitationCodeViolationIncident
	for i, incident := range incidents {
		if incident == nil || violationByRecord[i] == nil {
			continue
		}
		joins = append(joins, &database.SanitationCodeViolationIncident{
			SanitationCodeViolationID: violationByRecord[i].ID,
			IncidentID:                incident.ID,
		})
	}
	if err := bulkInsert(tx, joins); err != nil {
		return fmt.Errorf("failed to persist sanitation code violation links: %w", err)
	}
	return nil
}

// importTrees serves both the tree-debris and tree-trims files. The tree
// location entity is shared between them, so the store-existence check in
// ensureEntities is what keeps a location imported from one file from being
// duplicated by the other.
func (im *Importer) importTrees(tx *gorm.DB, records []Record) error {
	trees, treeByRecord := ResolveEntities(records, extractTree, treeFingerprint)
	if err := ensureEntities(tx, trees, treeConds, func(t *database.Tree) *uint { return &t.ID }); err != nil {
		return fmt.Errorf("failed to persist trees: %w", err)
	}

	incidents, err := im.persistIncidents(tx, records)
	if err != nil {
		return err
	}

	var joins []*database.TreeIncident
	for i, incident := range incidents {
		if incident == nil || treeByRecord[i] == nil {
			continue
		}
		joins = append(joins, &database.TreeIncident{
			TreeID:     treeByRecord[i].ID,
			IncidentID: incident.ID,
		})
	}
	if err := bulkInsert(tx, joins); err != nil {
		return fmt.Errorf("failed to persist tree links: %w", err)
	}

	return im.persistActivities(tx, records, incidents)
}

// persistIncidents builds and bulk-inserts the incident batch. The returned
// slice is aligned with records; entries are nil for rows that cannot become
// incidents (no parseable creation date — the column is NOT NULL) and for
// rows whose incident is already in the store, so dependents are only built
// for newly inserted incidents.
//
// The store lookup cannot ride on the unique index alone: the index never
// fires when completion_date or street_address is NULL, which is the normal
// shape of an open request. Each incident gets the same existence check
// ensureEntities gives sub-entities, with nil fields matching NULL columns.
func (im *Importer) persistIncidents(tx *gorm.DB, records []Record) ([]*database.Incident, error) {
	incidents := make([]*database.Incident, len(records))
	batch := make([]*database.Incident, 0, len(records))
	undated := 0
	existing := 0

	for i := range records {
		incident := buildIncident(records[i])
		if incident == nil {
			undated++
			continue
		}
		found, err := incidentExists(tx, incident)
		if err != nil {
			return nil, fmt.Errorf("failed to look up incident: %w", err)
		}
		if found {
			existing++
			continue
		}
		incidents[i] = incident
		batch = append(batch, incident)
	}
	if undated > 0 {
		log.Printf("Skipping %d rows without a parseable creation date", undated)
	}
	if existing > 0 {
		log.Printf("Skipping %d rows already present in the store", existing)
	}

	if err := bulkInsert(tx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist incidents: %w", err)
	}
	return incidents, nil
}

// incidentExists reports whether an incident with the same natural key is
// already stored.
func incidentExists(tx *gorm.DB, incident *database.Incident) (bool, error) {
	conds := map[string]interface{}{
		"creation_date":           incident.CreationDate,
		"status":                  incident.Status,
		"completion_date":         nullableTime(incident.CompletionDate),
		"service_request_number":  incident.ServiceRequestNumber,
		"type_of_service_request": incident.TypeOfServiceRequest,
		"street_address":          nullable(incident.StreetAddress),
	}
	var stored database.Incident
	res := tx.Model(&database.Incident{}).Where(conds).Limit(1).Find(&stored)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// persistActivities resolves the shared (current activity, most recent
// action) pairs of a batch and links them to the persisted incidents.
func (im *Importer) persistActivities(tx *gorm.DB, records []Record, incidents []*database.Incident) error {
	activities, activityByRecord := ResolveEntities(records, extractActivity, activityFingerprint)
	if err := ensureEntities(tx, activities, activityConds, func(a *database.Activity) *uint { return &a.ID }); err != nil {
		return fmt.Errorf("failed to persist activities: %w", err)
	}

	var joins []*database.ActivityIncident
	for i, incident := range incidents {
		if incident == nil || activityByRecord[i] == nil {
			continue
		}
		joins = append(joins, &database.ActivityIncident{
			ActivityID: activityByRecord[i].ID,
			IncidentID: incident.ID,
		})
	}
	if err := bulkInsert(tx, joins); err != nil {
		return fmt.Errorf("failed to persist activity links: %w", err)
	}
	return nil
}

// ========== Entity extraction ==========

func extractVehicle(rec Record) *database.AbandonedVehicle {
	v := &database.AbandonedVehicle{
		LicensePlate:     rec.FieldPtr("license_plate"),
		VehicleMakeModel: rec.FieldPtr("vehicle_make_model"),
		VehicleColor:     rec.FieldPtr("vehicle_color"),
	}
	if v.Validate() != nil {
		return nil
	}
	return v
}

func vehicleFingerprint(v *database.AbandonedVehicle) string {
	return Fingerprint(v.LicensePlate, v.VehicleMakeModel, v.VehicleColor)
}

func vehicleConds(v *database.AbandonedVehicle) map[string]interface{} {
	return map[string]interface{}{
		"license_plate":      nullable(v.LicensePlate),
		"vehicle_make_model": nullable(v.VehicleMakeModel),
		"vehicle_color":      nullable(v.VehicleColor),
	}
}

func extractGraffiti(rec Record) *database.Graffiti {
	g := &database.Graffiti{
		Surface:             rec.FieldPtr("surface"),
		LocationDescription: rec.FieldPtr("location_description"),
	}
	if g.Validate() != nil {
		return nil
	}
	return g
}

func graffitiFingerprint(g *database.Graffiti) string {
	return Fingerprint(g.Surface, g.LocationDescription)
}

func graffitiConds(g *database.Graffiti) map[string]interface{} {
	return map[string]interface{}{
		"surface":              nullable(g.Surface),
		"location_description": nullable(g.LocationDescription),
	}
}

func extractTree(rec Record) *database.Tree {
	location, ok := rec.Field("location_description")
	if !ok {
		return nil
	}
	return &database.Tree{LocationDescription: location}
}

func treeFingerprint(t *database.Tree) string {
	return Fingerprint(&t.LocationDescription)
}

func treeConds(t *database.Tree) map[string]interface{} {
	return map[string]interface{}{"location_description": t.LocationDescription}
}

func extractViolation(rec Record) *database.SanitationCodeViolation {
	description, ok := rec.Field("violation_description")
	if !ok {
		return nil
	}
	return &database.SanitationCodeViolation{ViolationDescription: description}
}

func violationFingerprint(v *database.SanitationCodeViolation) string {
	return Fingerprint(&v.ViolationDescription)
}

func violationConds(v *database.SanitationCodeViolation) map[string]interface{} {
	return map[string]interface{}{"violation_description": v.ViolationDescription}
}

func extractActivity(rec Record) *database.Activity {
	a := &database.Activity{
		CurrentActivity:  rec.FieldPtr("current_activity"),
		MostRecentAction: rec.FieldPtr("most_recent_action"),
	}
	if a.Validate() != nil {
		return nil
	}
	return a
}

func activityFingerprint(a *database.Activity) string {
	return Fingerprint(a.CurrentActivity, a.MostRecentAction)
}

func activityConds(a *database.Activity) map[string]interface{} {
	return map[string]interface{}{
		"current_activity":   nullable(a.CurrentActivity),
		"most_recent_action": nullable(a.MostRecentAction),
	}
}

// ========== Incident construction ==========

// buildIncident maps a normalized record onto the incident model. Returns
// nil when the row has no parseable creation date.
func buildIncident(rec Record) *database.Incident {
	if rec.CreationDate == nil {
		return nil
	}
	return &database.Incident{
		CreationDate:         *rec.CreationDate,
		Status:               rec.Status,
		CompletionDate:       rec.CompletionDate,
		ServiceRequestNumber: rec.Fields["service_request_number"],
		TypeOfServiceRequest: rec.ServiceType,
		StreetAddress:        rec.FieldPtr("street_address"),
		ZipCode:              parseIntPtr(rec.Fields["zip_code"]),
		ZipCodes:             parseIntPtr(rec.Fields["zip_codes"]),
		XCoordinate:          parseFloatPtr(rec.Fields["x_coordinate"]),
		YCoordinate:          parseFloatPtr(rec.Fields["y_coordinate"]),
		Ward:                 parseIntPtr(rec.Fields["ward"]),
		Wards:                parseIntPtr(rec.Fields["wards"]),
		HistoricalWards0315:  parseIntPtr(rec.Fields["historical_wards_03_15"]),
		PoliceDistrict:       parseIntPtr(rec.Fields["police_district"]),
		CommunityArea:        parseIntPtr(rec.Fields["community_area"]),
		CommunityAreas:       parseIntPtr(rec.Fields["community_areas"]),
		SSA:                  parseIntPtr(rec.Fields["ssa"]),
		CensusTracts:         parseIntPtr(rec.Fields["census_tracts"]),
		Latitude:             parseFloatPtr(rec.Fields["latitude"]),
		Longitude:            parseFloatPtr(rec.Fields["longitude"]),
		Location:             buildLocation(rec),
	}
}

// buildLocation keeps the source's geolocation structure when the cell is
// valid JSON, and otherwise falls back to a point geometry derived from the
// latitude/longitude columns.
func buildLocation(rec Record) database.JSONB {
	if raw, ok := rec.Field("location"); ok {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return database.JSONB(parsed)
		}
	}
	lat := parseFloatPtr(rec.Fields["latitude"])
	lon := parseFloatPtr(rec.Fields["longitude"])
	if lat != nil && lon != nil {
		return database.JSONB{
			"type":        "Point",
			"coordinates": []interface{}{*lon, *lat},
		}
	}
	return nil
}

// ========== Cell parsing ==========

// parseIntPtr parses an integer cell; empty or malformed values become null.
// Parse problems never abort the batch.
func parseIntPtr(raw string) *int {
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n
	}
	// Some exports render integer columns as floats ("34.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

func parseInt64Ptr(raw string) *int64 {
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		n := int64(f)
		return &n
	}
	return nil
}

func parseFloatPtr(raw string) *float64 {
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return &f
	}
	return nil
}
