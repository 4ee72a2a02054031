package api

import (
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// ToIncident maps an incident payload onto the storage model.
func ToIncident(p IncidentPayload) *database.Incident {
	return &database.Incident{
		CreationDate:         p.CreationDate.UTC(),
		Status:               database.IncidentStatus(p.Status),
		CompletionDate:       utcPtr(p.CompletionDate),
		ServiceRequestNumber: p.ServiceRequestNumber,
		TypeOfServiceRequest: database.ServiceType(p.TypeOfServiceRequest),
		StreetAddress:        p.StreetAddress,
		ZipCode:              p.ZipCode,
		ZipCodes:             p.ZipCodes,
		XCoordinate:          p.XCoordinate,
		YCoordinate:          p.YCoordinate,
		Ward:                 p.Ward,
		Wards:                p.Wards,
		HistoricalWards0315:  p.HistoricalWards0315,
		PoliceDistrict:       p.PoliceDistrict,
		CommunityArea:        p.CommunityArea,
		CommunityAreas:       p.CommunityAreas,
		SSA:                  p.SSA,
		CensusTracts:         p.CensusTracts,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		Location:             database.JSONB(p.Location),
	}
}

// ToActivity maps the optional activity block; nil stays nil.
func ToActivity(p *ActivityPayload) *database.Activity {
	if p == nil {
		return nil
	}
	return &database.Activity{
		CurrentActivity:  p.CurrentActivity,
		MostRecentAction: p.MostRecentAction,
	}
}

// ToAbandonedVehicle maps the optional vehicle block; nil stays nil.
func ToAbandonedVehicle(p *AbandonedVehiclePayload) *database.AbandonedVehicle {
	if p == nil {
		return nil
	}
	return &database.AbandonedVehicle{
		LicensePlate:     p.LicensePlate,
		VehicleMakeModel: p.VehicleMakeModel,
		VehicleColor:     p.VehicleColor,
	}
}

// ToGraffiti maps the optional graffiti block; nil stays nil.
func ToGraffiti(p *GraffitiPayload) *database.Graffiti {
	if p == nil {
		return nil
	}
	return &database.Graffiti{
		Surface:             p.Surface,
		LocationDescription: p.LocationDescription,
	}
}

// ToTree maps the optional tree block; nil stays nil.
func ToTree(p *TreePayload) *database.Tree {
	if p == nil {
		return nil
	}
	return &database.Tree{LocationDescription: p.LocationDescription}
}

// ToSanitationCodeViolation maps the optional violation block; nil stays nil.
func ToSanitationCodeViolation(p *SanitationCodeViolationPayload) *database.SanitationCodeViolation {
	if p == nil {
		return nil
	}
	return &database.SanitationCodeViolation{ViolationDescription: p.ViolationDescription}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
