// Package testhelpers provides additional data builders for testing
package testhelpers

import (
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
)

// ========================================
// Incident Builder
// ========================================

// IncidentBuilder builds Incident instances for testing
type IncidentBuilder struct {
	incident database.Incident
}

// NewIncidentBuilder creates a new incident builder with defaults
func NewIncidentBuilder() *IncidentBuilder {
	return &IncidentBuilder{
		incident: database.Incident{
			CreationDate:         time.Date(2011, time.January, 15, 14, 30, 0, 0, time.UTC),
			Status:               database.StatusOpen,
			ServiceRequestNumber: "11-00000001",
			TypeOfServiceRequest: database.ServicePotHole,
		},
	}
}

// WithCreationDate sets the creation date
func (b *IncidentBuilder) WithCreationDate(t time.Time) *IncidentBuilder {
	b.incident.CreationDate = t
	return b
}

// WithStatus sets the status
func (b *IncidentBuilder) WithStatus(status database.IncidentStatus) *IncidentBuilder {
	b.incident.Status = status
	return b
}

// WithCompletionDate sets the completion date
func (b *IncidentBuilder) WithCompletionDate(t time.Time) *IncidentBuilder {
	b.incident.CompletionDate = &t
	return b
}

// WithServiceRequestNumber sets the request number
func (b *IncidentBuilder) WithServiceRequestNumber(srn string) *IncidentBuilder {
	b.incident.ServiceRequestNumber = srn
	return b
}

// WithServiceType sets the service type
func (b *IncidentBuilder) WithServiceType(st database.ServiceType) *IncidentBuilder {
	b.incident.TypeOfServiceRequest = st
	return b
}

// WithStreetAddress sets the street address
func (b *IncidentBuilder) WithStreetAddress(addr string) *IncidentBuilder {
	b.incident.StreetAddress = &addr
	return b
}

// WithZipCode sets the zip code
func (b *IncidentBuilder) WithZipCode(zip int) *IncidentBuilder {
	b.incident.ZipCode = &zip
	return b
}

// Build returns a copy of the incident
func (b *IncidentBuilder) Build() *database.Incident {
	incident := b.incident
	return &incident
}
