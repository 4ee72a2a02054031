package services

import (
	"time"

	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"gorm.io/gorm"
)

// QueryService runs the read-only analytic queries over the incident store.
type QueryService struct {
	db *gorm.DB
}

// NewQueryService creates a new query service.
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// TypeCount is one row of the per-type totals.
type TypeCount struct {
	TypeOfServiceRequest database.ServiceType `json:"type_of_service_request"`
	NumberOfRequests     int64                `json:"number_of_requests"`
}

// TotalRequestsPerType counts requests per service type inside the date
// range, most requested first.
func (s *QueryService) TotalRequestsPerType(start, end time.Time) ([]TypeCount, error) {
	var out []TypeCount
	err := s.db.Model(&database.Incident{}).
		Select("type_of_service_request, COUNT(*) AS number_of_requests").
		Where("creation_date BETWEEN ? AND ?", start, end).
		Group("type_of_service_request").
		Order("number_of_requests DESC").
		Scan(&out).Error
	return out, err
}

// DayCount is one row of the per-day totals.
type DayCount struct {
	Date             string `json:"date"`
	NumberOfRequests int64  `json:"number_of_requests"`
}

// TotalRequestsPerDay counts requests of one service type per day inside the
// date range, in day order.
func (s *QueryService) TotalRequestsPerDay(serviceType database.ServiceType, start, end time.Time) ([]DayCount, error) {
	var out []DayCount
	err := s.db.Model(&database.Incident{}).
		Select("DATE(creation_date) AS date, COUNT(*) AS number_of_requests").
		Where("type_of_service_request = ? AND creation_date BETWEEN ? AND ?", serviceType, start, end).
		Group("DATE(creation_date)").
		Order("date").
		Scan(&out).Error
	return out, err
}

// ZipCodeTopService is one row of the most-common-service ranking.
type ZipCodeTopService struct {
	ZipCode              int                  `json:"zip_code"`
	TypeOfServiceRequest database.ServiceType `json:"type_of_service_request"`
	NumberOfRequests     int64                `json:"number_of_requests"`
}

// MostCommonServicePerZipCode returns, for each zip code with requests
// created on the given day, the service type with the most requests. Ties
// break on service-type name so the result is deterministic.
func (s *QueryService) MostCommonServicePerZipCode(day time.Time) ([]ZipCodeTopService, error) {
	var out []ZipCodeTopService
	err := s.db.Raw(`
		SELECT zip_code, type_of_service_request, number_of_requests FROM (
			SELECT zip_code, type_of_service_request, COUNT(*) AS number_of_requests,
			       ROW_NUMBER() OVER (
			           PARTITION BY zip_code
			           ORDER BY COUNT(*) DESC, type_of_service_request
			       ) AS rank
			FROM incidents
			WHERE DATE(creation_date) = DATE(?) AND zip_code IS NOT NULL
			GROUP BY zip_code, type_of_service_request
		) ranked
		WHERE rank = 1
		ORDER BY zip_code`, day).Scan(&out).Error
	return out, err
}

// CompletionTime is one row of the average-completion-time report.
type CompletionTime struct {
	TypeOfServiceRequest database.ServiceType `json:"type_of_service_request"`
	AverageSeconds       float64              `json:"average_seconds"`
}

// AverageCompletionTimePerRequest averages completion minus creation per
// service type over the completed requests created inside the date range.
func (s *QueryService) AverageCompletionTimePerRequest(start, end time.Time) ([]CompletionTime, error) {
	// Interval arithmetic has no portable spelling.
	elapsed := "AVG(strftime('%s', completion_date) - strftime('%s', creation_date))"
	if s.db.Dialector.Name() == "postgres" {
		elapsed = "AVG(EXTRACT(EPOCH FROM (completion_date - creation_date)))"
	}

	var out []CompletionTime
	err := s.db.Model(&database.Incident{}).
		Select("type_of_service_request, "+elapsed+" AS average_seconds").
		Where("completion_date IS NOT NULL AND creation_date BETWEEN ? AND ?", start, end).
		Group("type_of_service_request").
		Order("type_of_service_request").
		Scan(&out).Error
	return out, err
}
