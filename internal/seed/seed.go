// Package seed loads flight records from a file and writes them to the flight store.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type flightRecord struct {
	ID            string  `json:"_id" yaml:"id" validate:"omitempty,hexadecimal|uuid"`
	Airline       string  `json:"airline" yaml:"airline" validate:"required"`
	FlightNumber  string  `json:"flightNumber" yaml:"flightNumber" validate:"required"`
	Source        string  `json:"source" yaml:"source" validate:"required,place"`
	Destination   string  `json:"destination" yaml:"destination" validate:"required,place,nefield=Source"`
	Date          string  `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	DepartureTime string  `json:"departureTime" yaml:"departureTime" validate:"required,datetime=15:04"`
	ArrivalTime   string  `json:"arrivalTime" yaml:"arrivalTime" validate:"required,datetime=15:04"`
	Price         float64 `json:"price" yaml:"price" validate:"gte=0"`
}

func (r flightRecord) toDomain() domain.Flight {
	return domain.Flight{
		ID:            r.ID,
		Airline:       r.Airline,
		FlightNumber:  r.FlightNumber,
		Source:        r.Source,
		Destination:   r.Destination,
		Date:          r.Date,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		Price:         r.Price,
	}
}

// LoadFile reads flights from a .json, .yaml or .yml file.
func LoadFile(path string) ([]domain.Flight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Parse(data, FormatJSON)
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Parse decodes a list of flights and validates every record. All invalid records are reported together.
func Parse(data []byte, format Format) ([]domain.Flight, error) {
	var records []flightRecord
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}

	v := validation.New()
	var errs []error
	flights := make([]domain.Flight, 0, len(records))
	for i, r := range records {
		if err := v.Struct(r); err != nil {
			errs = append(errs, fmt.Errorf("flight #%d (%s): %w", i+1, r.FlightNumber, describe(err)))
			continue
		}
		flights = append(flights, r.toDomain())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return flights, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, ", "))
}

// Import inserts flights one by one and stops at the first failure, returning how many were written.
func Import(ctx context.Context, repo repository.FlightRepository, flights []domain.Flight) (int, error) {
	for i := range flights {
		if err := repo.Insert(ctx, &flights[i]); err != nil {
			return i, fmt.Errorf("insert flight %s: %w", flights[i].FlightNumber, err)
		}
	}
	return len(flights), nil
}
