package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
	"github.com/go-playground/validator/v10"
)

const ConfirmationMessage = "Booking confirmed!"

const (
	MsgMissingFields     = "missing required fields"
	MsgFlightCount       = "flightIds must contain one or two flight ids"
	MsgDuplicateFlights  = "duplicate flight ids provided"
	MsgInvalidEmail      = "invalid email"
	MsgInvalidPhone      = "invalid phone: must be 10 to 12 digits"
	MsgInvalidFlightIDs  = "invalid flight ids provided"
	maxFlightsPerBooking = 2
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightIDs []string `json:"flightIds"`
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
}

type Passenger struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type Confirmation struct {
	Message   string          `json:"message"`
	BookingID string          `json:"bookingId"`
	TripType  string          `json:"tripType"`
	Flights   []domain.Flight `json:"flights"`
	Passenger Passenger       `json:"passenger"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	validate           *validator.Validate
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService wires the stores and an optional event producer. A nil producer disables events.
func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		producer:    producer,
		eventsTopic: eventsTopic,
		validate:    validation.New(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error) {
	input = normalize(input)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	flights, err := s.resolveFlights(ctx, input.FlightIDs)
	if err != nil {
		return nil, err
	}

	flightIDs := make([]string, 0, len(flights))
	for _, f := range flights {
		flightIDs = append(flightIDs, f.ID)
	}

	booking := &domain.Booking{
		FlightIDs: flightIDs,
		FullName:  input.FullName,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: s.now().UTC(),
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	if err := s.publish(ctx, kafka.EventBookingCreated, booking); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", kafka.EventBookingCreated, booking.ID, err)
	}

	return &Confirmation{
		Message:   ConfirmationMessage,
		BookingID: booking.ID,
		TripType:  booking.TripType(),
		Flights:   flights,
		Passenger: Passenger{
			FullName: booking.FullName,
			Email:    booking.Email,
			Phone:    booking.Phone,
		},
	}, nil
}

func normalize(input CreateBookingInput) CreateBookingInput {
	ids := make([]string, 0, len(input.FlightIDs))
	for _, id := range input.FlightIDs {
		ids = append(ids, strings.TrimSpace(id))
	}
	return CreateBookingInput{
		FlightIDs: ids,
		FullName:  strings.TrimSpace(input.FullName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
	}
}

// validateInput applies the rules in the order callers see them reported.
func (s *BookingService) validateInput(input CreateBookingInput) error {
	if len(input.FlightIDs) == 0 || input.FullName == "" || input.Email == "" {
		return domain.NewValidationError(MsgMissingFields)
	}
	for _, id := range input.FlightIDs {
		if id == "" {
			return domain.NewValidationError(MsgMissingFields)
		}
	}
	if len(input.FlightIDs) > maxFlightsPerBooking {
		return domain.NewValidationError(MsgFlightCount)
	}

	seen := make(map[string]struct{}, len(input.FlightIDs))
	for _, id := range input.FlightIDs {
		key := idKey(id)
		if _, ok := seen[key]; ok {
			return domain.NewValidationError(MsgDuplicateFlights)
		}
		seen[key] = struct{}{}
	}

	if err := s.validate.Var(input.Email, "email"); err != nil {
		return domain.NewValidationError(MsgInvalidEmail)
	}
	if input.Phone != "" {
		if err := s.validate.Var(input.Phone, validation.TagPhone); err != nil {
			return domain.NewValidationError(MsgInvalidPhone)
		}
	}
	return nil
}

// resolveFlights looks all ids up in one batch. The store answers in request order with
// canonical ids, so two spellings of the same id surface here as a duplicate.
func (s *BookingService) resolveFlights(ctx context.Context, ids []string) ([]domain.Flight, error) {
	found, err := s.flights.FindByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.NewValidationError(MsgInvalidFlightIDs)
		}
		return nil, fmt.Errorf("lookup flights: %w", err)
	}
	if len(found) != len(ids) {
		return nil, domain.NewValidationError(MsgInvalidFlightIDs)
	}

	seen := make(map[string]struct{}, len(found))
	for _, f := range found {
		key := idKey(f.ID)
		if _, ok := seen[key]; ok {
			return nil, domain.NewValidationError(MsgDuplicateFlights)
		}
		seen[key] = struct{}{}
	}
	return found, nil
}

// idKey folds case; both stores use hex identifiers that parse case-insensitively.
func idKey(id string) string {
	return strings.ToLower(id)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		TripType:  booking.TripType(),
		FlightIDs: booking.FlightIDs,
		FullName:  booking.FullName,
		Email:     booking.Email,
		Phone:     booking.Phone,
		CreatedAt: booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
