package reservation

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"heritage-boutique/internal/domain"
	reservationrepo "heritage-boutique/internal/repository/reservation"
	"heritage-boutique/internal/validate"
)

// Nightly rates in cents per room type. The guest house has a fixed room
// catalog; prices are not stored per reservation request but derived here so
// a client can never declare its own total.
var roomRates = map[string]int64{
	"classic":  14000,
	"garden":   18500,
	"pavilion": 32000,
}

const (
	baseGuests          = 2
	extraGuestPerNight  = 4500
	maxGuestsPerBooking = 6
)

// Request is a reservation submission or update. Dates travel as
// YYYY-MM-DD strings, the storefront's wire format.
type Request struct {
	Email     string `json:"email"`
	GuestName string `json:"guestName"`
	Phone     string `json:"phone"`
	RoomType  string `json:"roomType"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Guests    int    `json:"guests"`
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

type Service struct {
	repo reservationrepo.Repository
}

func New(repo reservationrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the request, prices the stay, and stores a confirmed
// reservation.
func (s *Service) Create(ctx context.Context, req Request) (*domain.Reservation, error) {
	checkIn, checkOut, fields := validateRequest(req)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	res := domain.Reservation{
		ID:         uuid.NewString(),
		Email:      normalizeEmail(req.Email),
		GuestName:  validate.Sanitize(req.GuestName),
		Phone:      strings.TrimSpace(req.Phone),
		RoomType:   req.RoomType,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		TotalCents: price(req.RoomType, checkIn, checkOut, req.Guests),
		Status:     domain.ReservationConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.repo.Create(ctx, res)
}

// Get returns the reservation only when the presented email matches its
// owner. A mismatch is indistinguishable from a missing reservation, so the
// endpoint never confirms that someone else's booking exists.
func (s *Service) Get(ctx context.Context, id, email string) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Email != normalizeEmail(email) {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]domain.Reservation, error) {
	return s.repo.ListByEmail(ctx, normalizeEmail(email))
}

// Update revalidates the whole request and reprices the stay from scratch:
// any change to dates, room, or guest count flows into a fresh total.
func (s *Service) Update(ctx context.Context, id string, req Request) (*domain.Reservation, error) {
	existing, err := s.Get(ctx, id, req.Email)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, fields := validateRequest(req)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	updated := *existing
	updated.GuestName = validate.Sanitize(req.GuestName)
	updated.Phone = strings.TrimSpace(req.Phone)
	updated.RoomType = req.RoomType
	updated.CheckIn = checkIn
	updated.CheckOut = checkOut
	updated.Guests = req.Guests
	updated.TotalCents = price(req.RoomType, checkIn, checkOut, req.Guests)
	return s.repo.Update(ctx, updated)
}

// Cancel marks the reservation cancelled; the record is kept.
func (s *Service) Cancel(ctx context.Context, id, email string) (*domain.Reservation, error) {
	existing, err := s.Get(ctx, id, email)
	if err != nil {
		return nil, err
	}
	updated := *existing
	updated.Status = domain.ReservationCancelled
	return s.repo.Update(ctx, updated)
}

func validateRequest(req Request) (checkIn, checkOut time.Time, fields map[string]string) {
	fields = make(map[string]string)
	check := func(name string, kind validate.FieldKind, value string, required bool) {
		if r := validate.Field(kind, value, required); !r.Valid {
			fields[name] = r.Error
		}
	}

	check("email", validate.FieldEmail, req.Email, true)
	check("guestName", validate.FieldName, req.GuestName, true)
	check("phone", validate.FieldPhone, req.Phone, false)
	check("checkIn", validate.FieldDate, req.CheckIn, true)
	check("checkOut", validate.FieldDate, req.CheckOut, true)

	if _, ok := roomRates[req.RoomType]; !ok {
		fields["roomType"] = "unknown room type"
	}
	if req.Guests < 1 || req.Guests > maxGuestsPerBooking {
		fields["guests"] = "must be between 1 and 6"
	}

	if fields["checkIn"] == "" && fields["checkOut"] == "" {
		checkIn, _ = time.Parse("2006-01-02", req.CheckIn)
		checkOut, _ = time.Parse("2006-01-02", req.CheckOut)
		if !checkOut.After(checkIn) {
			fields["checkOut"] = "must be after check-in"
		}
	}
	return checkIn, checkOut, fields
}

func price(roomType string, checkIn, checkOut time.Time, guests int) int64 {
	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	total := nights * roomRates[roomType]
	if guests > baseGuests {
		total += nights * extraGuestPerNight * int64(guests-baseGuests)
	}
	return total
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
