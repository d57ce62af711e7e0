package estimation

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"heritage-boutique/internal/domain"
	estimationrepo "heritage-boutique/internal/repository/estimation"
	"heritage-boutique/internal/validate"
)

// Visit kinds the estimation form accepts.
var visitKinds = map[string]bool{
	"group_tour":    true,
	"private_event": true,
	"school_visit":  true,
	"workshop":      true,
}

const maxGroupSize = 200

type Request struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	VisitDate string `json:"visitDate"`
	VisitTime string `json:"visitTime"`
	GroupSize int    `json:"groupSize"`
	VisitKind string `json:"visitKind"`
	Message   string `json:"message"`
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
	repo estimationrepo.Repository
}

func New(repo estimationrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a visit-quote request. Free-text fields are
// sanitized before they reach storage.
func (s *Service) Create(ctx context.Context, req Request) (*domain.Estimation, error) {
	fields := make(map[string]string)
	check := func(name string, kind validate.FieldKind, value string, required bool) {
		if r := validate.Field(kind, value, required); !r.Valid {
			fields[name] = r.Error
		}
	}

	check("email", validate.FieldEmail, req.Email, true)
	check("firstName", validate.FieldName, req.FirstName, true)
	check("lastName", validate.FieldName, req.LastName, true)
	check("phone", validate.FieldPhone, req.Phone, false)
	check("visitDate", validate.FieldDate, req.VisitDate, true)
	check("visitTime", validate.FieldTime, req.VisitTime, false)

	if !visitKinds[req.VisitKind] {
		fields["visitKind"] = "unknown visit kind"
	}
	if req.GroupSize < 1 || req.GroupSize > maxGroupSize {
		fields["groupSize"] = "must be between 1 and 200"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	est := domain.Estimation{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: validate.Sanitize(req.FirstName),
		LastName:  validate.Sanitize(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		VisitDate: req.VisitDate,
		VisitTime: req.VisitTime,
		GroupSize: req.GroupSize,
		VisitKind: req.VisitKind,
		Message:   validate.Sanitize(req.Message),
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, est)
}
