package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/backend"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// TicketAPI is the part of the backend the loader reads.
type TicketAPI interface {
	ListEmployees(ctx context.Context, token string) ([]domain.Employee, error)
	ListMyTickets(ctx context.Context, token string) ([]domain.Ticket, error)
}

// Outcome records where the load pipeline stopped.
type Outcome string

const (
	OutcomeNoCredential        Outcome = "no_credential"
	OutcomeMalformedCredential Outcome = "malformed_credential"
	OutcomeEmployeeFetchFailed Outcome = "employee_fetch_failed"
	OutcomeEmployeeNotFound    Outcome = "employee_not_found"
	OutcomeTicketsFetchFailed  Outcome = "tickets_fetch_failed"
	OutcomeLoaded              Outcome = "loaded"
)

// LoadResult summarizes one pipeline run. Failures are logged, never
// returned, so the view always renders with what it has.
type LoadResult struct {
	Outcome  Outcome
	Employee *domain.Employee
	Tickets  int

	token string
}

// Loader resolves the caller's employee record and then their tickets.
type Loader struct {
	api    TicketAPI
	logger *zap.Logger
}

// NewLoader constructs a loader.
func NewLoader(api TicketAPI, logger *zap.Logger) *Loader {
	return &Loader{api: api, logger: logger}
}

// Load runs the two dependent reads and writes results to board.
func (l *Loader) Load(ctx context.Context, creds auth.CredentialProvider, board *Board) LoadResult {
	token, ok := creds.Credential(ctx)
	if !ok {
		l.logger.Info("No access token found.")
		return LoadResult{Outcome: OutcomeNoCredential}
	}

	identity, ok := auth.IdentityFromToken(l.logger, token)
	if !ok {
		l.logger.Error("Invalid token payload. No employee ID found.")
		return LoadResult{Outcome: OutcomeMalformedCredential, token: token}
	}

	employee, outcome := l.resolveEmployee(ctx, identity)
	if employee == nil {
		return LoadResult{Outcome: outcome, token: token}
	}
	board.SetEmployee(employee)

	tickets, err := l.api.ListMyTickets(ctx, token)
	if err != nil {
		l.logger.Error("Error fetching tickets data", zap.String("employee_id", employee.ID), zap.Error(err))
		return LoadResult{Outcome: OutcomeTicketsFetchFailed, Employee: employee, token: token}
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	board.Replace(tickets)

	l.logger.Debug("tickets loaded", zap.String("employee_id", employee.ID), zap.Int("count", len(tickets)))
	return LoadResult{Outcome: OutcomeLoaded, Employee: employee, Tickets: len(tickets), token: token}
}

func (l *Loader) resolveEmployee(ctx context.Context, identity domain.Identity) (*domain.Employee, Outcome) {
	employees, err := l.api.ListEmployees(ctx, identity.Token)
	if err != nil {
		l.logger.Error("Error fetching employee data", zap.Error(err))
		return nil, OutcomeEmployeeFetchFailed
	}

	employee, ok := backend.FindEmployee(employees, identity.EmployeeID)
	if !ok {
		l.logger.Error("Employee not found.", zap.String("employee_id", identity.EmployeeID))
		return nil, OutcomeEmployeeNotFound
	}
	return employee, ""
}
