package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Client reads the employee directory and the caller's tickets from the
// ticket API. Every call is authorized by the bearer token it is given.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	employeesPath string
	myTicketsPath string
	logger        *zap.Logger
}

// NewClient builds a client from backend configuration. A nil httpClient
// gets one with the configured timeout.
func NewClient(cfg config.BackendConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	employeesPath := cfg.EmployeesPath
	if employeesPath == "" {
		employeesPath = "/api/v1/employees/"
	}
	myTicketsPath := cfg.MyTicketsPath
	if myTicketsPath == "" {
		myTicketsPath = "/api/v1/tickets/getMyTickets"
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		employeesPath: employeesPath,
		myTicketsPath: myTicketsPath,
		logger:        zap.NewNop(),
	}
}

// WithLogger reports shape problems and skipped records to logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("backend")
	}
	return c
}

// ListEmployees fetches the employee directory.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]domain.Employee, error) {
	var env envelope
	if err := c.get(ctx, c.employeesPath, token, &env); err != nil {
		return nil, err
	}
	return env.employees(c.logger), nil
}

// ListMyTickets fetches the tickets belonging to the token's subject.
func (c *Client) ListMyTickets(ctx context.Context, token string) ([]domain.Ticket, error) {
	var env envelope
	if err := c.get(ctx, c.myTicketsPath, token, &env); err != nil {
		return nil, err
	}
	return env.tickets(c.logger), nil
}

// FindEmployee returns the directory entry whose id matches.
func FindEmployee(employees []domain.Employee, id string) (*domain.Employee, bool) {
	for i := range employees {
		if employees[i].ID == id {
			employee := employees[i]
			return &employee, true
		}
	}
	return nil, false
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Op: "GET " + path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: "GET " + path, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: "GET " + path, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status after %s: %s", time.Since(start).Round(time.Millisecond), snippet(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: "GET " + path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", err)}
	}
	return nil
}

const maxBodyBytes = 8 << 20

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
