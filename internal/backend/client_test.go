package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL + "/", TimeoutSeconds: 5}, srv.Client())
}

func TestListEmployees(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"employees":[{"_id":"e1","fullName":"Ada Lovelace"},{"_id":"e2","fullName":"Alan Turing"}]}}`))
	})

	employees, err := client.ListEmployees(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/v1/employees/" {
		t.Errorf("path = %q", gotPath)
	}
	if len(employees) != 2 || employees[1].FullName != "Alan Turing" {
		t.Errorf("employees = %+v", employees)
	}
}

func TestListMyTickets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tickets/getMyTickets" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"tickets":[
			{"_id":"t1","title":"VPN","status":"pending","createdBy":{"_id":"e1","fullName":"Ada"},"assignedTo":{"_id":"s1","name":"Support"},"createdAt":"2024-03-01T10:00:00.000Z","fileUploaded":"shot.png"},
			{"_id":"t2","title":"Laptop","status":"completed","createdAt":"2024-03-02T10:00:00Z","response":{"description":"Replaced","createdBy":{"_id":"s1","fullName":"Sam"},"createdAt":"2024-03-03T10:00:00Z"}}
		]}}`))
	})

	tickets, err := client.ListMyTickets(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListMyTickets: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("len = %d, want 2", len(tickets))
	}
	if tickets[0].Status != domain.TicketStatusPending || tickets[0].AssignedTo.DisplayName() != "Support" {
		t.Errorf("first ticket = %+v", tickets[0])
	}
	if tickets[1].Response == nil || tickets[1].Response.CreatedBy.FullName != "Sam" {
		t.Errorf("second ticket response = %+v", tickets[1].Response)
	}
}

func TestListMyTicketsKeepsGoodRecords(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"tickets":[
			{"_id":"t1","title":"VPN","status":"pending","createdAt":"2024-03-01T10:00:00Z"},
			{"_id":"t2","title":"Printer","status":"pending","createdAt":""},
			{"_id":"t3","title":"Badge","status":"completed","assignedTo":"665f0c","createdAt":"2024-03-02T10:00:00Z"},
			{"_id":"t4","title":42},
			"garbage"
		]}}`))
	}).WithLogger(zap.New(core))

	tickets, err := client.ListMyTickets(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListMyTickets: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(tickets), tickets)
	}
	if tickets[0].ID != "t1" || tickets[1].ID != "t2" || tickets[2].ID != "t3" {
		t.Errorf("ids = %s %s %s", tickets[0].ID, tickets[1].ID, tickets[2].ID)
	}
	if !tickets[1].CreatedAt.IsZero() {
		t.Errorf("t2 CreatedAt = %v, want zero", tickets[1].CreatedAt)
	}
	if tickets[2].AssignedTo == nil || tickets[2].AssignedTo.ID != "665f0c" {
		t.Errorf("t3 AssignedTo = %+v", tickets[2].AssignedTo)
	}
	if n := logs.FilterMessage("skipping undecodable record").Len(); n != 2 {
		t.Errorf("skip warnings = %d, want 2", n)
	}
}

func TestUnexpectedShapeIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"tickets":{"_id":"t1"}}}`))
	}).WithLogger(zap.New(core))

	tickets, err := client.ListMyTickets(context.Background(), "tok")
	if err != nil || len(tickets) != 0 {
		t.Fatalf("got %v, %v; want empty and nil", tickets, err)
	}
	entries := logs.FilterMessage("collection is not a list").All()
	if len(entries) != 1 || entries[0].ContextMap()["collection"] != "tickets" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestUnexpectedShapeYieldsEmpty(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"data":null}`,
		`{"data":[]}`,
		`{"data":{"tickets":"nope"}}`,
		`{"tickets":[{"_id":"t1"}]}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			tickets, err := client.ListMyTickets(context.Background(), "tok")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tickets == nil || len(tickets) != 0 {
				t.Errorf("tickets = %#v, want empty non-nil slice", tickets)
			}
		})
	}
}

func TestFailuresReturnBackendError(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, http.StatusInternalServerError},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"jwt expired"}`, http.StatusUnauthorized)
		}, http.StatusUnauthorized},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.ListEmployees(context.Background(), "tok")
			var backendErr *Error
			if !errors.As(err, &backendErr) {
				t.Fatalf("err = %v, want *backend.Error", err)
			}
			if backendErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", backendErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(config.BackendConfig{BaseURL: url}, nil)
	if _, err := client.ListMyTickets(context.Background(), "tok"); err == nil {
		t.Fatal("expected error from closed server")
	}
}

func TestFindEmployee(t *testing.T) {
	employees := []domain.Employee{{ID: "a", FullName: "A"}, {ID: "b", FullName: "B"}}
	if e, ok := FindEmployee(employees, "b"); !ok || e.FullName != "B" {
		t.Errorf("FindEmployee(b) = %+v, %v", e, ok)
	}
	if _, ok := FindEmployee(employees, "z"); ok {
		t.Error("FindEmployee(z) should miss")
	}
	if _, ok := FindEmployee(nil, "a"); ok {
		t.Error("FindEmployee on empty directory should miss")
	}
}
