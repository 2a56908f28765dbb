package dashboard

import (
	"testing"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestRespondOnPendingTicket(t *testing.T) {
	var sel Selection
	sel.Open(ticket("X", domain.TicketStatusPending))
	if !sel.CanRespond() {
		t.Fatal("pending ticket should offer Respond")
	}

	var routes []string
	route, ok := sel.Respond(NavigatorFunc(func(r string) { routes = append(routes, r) }))
	if !ok || route != "/X" {
		t.Fatalf("Respond = %q, %v", route, ok)
	}
	if len(routes) != 1 || routes[0] != "/X" {
		t.Errorf("navigated to %v", routes)
	}
	if sel.IsOpen() {
		t.Error("popup should close after Respond")
	}
}

func TestRespondAbsentOnCompletedTicket(t *testing.T) {
	var sel Selection
	sel.Open(ticket("Y", domain.TicketStatusCompleted))
	if sel.CanRespond() {
		t.Fatal("completed ticket must not offer Respond")
	}
	called := false
	if _, ok := sel.Respond(NavigatorFunc(func(string) { called = true })); ok || called {
		t.Error("Respond should be a no-op")
	}
	if !sel.IsOpen() {
		t.Error("popup should stay open")
	}
}

func TestSelectionOpenReplacesAndClose(t *testing.T) {
	var sel Selection
	if _, ok := sel.Selected(); ok {
		t.Fatal("new selection should be empty")
	}
	sel.Open(ticket("a", domain.TicketStatusPending))
	sel.Open(ticket("b", domain.TicketStatusCompleted))
	if got, _ := sel.Selected(); got.ID != "b" {
		t.Errorf("selected = %s", got.ID)
	}
	sel.Close()
	if sel.IsOpen() {
		t.Error("Close should clear the selection")
	}
}

func TestRoutes(t *testing.T) {
	if ResponseRoute("abc") != "/abc" {
		t.Error("ResponseRoute")
	}
	if NewTicketRoute != "/user-ticket" {
		t.Error("NewTicketRoute")
	}
}
