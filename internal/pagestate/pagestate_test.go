package pagestate

import (
	"context"
	"testing"
)

func TestApply_CurrentTicket(t *testing.T) {
	scope := New(context.Background())
	ticket := scope.Begin()

	var got []string
	if !Apply(ticket, &got, []string{"a"}) {
		t.Fatal("Expected current ticket to apply")
	}
	if len(got) != 1 {
		t.Errorf("Value not stored: %v", got)
	}
}

func TestApply_SupersededTicket(t *testing.T) {
	scope := New(context.Background())
	old := scope.Begin()
	fresh := scope.Begin()

	value := "initial"
	if Apply(old, &value, "stale") {
		t.Error("Superseded ticket must not apply")
	}
	if !Apply(fresh, &value, "fresh") {
		t.Error("Fresh ticket should apply")
	}
	if value != "fresh" {
		t.Errorf("Expected fresh, got %q", value)
	}
}

func TestApply_AfterEnd(t *testing.T) {
	scope := New(context.Background())
	ticket := scope.Begin()
	scope.End()

	n := 1
	if Apply(ticket, &n, 2) || n != 1 {
		t.Error("Ended scope must drop results")
	}
}

func TestApply_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scope := New(ctx)
	ticket := scope.Begin()
	cancel()

	if ticket.Current() {
		t.Error("Ticket of a closed page must not be current")
	}
}

func TestZeroTicket(t *testing.T) {
	var ticket Ticket
	if ticket.Current() {
		t.Error("Zero ticket must not be current")
	}
}

func TestTicketErr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scope := New(ctx)
	old := scope.Begin()
	fresh := scope.Begin()

	if err := fresh.Err(); err != nil {
		t.Errorf("Current ticket should have no error, got %v", err)
	}
	if err := old.Err(); err != context.Canceled {
		t.Errorf("Superseded ticket: expected context.Canceled, got %v", err)
	}

	cancel()
	if err := fresh.Err(); err != context.Canceled {
		t.Errorf("Closed page: expected context.Canceled, got %v", err)
	}

	var zero Ticket
	if zero.Err() == nil {
		t.Error("Zero ticket must report an error")
	}
}
