package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/filter"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

type stubAssignmentService struct {
	ports.AssignmentService
	assignFn   func(ctx context.Context, in ports.AssignInput) (*ports.AssignResult, error)
	forFn      func(ctx context.Context, assigneeID string, f filter.AssignmentFilter) ([]domain.AssignmentView, error)
	completeFn func(ctx context.Context, in ports.CompleteInput) error
}

func (s *stubAssignmentService) Assign(ctx context.Context, in ports.AssignInput) (*ports.AssignResult, error) {
	return s.assignFn(ctx, in)
}

func (s *stubAssignmentService) ListForAssignee(ctx context.Context, assigneeID string, f filter.AssignmentFilter) ([]domain.AssignmentView, error) {
	return s.forFn(ctx, assigneeID, f)
}

func (s *stubAssignmentService) CompleteAssignment(ctx context.Context, in ports.CompleteInput) error {
	return s.completeFn(ctx, in)
}

func TestAssignmentHandler_Assign_ReturnsWarnings(t *testing.T) {
	stub := &stubAssignmentService{
		assignFn: func(_ context.Context, in ports.AssignInput) (*ports.AssignResult, error) {
			if in.TaskID != "t1" || in.AssignorID != "mgr" || in.AssigneeID != "u2" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.DueDate.After(in.StartDate) {
				t.Fatalf("dates not decoded: %+v", in)
			}
			return &ports.AssignResult{
				Assignment: &domain.Assignment{ID: "a1", TaskID: in.TaskID, AssignedTo: in.AssigneeID},
				Warnings:   []domain.Warning{{Code: "notification_failed", Message: "push rejected"}},
			}, nil
		},
	}
	h := NewAssignmentHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/tasks/t1/assignments",
		`{"assigned_to":"u2","start_date":"2026-03-01T00:00:00Z","due_date":"2026-03-05T00:00:00Z"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	asUser(c, "mgr", domain.RoleManager)

	if err := h.Assign(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 even with warnings, got %d", rec.Code)
	}

	var resp assignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Assignment.ID != "a1" || resp.Notified || len(resp.Warnings) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAssignmentHandler_Assign_MissingFields(t *testing.T) {
	stub := &stubAssignmentService{
		assignFn: func(context.Context, ports.AssignInput) (*ports.AssignResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAssignmentHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/tasks/t1/assignments", `{}`)
	asUser(c, "mgr", domain.RoleManager)

	if _, ok := h.Assign(c).(*domain.ValidationError); !ok {
		t.Fatalf("expected validation error")
	}
}

func TestUserHandler_MyAssignments_PassesFilter(t *testing.T) {
	stub := &stubAssignmentService{
		forFn: func(_ context.Context, assigneeID string, f filter.AssignmentFilter) ([]domain.AssignmentView, error) {
			if assigneeID != "u1" || f.Due != filter.DateUpcoming || f.Status != "pending" {
				t.Fatalf("unexpected call: %s %+v", assigneeID, f)
			}
			return []domain.AssignmentView{{Assignment: domain.Assignment{ID: "a1", DueDate: time.Now()}}}, nil
		},
	}
	h := NewUserHandler(nil, stub)

	c, rec := newContext(http.MethodGet, "/v1/me/assignments?date=upcoming&status=pending", "")
	asUser(c, "u1", domain.RoleUser)
	if err := h.MyAssignments(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_MyAssignments_BadDateRange(t *testing.T) {
	h := NewUserHandler(nil, &stubAssignmentService{})

	c, _ := newContext(http.MethodGet, "/v1/me/assignments?date=yesterday", "")
	asUser(c, "u1", domain.RoleUser)
	if err := h.MyAssignments(c); err == nil {
		t.Fatalf("expected an error for unknown date range")
	}
}

func TestAssignmentHandler_Complete(t *testing.T) {
	var got ports.CompleteInput
	stub := &stubAssignmentService{
		completeFn: func(_ context.Context, in ports.CompleteInput) error {
			got = in
			return nil
		},
	}
	h := NewAssignmentHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/assignments/a1/complete", `{"hours":3.5,"narration":"done"}`)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	asUser(c, "u2", domain.RoleUser)

	if err := h.Complete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.AssignmentID != "a1" || got.ActorID != "u2" || got.Hours != 3.5 {
		t.Fatalf("unexpected input: %+v", got)
	}

	c, _ = newContext(http.MethodPost, "/v1/assignments/a1/complete", `{"hours":-1}`)
	asUser(c, "u2", domain.RoleUser)
	if _, ok := h.Complete(c).(*domain.ValidationError); !ok {
		t.Fatalf("expected validation error for negative hours")
	}
}
