package handler

import (
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	SessionID string       `json:"session_id,omitempty"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Route     domain.Route `json:"route,omitempty"`
	User      *domain.User `json:"user,omitempty"`
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
	User    *domain.User    `json:"user"`
	Route   domain.Route    `json:"route"`
}

// --- Users ---

type profileRequest struct {
	FullName  string `json:"full_name"  validate:"required"`
	Username  string `json:"username"   validate:"max=64"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type activeRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

// --- Tasks ---

type taskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Notes       string     `json:"notes"`
	ImageURL    string     `json:"image_url"   validate:"omitempty,url"`
}

// --- Assignments ---

type assignRequest struct {
	AssignedTo string    `json:"assigned_to" validate:"required"`
	ProjectID  string    `json:"project_id"`
	ClientID   string    `json:"client_id"`
	StartDate  time.Time `json:"start_date"  validate:"required"`
	DueDate    time.Time `json:"due_date"    validate:"required"`
}

type assignResponse struct {
	Assignment *domain.Assignment `json:"assignment"`
	Notified   bool               `json:"notified"`
	Warnings   []domain.Warning   `json:"warnings,omitempty"`
}

type completeRequest struct {
	Hours     float64 `json:"hours"     validate:"gte=0"`
	Narration string  `json:"narration"`
}

type reportResponse struct {
	Items      []domain.AssignmentView `json:"items"`
	TotalHours float64                 `json:"total_hours"`
}

// --- Projects / clients ---

type projectRequest struct {
	Name        string     `json:"name"        validate:"required"`
	Description string     `json:"description"`
	ClientID    string     `json:"client_id"`
	ManagerID   string     `json:"manager_id"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type clientRequest struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Status      string `json:"status"      validate:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
}

type projectFormResponse struct {
	Clients  []*domain.Client        `json:"clients"`
	Managers []domain.DirectoryEntry `json:"managers"`
}

// --- Requests ---

type createRequestRequest struct {
	AssignedTo  string `json:"assigned_to" validate:"required"`
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
}

type requestStatusRequest struct {
	Status    string `json:"status"    validate:"required"`
	Narration string `json:"narration"`
}
