package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// UserService covers self-service profile edits and the admin user screens.
// Role and active-flag writes are last-write-wins.
type UserService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, sessions ports.SessionStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, sessions: sessions, log: log}
}

func (s *UserService) Me(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, p ports.ProfileUpdate) (*domain.User, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Username = strings.TrimSpace(p.Username)
	p.AvatarURL = strings.TrimSpace(p.AvatarURL)
	if p.FullName == "" {
		return nil, domain.NewValidationError("full_name is required")
	}

	if err := s.users.UpdateProfile(ctx, id, p); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// SetPushToken stores the device address for id. An empty token clears it.
func (s *UserService) SetPushToken(ctx context.Context, id, token string) error {
	return s.users.SetPushToken(ctx, id, strings.TrimSpace(token))
}

// Directory lists the active users other than excludeID, by name.
func (s *UserService) Directory(ctx context.Context, excludeID string) ([]domain.DirectoryEntry, error) {
	users, err := s.users.List(ctx, ports.UserFilter{ExcludeID: excludeID, OrderBy: "full_name"})
	if err != nil {
		return nil, err
	}
	out := make([]domain.DirectoryEntry, 0, len(users))
	for _, u := range users {
		if u.Active {
			out = append(out, domain.DirectoryEntry{ID: u.ID, FullName: u.FullName})
		}
	}
	return out, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx, ports.UserFilter{OrderBy: "updated_at"})
}

// ChangeRole moves a user between MANAGER and USER. ADMIN can neither be
// granted nor taken away here.
func (s *UserService) ChangeRole(ctx context.Context, targetID, role string) (*domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok || r == domain.RoleAdmin {
		return nil, domain.NewValidationError("role must be MANAGER or USER")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if err := s.users.SetRole(ctx, targetID, r); err != nil {
		return nil, err
	}
	target.Role = r

	s.log.Info().Str("user_id", targetID).Str("role", string(r)).Msg("role changed")
	return target, nil
}

// SetActive toggles the active flag. Deactivation also revokes every live
// session of the user; if that fails the flag still stands and the next
// authenticated request revokes the session instead.
func (s *UserService) SetActive(ctx context.Context, targetID string, active bool) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() && !active {
		return nil, domain.ErrForbidden
	}

	if err := s.users.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}
	target.Active = active

	if !active {
		n, err := s.sessions.RevokeAllForUser(ctx, targetID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", targetID).Msg("failed to revoke sessions of deactivated user")
		} else {
			s.log.Info().Str("user_id", targetID).Int("sessions", n).Msg("user deactivated")
		}
	}
	return target, nil
}
