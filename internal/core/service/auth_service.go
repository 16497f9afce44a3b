package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/ids"
)

const minPasswordLen = 6

// AuthService implements registration, login and session verification.
// Sessions are signed JWTs whose jti must also be present in the session
// store; removing it revokes the token.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Register creates an active USER-role account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)

	var problems []string
	if _, err := mail.ParseAddress(email); err != nil {
		problems = append(problems, "email must be a valid email")
	}
	if len(in.Password) < minPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if fullName == "" {
		problems = append(problems, "full_name is required")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           ids.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and opens a session. Deactivated accounts never
// receive one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, nil, domain.ErrAccountDeactivated
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("session opened")
	return session, user, nil
}

// Logout revokes the session behind token. Unknown, malformed or expired
// tokens are already unusable, so they are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("%w: revoke session: %w", domain.ErrBackendUnavailable, err)
	}
	s.log.Info().Str("user_id", claims.Subject).Str("session_id", claims.ID).Msg("session revoked")
	return nil
}

// Authenticate verifies token and reloads the user. A session found to
// belong to a deactivated user is revoked on the spot.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, nil, domain.ErrSessionNotFound
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: session lookup: %w", domain.ErrBackendUnavailable, err)
	}
	if !live {
		return nil, nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}

	if !user.Active {
		if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
			s.log.Warn().Err(err).Str("session_id", claims.ID).Msg("failed to revoke session of deactivated user")
		}
		return nil, nil, domain.ErrAccountDeactivated
	}

	return &domain.Session{
		ID:        claims.ID,
		Token:     token,
		UserID:    user.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now().UTC().Truncate(time.Second)
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	token, err := s.generateToken(session, user)
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := s.sessions.Save(ctx, session.ID, user.ID, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("%w: save session: %w", domain.ErrBackendUnavailable, err)
	}
	return session, nil
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) generateToken(session *domain.Session, user *domain.User) (string, error) {
	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, errors.New("parse token: missing claims")
	}
	return claims, nil
}
