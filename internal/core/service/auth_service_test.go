package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

func newTestAuthService(users *stubUserRepo, sessions *stubSessionStore) *AuthService {
	return NewAuthService(users, sessions, "secret", time.Hour, zerolog.Nop())
}

func registerUser(t *testing.T, svc *AuthService, email, password string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: email, Password: password, FullName: "Test User"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	user := registerUser(t, svc, " Alice@Example.com ", "pass123")
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser || !user.Active {
		t.Fatalf("expected active USER, got role=%s active=%v", user.Role, user.Active)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "nope", Password: "123"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three validation messages, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	registerUser(t, svc, "bob@example.com", "pass123")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass456", FullName: "Bob"})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestAuthService(newStubUserRepo(), sessions)
	registered := registerUser(t, svc, "carol@example.com", "s3cret")

	session, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if session.Token == "" || session.UserID != registered.ID {
		t.Fatalf("unexpected session: %+v", session)
	}
	if sessions.count() != 1 {
		t.Fatalf("expected session to be stored")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleUser) {
		t.Fatalf("expected role %s, got %v", domain.RoleUser, claims["role"])
	}
	if claims["jti"] != session.ID {
		t.Fatalf("expected jti %s, got %v", session.ID, claims["jti"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())
	registerUser(t, svc, "dave@example.com", "goodpass")

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)
	user := registerUser(t, svc, "erin@example.com", "pass123")
	_ = users.SetActive(context.Background(), user.ID, false)

	if _, _, err := svc.Login(context.Background(), "erin@example.com", "pass123"); err != domain.ErrAccountDeactivated {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
	if sessions.count() != 0 {
		t.Fatalf("no session may be issued to a deactivated account")
	}
}

func TestAuthService_Login_StoreUnavailable(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestAuthService(newStubUserRepo(), sessions)
	registerUser(t, svc, "frank@example.com", "pass123")
	sessions.saveErr = errors.New("connection refused")

	if _, _, err := svc.Login(context.Background(), "frank@example.com", "pass123"); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)
	user := registerUser(t, svc, "gina@example.com", "pass123")

	session, _, err := svc.Login(context.Background(), "gina@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, who, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != session.ID || who.ID != user.ID {
		t.Fatalf("unexpected session/user: %+v %+v", got, who)
	}

	if _, _, err := svc.Authenticate(context.Background(), "garbage"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for malformed token, got %v", err)
	}
}

func TestAuthService_Authenticate_AfterLogout(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestAuthService(newStubUserRepo(), sessions)
	registerUser(t, svc, "hank@example.com", "pass123")

	session, _, _ := svc.Login(context.Background(), "hank@example.com", "pass123")
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, _, err := svc.Authenticate(context.Background(), session.Token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("second logout should be a no-op, got %v", err)
	}
	if err := svc.Logout(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("logout with junk token should be a no-op, got %v", err)
	}
}

func TestAuthService_Authenticate_DeactivatedRevokes(t *testing.T) {
	users := newStubUserRepo()
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)
	user := registerUser(t, svc, "ivy@example.com", "pass123")

	session, _, _ := svc.Login(context.Background(), "ivy@example.com", "pass123")
	_ = users.SetActive(context.Background(), user.ID, false)

	if _, _, err := svc.Authenticate(context.Background(), session.Token); err != domain.ErrAccountDeactivated {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
	if sessions.count() != 0 {
		t.Fatalf("expected session to be revoked")
	}
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestAuthService(newStubUserRepo(), sessions)
	registerUser(t, svc, "jack@example.com", "pass123")

	session, _, _ := svc.Login(context.Background(), "jack@example.com", "pass123")
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, _, err := svc.Authenticate(context.Background(), session.Token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for expired token, got %v", err)
	}
}
