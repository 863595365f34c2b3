package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
	"github.com/taskforge/todo-system/internal/core/token"
)

// TokenRevoker abstracts the revocation denylist (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuditSink receives audit events without blocking the caller.
type AuditSink interface {
	Enqueue(event ports.AuditEventInput)
}

// AuthService implements registration, login, and logout.
type AuthService struct {
	repo    ports.UserRepository
	codec   *token.Codec
	revoker TokenRevoker
	audit   AuditSink
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec *token.Codec, revoker TokenRevoker, audit AuditSink, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, revoker: revoker, audit: audit, log: log}
}

// Register creates a user account holding exactly the regular-user role.
// The pre-insert probes give precise conflict messages; the unique indexes
// behind Save close the race they leave open.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if taken, err := s.repo.ExistsByUsername(ctx, in.Username); err != nil {
		return "", err
	} else if taken {
		s.recordAuth(in.Username, domain.AuditRegister, domain.AuditOutcomeFailure, "username taken")
		return "", domain.ErrUsernameExists
	}

	if taken, err := s.repo.ExistsByEmail(ctx, in.Email); err != nil {
		return "", err
	} else if taken {
		s.recordAuth(in.Username, domain.AuditRegister, domain.AuditOutcomeFailure, "email taken")
		return "", domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	role, err := s.repo.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		s.log.Error().Err(err).Msg("regular-user role missing; was the store seeded?")
		return "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Roles:        []string{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameExists) || errors.Is(err, domain.ErrEmailExists) {
			s.recordAuth(in.Username, domain.AuditRegister, domain.AuditOutcomeFailure, "lost insert race")
		}
		return "", err
	}

	s.log.Info().Str("username", in.Username).Msg("user registered")
	s.recordAuth(in.Username, domain.AuditRegister, domain.AuditOutcomeSuccess, "")

	return "User registered successfully", nil
}

// Login verifies credentials and issues a session token. An unknown
// identifier and a wrong password produce the identical error value so the
// response cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	user, err := s.repo.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordAuth(usernameOrEmail, domain.AuditLogin, domain.AuditOutcomeFailure, "unknown identifier")
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordAuth(user.Username, domain.AuditLogin, domain.AuditOutcomeFailure, "wrong password")
		return "", domain.ErrInvalidCredentials
	}

	tokenString, err := s.codec.Encode(user.Username, time.Now().UTC())
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Msg("login succeeded")
	s.recordAuth(user.Username, domain.AuditLogin, domain.AuditOutcomeSuccess, "")

	return tokenString, nil
}

// Logout adds the token's jti to the denylist until the token would have
// expired on its own. Already-expired tokens need no denylist entry.
func (s *AuthService) Logout(ctx context.Context, subject, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl > 0 {
		if err := s.revoker.Revoke(ctx, jti, ttl); err != nil {
			return err
		}
	}
	s.recordAuth(subject, domain.AuditLogout, domain.AuditOutcomeSuccess, "")
	return nil
}

func (s *AuthService) recordAuth(subject string, action domain.AuditAction, outcome, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEventInput{
		Subject:   subject,
		Action:    action,
		Outcome:   outcome,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
