package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
	"github.com/taskforge/todo-system/internal/core/token"
)

// stubUserRepo is an in-memory credential store. The mutex makes Save
// atomic, mirroring the unique-index guarantee of the real store.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	roles map[string]*domain.Role
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users: make(map[string]*domain.User),
		roles: map[string]*domain.Role{
			domain.RoleUser:  {ID: "1", Name: domain.RoleUser},
			domain.RoleAdmin: {ID: "2", Name: domain.RoleAdmin},
		},
	}
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameExists
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	clone := *user
	clone.ID = user.Username
	r.users[user.Username] = &clone
	saved := clone
	return &saved, nil
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[identifier]; ok {
		clone := *u
		return &clone, nil
	}
	for _, u := range r.users {
		if u.Email == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) RolesByUsername(_ context.Context, username string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return append([]string(nil), u.Roles...), nil
}

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (s *stubRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = ttl
	return nil
}

type noopAudit struct{}

func (noopAudit) Enqueue(ports.AuditEventInput) {}

func newTestAuthService(repo ports.UserRepository, revoker TokenRevoker) (*AuthService, *token.Codec) {
	codec := token.NewCodec("test-secret", time.Hour, zerolog.Nop())
	return NewAuthService(repo, codec, revoker, noopAudit{}, zerolog.Nop()), codec
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, newStubRevoker())

	msg, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "pw1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected confirmation message")
	}

	user := repo.users["alice"]
	if user == nil {
		t.Fatalf("user not persisted")
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1234" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected exactly the user role, got %v", user.Roles)
	}
}

func TestAuthService_Register_UsernameConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, newStubRevoker())

	in := ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "pw1234"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Register_EmailConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, newStubRevoker())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "pw1234",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bobby", Email: "bob@example.com", Password: "pw1234",
	}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_RoleNotSeeded(t *testing.T) {
	repo := newStubUserRepo()
	repo.roles = map[string]*domain.Role{}
	svc, _ := newTestAuthService(repo, newStubRevoker())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "pw1234",
	}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo, newStubRevoker())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "s3cret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Both the username and the email resolve the same account.
	for _, identifier := range []string{"carol", "carol@example.com"} {
		tokenString, err := svc.Login(context.Background(), identifier, "s3cret")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		subject, err := codec.ExtractSubject(tokenString)
		if err != nil {
			t.Fatalf("issued token invalid: %v", err)
		}
		if subject != "carol" {
			t.Fatalf("expected subject carol, got %q", subject)
		}
	}
}

func TestAuthService_Login_FailuresIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, newStubRevoker())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "goodpass",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "dave", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPass, unknownUser)
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, newStubRevoker())

	const attempts = 8
	errs := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.Register(context.Background(), ports.RegisterInput{
				Username: "eve", Email: "eve@example.com", Password: "pw1234",
			})
			errs <- err
		}()
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < attempts; i++ {
		switch err := <-errs; {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrUsernameExists) || errors.Is(err, domain.ErrEmailExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly one successful register, got %d", successes)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

func TestAuthService_Logout_RevokesRemainingLifetime(t *testing.T) {
	repo := newStubUserRepo()
	revoker := newStubRevoker()
	svc, _ := newTestAuthService(repo, revoker)

	exp := time.Now().Add(30 * time.Minute)
	if err := svc.Logout(context.Background(), "alice", "jti-1", exp); err != nil {
		t.Fatalf("logout: %v", err)
	}

	ttl, ok := revoker.revoked["jti-1"]
	if !ok {
		t.Fatalf("jti not revoked")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
}

func TestAuthService_Logout_ExpiredTokenSkipsDenylist(t *testing.T) {
	repo := newStubUserRepo()
	revoker := newStubRevoker()
	svc, _ := newTestAuthService(repo, revoker)

	if err := svc.Logout(context.Background(), "alice", "jti-2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := revoker.revoked["jti-2"]; ok {
		t.Fatalf("expired token should not be denylisted")
	}
}
