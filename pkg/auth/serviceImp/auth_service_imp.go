package serviceImp

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"micampo/entities"
	"micampo/pkg/auth/service"
	"micampo/pkg/storage/repository"
)

type Options struct {
	// DemoMode accepts any non-empty credentials that match no registry entry.
	DemoMode   bool
	BcryptCost int
}

type authSvc struct {
	mu      sync.Mutex
	kv      repository.KVRepository
	log     *zap.Logger
	opts    Options
	users   []entities.RegistryEntry
	session *entities.User
}

// NewAuthService restores the registry and any persisted session. A stored
// session is trusted without re-checking credentials.
func NewAuthService(kv repository.KVRepository, log *zap.Logger, opts Options) service.AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	s := &authSvc{kv: kv, log: log.Named("auth"), opts: opts}

	if raw, ok, err := kv.Get(repository.KeyUsers); err != nil {
		s.log.Warn("read registry", zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(raw, &s.users); err != nil {
			s.log.Warn("registry unreadable, starting empty", zap.Error(err))
			s.users = nil
		}
	}
	if raw, ok, err := kv.Get(repository.KeySession); err != nil {
		s.log.Warn("read session", zap.Error(err))
	} else if ok {
		var u entities.User
		if err := json.Unmarshal(raw, &u); err != nil || u.Email == "" {
			s.log.Warn("session unreadable, starting anonymous", zap.Error(err))
		} else {
			s.session = &u
			s.log.Info("session restored", zap.String("email", u.Email))
		}
	}
	return s
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

func (s *authSvc) Login(typed, password string) (entities.User, error) {
	email := normalizeEmail(typed)
	if email == "" || password == "" {
		return entities.User{}, service.ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		e := &s.users[i]
		if normalizeEmail(e.Email) != email || !s.checkPasswordLocked(e, password) {
			continue
		}
		u := e.User
		s.setSessionLocked(&u)
		s.log.Info("login", zap.String("email", email))
		return u, nil
	}

	if !s.opts.DemoMode {
		return entities.User{}, service.ErrInvalidCredentials
	}
	u := entities.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     localPart(strings.TrimSpace(typed)),
		FarmName: service.DemoFarmName,
	}
	s.setSessionLocked(&u)
	s.log.Info("demo login", zap.String("email", email))
	return u, nil
}

// checkPasswordLocked compares against the bcrypt hash. Entries written
// with a plaintext password are upgraded to a hash on their first match.
func (s *authSvc) checkPasswordLocked(e *entities.RegistryEntry, password string) bool {
	if e.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
	}
	if e.Password == "" || subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) != 1 {
		return false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		s.log.Warn("hash legacy password", zap.Error(err))
		return true
	}
	e.PasswordHash = string(hash)
	e.Password = ""
	s.persistUsersLocked()
	return true
}

func (s *authSvc) Register(in service.RegisterInput) (entities.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return entities.User{}, service.ErrMissingFields
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.users {
		if normalizeEmail(e.Email) == email {
			return entities.User{}, fmt.Errorf("%s: %w", email, service.ErrEmailTaken)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return entities.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := entities.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		FarmName: strings.TrimSpace(in.FarmName),
	}
	if u.Name == "" {
		u.Name = localPart(strings.TrimSpace(in.Email))
	}
	if u.FarmName == "" {
		u.FarmName = service.DefaultFarmName
	}
	s.users = append(s.users, entities.RegistryEntry{User: u, PasswordHash: string(hash)})
	s.persistUsersLocked()
	s.setSessionLocked(&u)
	s.log.Info("registered", zap.String("email", email))
	return u, nil
}

func (s *authSvc) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	if err := s.kv.Delete(repository.KeySession); err != nil {
		s.log.Error("remove session", zap.Error(err))
	}
}

func (s *authSvc) Current() (entities.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return entities.User{}, false
	}
	return *s.session, true
}

func (s *authSvc) RegistrySize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *authSvc) setSessionLocked(u *entities.User) {
	s.session = u
	b, err := json.Marshal(u)
	if err == nil {
		err = s.kv.Set(repository.KeySession, b)
	}
	if err != nil {
		s.log.Error("persist session", zap.Error(err))
	}
}

func (s *authSvc) persistUsersLocked() {
	b, err := json.Marshal(s.users)
	if err == nil {
		err = s.kv.Set(repository.KeyUsers, b)
	}
	if err != nil {
		s.log.Error("persist registry", zap.Error(err))
	}
}
