package sessionservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmalakhov/banksettle/internal/domain"
	"github.com/vmalakhov/banksettle/pkg/auth"
	"go.uber.org/zap"
)

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type SessionRepo interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
}

// Recorder is the fire-and-forget audit sink.
type Recorder interface {
	Record(operation string, userID *int, details string)
}

type Service struct {
	userRepo    UserRepo
	sessionRepo SessionRepo
	hashService auth.HashServiceInterface
	audit       Recorder
	ttl         time.Duration
	now         func() time.Time
}

func New(userRepo UserRepo, sessionRepo SessionRepo, hashService auth.HashServiceInterface, audit Recorder, ttl time.Duration) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hashService: hashService,
		audit:       audit,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Authenticate verifies the credentials and opens a session with a fixed
// expiry. The returned token is an opaque unique string; its validity is
// always decided by the persisted session row, never by the token itself.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		zap.L().Error("can't look up user", zap.Error(err))
		return "", domain.Errorf(domain.ErrPersistence, "user lookup failed")
	}
	if user == nil {
		s.audit.Record("LOGIN_FAILED", nil, fmt.Sprintf("Username not found: %s", username))
		return "", domain.Errorf(domain.ErrAuthentication, "invalid username or password")
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		s.audit.Record("LOGIN_FAILED", &user.ID, fmt.Sprintf("Invalid password for user: %s", username))
		return "", domain.Errorf(domain.ErrAuthentication, "invalid username or password")
	}

	now := s.now()
	session := &domain.Session{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		zap.L().Error("can't create session", zap.Error(err))
		return "", domain.Errorf(domain.ErrPersistence, "session creation failed")
	}

	s.audit.Record("LOGIN_SUCCESS", &user.ID, fmt.Sprintf("User logged in: %s", username))
	zap.L().Info("user successfully authenticated", zap.String("username", username))
	return session.Token, nil
}

// Resolve maps a token to its user id. Expiry is fixed at creation; there is
// no sliding extension.
func (s *Service) Resolve(ctx context.Context, token string) (int, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		zap.L().Error("can't look up session", zap.Error(err))
		return 0, domain.Errorf(domain.ErrPersistence, "session lookup failed")
	}
	if session == nil || !s.now().Before(session.ExpiresAt) {
		return 0, domain.Errorf(domain.ErrAuthentication, "invalid or expired session token")
	}
	return session.UserID, nil
}
