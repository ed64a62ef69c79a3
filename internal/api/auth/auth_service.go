package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-quora-api/app/observability/metrics"
	"github.com/FACorreiaa/go-quora-api/config"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)
var _ Guard = (*AuthServiceImpl)(nil)

// Guard is the authorization precondition every authenticated operation
// runs first: resolve the presented bearer token to an active session or
// fail. signedOutMessage is the action-specific text reported when the
// session exists but has been logged out.
type Guard interface {
	CheckAuthorization(ctx context.Context, accessToken, signedOutMessage string) (*types.AuthSession, error)
}

// AuthService owns the account lifecycle: registration, credential
// verification, bearer-token sessions and profile reads.
type AuthService interface {
	Guard

	SignUp(ctx context.Context, user *types.User, password string) (*types.User, error)
	SignIn(ctx context.Context, username, password string) (*types.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) (*types.AuthSession, error)
	GetUserDetails(ctx context.Context, userUUID, accessToken string) (*types.User, error)
}

type AuthServiceImpl struct {
	logger  *slog.Logger
	repo    AuthRepo
	encoder *PasswordEncoder
	issuer  *TokenIssuer
	ttl     time.Duration
	cache   *gocache.Cache
	metrics *metrics.AppMetrics
}

// NewAuthService creates the auth service. The session cache fronts the
// guard's token lookup and is evicted on sign-out, so SignedOut semantics
// stay exact on this single-node deployment.
func NewAuthService(repo AuthRepo, cfg config.AuthConfig, logger *slog.Logger) *AuthServiceImpl {
	metrics.InitAppMetrics()
	return &AuthServiceImpl{
		logger:  logger,
		repo:    repo,
		encoder: NewPasswordEncoder(),
		issuer:  NewTokenIssuer(cfg.JWTSecretKey, cfg.JWTIssuer),
		ttl:     cfg.SessionTTL,
		cache:   gocache.New(cfg.GuardCacheTTL, cfg.GuardCacheSweep),
		metrics: metrics.Get(),
	}
}

// SignUp registers a new user. The username check takes priority over the
// email check when both collide; the store's uniqueness constraints settle
// concurrent signups that slip past both pre-checks.
func (s *AuthServiceImpl) SignUp(ctx context.Context, user *types.User, password string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "SignUp", trace.WithAttributes(
		attribute.String("user.username", user.Username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SignUp"), slog.String("username", user.Username))
	s.metrics.SignupRequestsTotal.Add(ctx, 1)

	if _, err := s.repo.GetUserByUsername(ctx, user.Username); err == nil {
		l.WarnContext(ctx, "Username already taken")
		span.SetStatus(codes.Error, "Username taken")
		return nil, types.NewDomainError(types.ErrConflict, "SGR-001",
			"Try any other Username, this Username has already been taken")
	} else if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Username lookup failed")
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, user.Email); err == nil {
		l.WarnContext(ctx, "Email already registered")
		span.SetStatus(codes.Error, "Email taken")
		return nil, types.NewDomainError(types.ErrConflict, "SGR-002",
			"This user has already been registered, try with any other emailId")
	} else if !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Email lookup failed")
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	salt, hash, err := s.encoder.Encode(password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password encoding failed")
		return nil, fmt.Errorf("error encoding password: %w", err)
	}
	user.UUID = uuid.NewString()
	user.Salt = salt
	user.Password = hash

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, err
	}

	l.InfoContext(ctx, "User registered successfully", slog.String("userUUID", created.UUID))
	span.SetStatus(codes.Ok, "User registered")
	return created, nil
}

// SignIn verifies the credentials and opens a new bearer-token session with
// a recorded ten-hour validity window.
func (s *AuthServiceImpl) SignIn(ctx context.Context, username, password string) (*types.AuthSession, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "SignIn", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SignIn"), slog.String("username", username))
	s.metrics.SigninAttemptsTotal.Add(ctx, 1)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Unknown username")
			span.SetStatus(codes.Error, "Unknown username")
			return nil, types.NewDomainError(types.ErrUnauthenticated, "ATH-001",
				"This username does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !s.encoder.Verify(password, user.Salt, user.Password) {
		l.WarnContext(ctx, "Password mismatch")
		span.SetStatus(codes.Error, "Password failed")
		return nil, types.NewDomainError(types.ErrUnauthenticated, "ATH-002", "Password failed")
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	token, err := s.issuer.Issue(user.UUID, now, expiresAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	session := &types.AuthSession{
		UUID:        uuid.NewString(),
		User:        user,
		AccessToken: token,
		LoginAt:     now,
		ExpiresAt:   expiresAt,
	}
	created, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist session")
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	l.InfoContext(ctx, "User signed in successfully", slog.String("userUUID", user.UUID))
	span.SetStatus(codes.Ok, "Signed in")
	return created, nil
}

// SignOut resolves the session by token directly, not through the guard: a
// signed-out session must still be found so the caller gets a well-formed
// response rather than a not-signed-in failure. Only an unknown token fails.
func (s *AuthServiceImpl) SignOut(ctx context.Context, accessToken string) (*types.AuthSession, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "SignOut")
	defer span.End()

	l := s.logger.With(slog.String("method", "SignOut"))

	session, err := s.repo.GetSessionByToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Sign-out with unknown token")
			span.SetStatus(codes.Error, "Not signed in")
			return nil, types.NewDomainError(types.ErrUnauthenticated, "SGR-001", "User is not Signed in")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		return nil, fmt.Errorf("error fetching session: %w", err)
	}

	now := time.Now()
	if err := s.repo.SetSessionLogout(ctx, accessToken, now); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record logout")
		return nil, fmt.Errorf("error recording logout: %w", err)
	}
	session.LogoutAt = &now
	s.cache.Delete(accessToken)

	l.InfoContext(ctx, "User signed out", slog.String("userUUID", session.User.UUID))
	span.SetStatus(codes.Ok, "Signed out")
	return session, nil
}

// CheckAuthorization implements the Guard precondition: the token must
// resolve to a session and that session must not be logged out. The expiry
// timestamp is recorded on the session but deliberately not compared here;
// only an explicit sign-out invalidates a token.
func (s *AuthServiceImpl) CheckAuthorization(ctx context.Context, accessToken, signedOutMessage string) (*types.AuthSession, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "CheckAuthorization")
	defer span.End()

	s.metrics.GuardChecksTotal.Add(ctx, 1)

	if cached, ok := s.cache.Get(accessToken); ok {
		session := cached.(*types.AuthSession)
		if session.Active() {
			span.SetStatus(codes.Ok, "Authorized (cached)")
			return session, nil
		}
	}

	session, err := s.repo.GetSessionByToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			s.metrics.GuardRejectionsTotal.Add(ctx, 1)
			span.SetStatus(codes.Error, "Not signed in")
			return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-001", "User has not signed in")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		return nil, fmt.Errorf("error fetching session: %w", err)
	}

	if !session.Active() {
		s.metrics.GuardRejectionsTotal.Add(ctx, 1)
		span.SetStatus(codes.Error, "Signed out")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-002", signedOutMessage)
	}

	s.cache.SetDefault(accessToken, session)
	span.SetStatus(codes.Ok, "Authorized")
	return session, nil
}

// EvictSessions drops every cached session. Used when a user is deleted and
// the individual tokens cannot be enumerated from the cache.
func (s *AuthServiceImpl) EvictSessions() {
	s.cache.Flush()
}

// GetUserDetails returns any user's profile to any authenticated caller;
// profiles carry no ownership restriction.
func (s *AuthServiceImpl) GetUserDetails(ctx context.Context, userUUID, accessToken string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUserDetails", trace.WithAttributes(
		attribute.String("user.uuid", userUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetUserDetails"), slog.String("userUUID", userUUID))

	if _, err := s.CheckAuthorization(ctx, accessToken,
		"User is signed out.Sign in first to get user details"); err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	user, err := s.repo.GetUserByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Target user not found")
			span.SetStatus(codes.Error, "User not found")
			return nil, types.NewDomainError(types.ErrNotFound, "USR-001",
				"User with entered uuid does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error fetching user details: %w", err)
	}

	span.SetStatus(codes.Ok, "User details fetched")
	return user, nil
}
