package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-quora-api/internal/api/auth"
	"github.com/FACorreiaa/go-quora-api/internal/types"
)

var _ AdminService = (*AdminServiceImpl)(nil)

// AdminService holds the operations reserved for admin-role users.
type AdminService interface {
	DeleteUser(ctx context.Context, targetUUID, accessToken string) (*types.User, error)
}

// SessionEvictor drops cached sessions after a destructive account change.
// The deleted user's tokens cannot be enumerated from the cache, so the
// whole cache goes.
type SessionEvictor interface {
	EvictSessions()
}

type AdminServiceImpl struct {
	logger  *slog.Logger
	guard   auth.Guard
	repo    auth.AuthRepo
	evictor SessionEvictor
}

func NewAdminService(repo auth.AuthRepo, guard auth.Guard, evictor SessionEvictor, logger *slog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{
		logger:  logger,
		guard:   guard,
		repo:    repo,
		evictor: evictor,
	}
}

// DeleteUser removes the target account. Only admin-role callers pass; the
// store's foreign-key cascade takes the user's questions, answers and
// sessions along.
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, targetUUID, accessToken string) (*types.User, error) {
	ctx, span := otel.Tracer("AdminService").Start(ctx, "DeleteUser", trace.WithAttributes(
		attribute.String("user.uuid", targetUUID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteUser"), slog.String("targetUUID", targetUUID))

	session, err := s.guard.CheckAuthorization(ctx, accessToken, "User is signed out")
	if err != nil {
		span.SetStatus(codes.Error, "Authorization failed")
		return nil, err
	}

	if session.User.Role != types.RoleAdmin {
		l.WarnContext(ctx, "Delete denied, caller is not an admin",
			slog.String("callerUUID", session.User.UUID))
		span.SetStatus(codes.Error, "Not an admin")
		return nil, types.NewDomainError(types.ErrUnauthorized, "ATHR-003",
			"Unauthorized Access, Entered user is not an admin")
	}

	target, err := s.repo.GetUserByUUID(ctx, targetUUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Target user not found")
			span.SetStatus(codes.Error, "User not found")
			return nil, types.NewDomainError(types.ErrNotFound, "USR-001",
				"User with entered uuid to be deleted does not exist")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if err := s.repo.DeleteUser(ctx, targetUUID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "User not found")
			return nil, types.NewDomainError(types.ErrNotFound, "USR-001",
				"User with entered uuid to be deleted does not exist")
		}
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete user")
		return nil, err
	}
	s.evictor.EvictSessions()

	l.InfoContext(ctx, "User deleted", slog.String("deletedBy", session.User.UUID))
	span.SetStatus(codes.Ok, "User deleted")
	return target, nil
}
