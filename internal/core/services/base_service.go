package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/bizcore/internal/adapters/notify"
	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/SscSPs/bizcore/internal/platform/idgen"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Registry *registry.Registry
	Clock    clock.Clock
	IDs      portssvc.IDGenerator
	Notifier portssvc.Notifier

	// used to resolve manager rights; nil means only owners and admins may manage
	employees portsrepo.EmployeeReader
	positions portsrepo.PositionReader
	admins    map[string]struct{}
}

// ServiceOption is a functional option shared by every service constructor.
type ServiceOption func(*BaseService)

// WithClock overrides the wall clock.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		s.Clock = c
	}
}

// WithIDGenerator overrides the entity id generator.
func WithIDGenerator(ids portssvc.IDGenerator) ServiceOption {
	return func(s *BaseService) {
		s.IDs = ids
	}
}

// WithNotifier sets the channel used to message players.
func WithNotifier(n portssvc.Notifier) ServiceOption {
	return func(s *BaseService) {
		s.Notifier = n
	}
}

// WithAdmins lists the player ids allowed to act on any business.
func WithAdmins(playerIDs ...string) ServiceOption {
	return func(s *BaseService) {
		for _, id := range playerIDs {
			if id = strings.TrimSpace(id); id != "" {
				s.admins[id] = struct{}{}
			}
		}
	}
}

// WithStaffReaders enables manager checks backed by the employee and position stores.
func WithStaffReaders(employees portsrepo.EmployeeReader, positions portsrepo.PositionReader) ServiceOption {
	return func(s *BaseService) {
		s.employees = employees
		s.positions = positions
	}
}

var (
	defaultIDsOnce sync.Once
	defaultIDGen   portssvc.IDGenerator
)

// defaultIDs shares one snowflake node between services built without WithIDGenerator.
func defaultIDs() portssvc.IDGenerator {
	defaultIDsOnce.Do(func() {
		ids, err := idgen.NewSnowflake(1)
		if err != nil {
			panic(err)
		}
		defaultIDGen = ids
	})
	return defaultIDGen
}

func newBaseService(reg *registry.Registry, options []ServiceOption) BaseService {
	base := BaseService{
		Registry: reg,
		admins:   make(map[string]struct{}),
	}
	for _, option := range options {
		option(&base)
	}
	if base.Clock == nil {
		base.Clock = clock.Real()
	}
	if base.IDs == nil {
		base.IDs = defaultIDs()
	}
	if base.Notifier == nil {
		base.Notifier = notify.NewLogNotifier(nil)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// IsAdmin reports whether actorID is a configured administrator.
func (s *BaseService) IsAdmin(actorID string) bool {
	_, ok := s.admins[actorID]
	return ok
}

// RequireOwner allows the business owner and administrators.
func (s *BaseService) RequireOwner(ctx context.Context, b domain.Business, actorID string) error {
	if b.IsOwnedBy(actorID) || s.IsAdmin(actorID) {
		return nil
	}
	s.LogWarn(ctx, "Actor is not the business owner",
		slog.Int64("business_id", b.ID),
		slog.String("actor_id", actorID))
	return fmt.Errorf("%w: %s does not own business %d", apperrors.ErrForbidden, actorID, b.ID)
}

// IsManager reports whether actorID holds an active manager position at the business.
func (s *BaseService) IsManager(ctx context.Context, businessID int64, actorID string) (bool, error) {
	if s.employees == nil || s.positions == nil || actorID == "" {
		return false, nil
	}
	emp, err := s.employees.FindActiveEmployee(ctx, businessID, actorID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, storeErr(err, "find employment of %s at business %d", actorID, businessID)
	}
	pos, err := s.positions.FindPositionByID(ctx, emp.PositionID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, storeErr(err, "find position %d", emp.PositionID)
	}
	return pos.IsManager && pos.IsActive, nil
}

// RequireManager allows the owner, administrators and holders of a manager position.
func (s *BaseService) RequireManager(ctx context.Context, b domain.Business, actorID string) error {
	if b.IsOwnedBy(actorID) || s.IsAdmin(actorID) {
		return nil
	}
	ok, err := s.IsManager(ctx, b.ID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		s.LogWarn(ctx, "Actor may not manage business",
			slog.Int64("business_id", b.ID),
			slog.String("actor_id", actorID))
		return fmt.Errorf("%w: %s may not manage business %d", apperrors.ErrForbidden, actorID, b.ID)
	}
	return nil
}

// notify sends a best-effort message; notifier failures never surface.
func (s *BaseService) notify(ctx context.Context, actorID, format string, args ...any) {
	if actorID == "" {
		return
	}
	s.Notifier.Notify(ctx, actorID, fmt.Sprintf(format, args...))
}
