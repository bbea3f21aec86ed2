package notification

import (
	"context"

	"go-taskhub/internal/features/watchlist"
	"go-taskhub/internal/metrics"
	"go-taskhub/internal/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier is the fan-out entry point the task, team and chat services
// trigger. Dispatch is best effort: it never returns an error and never
// panics into the caller, so a fan-out failure cannot fail or roll back the
// domain action that triggered it.
type Notifier interface {
	Dispatch(ctx context.Context, ev Event)
}

// ListResult is one page (or one unpaged watched view) of notifications.
type ListResult struct {
	Items   []Notification
	Total   int64
	Page    int64
	HasMore bool
	// Paged is false for watched views, which are returned as a single
	// unpaged list.
	Paged bool
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, caller, target primitive.ObjectID, category string, page, limit int64) (*ListResult, error)
	MarkRead(ctx context.Context, id string, caller primitive.ObjectID) error
	MarkUnread(ctx context.Context, id string, caller primitive.ObjectID) error
	MarkAllRead(ctx context.Context, caller primitive.ObjectID) error
	UnreadCount(ctx context.Context, caller primitive.ObjectID) (int64, error)
}

type NotificationServiceImpl struct {
	repo    NotificationRepository
	dir     UserDirectory
	views   watchlist.WatchlistService
	bus     realtime.Bus
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewNotificationService(
	repo NotificationRepository,
	dir UserDirectory,
	views watchlist.WatchlistService,
	bus realtime.Bus,
	log *zap.Logger,
	m *metrics.Metrics,
) NotificationService {
	return &NotificationServiceImpl{
		repo:    repo,
		dir:     dir,
		views:   views,
		bus:     bus,
		log:     log,
		metrics: m,
	}
}

func (s *NotificationServiceImpl) Dispatch(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.FanoutFailures.Inc()
			s.log.Error("notification fan-out panicked", zap.Any("panic", r))
		}
	}()

	drafts, err := ev.drafts(ctx, s.dir)
	if err != nil {
		s.metrics.FanoutFailures.Inc()
		s.log.Error("notification fan-out failed to resolve recipients", zap.Error(err))
		return
	}
	if len(drafts) == 0 {
		return
	}

	inserted, err := s.repo.InsertMany(ctx, drafts)
	if err != nil {
		s.metrics.FanoutFailures.Inc()
		s.log.Error("notification fan-out failed to persist", zap.Error(err))
		return
	}

	// Push after persistence: a client may receive a live event only for a
	// notification that already exists in the store.
	for _, n := range inserted {
		s.metrics.NotificationsFanned.WithLabelValues(string(n.Category)).Inc()
		s.bus.Publish(realtime.PersonalRoom(n.Recipient.Hex()), realtime.EventNotificationNew, n)
	}
}

func (s *NotificationServiceImpl) List(ctx context.Context, caller, target primitive.ObjectID, category string, page, limit int64) (*ListResult, error) {
	if target.IsZero() || target == caller {
		items, total, err := s.repo.FindPage(ctx, caller, category, page, limit)
		if err != nil {
			return nil, err
		}
		return &ListResult{
			Items:   items,
			Total:   total,
			Page:    page,
			HasMore: total > (page-1)*limit+int64(len(items)),
			Paged:   true,
		}, nil
	}

	decision, err := s.views.CanView(ctx, caller, target, category)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, ErrPermissionDenied
	}
	if decision.Empty {
		return &ListResult{Items: []Notification{}}, nil
	}

	items, err := s.repo.FindByCategories(ctx, target, decision.Filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items}, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, caller primitive.ObjectID) error {
	return s.setRead(ctx, id, caller, true)
}

func (s *NotificationServiceImpl) MarkUnread(ctx context.Context, id string, caller primitive.ObjectID) error {
	return s.setRead(ctx, id, caller, false)
}

func (s *NotificationServiceImpl) setRead(ctx context.Context, id string, caller primitive.ObjectID, read bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.SetRead(ctx, objID, caller, read)
}

// MarkAllRead is always scoped to the caller, never to a watched user.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, caller primitive.ObjectID) error {
	return s.repo.MarkAllRead(ctx, caller)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, caller primitive.ObjectID) (int64, error) {
	return s.repo.UnreadCount(ctx, caller)
}
