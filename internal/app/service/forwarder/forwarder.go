package forwarder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DishIs/temp-mail-sub000/internal/models"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/logctx"
	"github.com/DishIs/temp-mail-sub000/pkg/tool"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// Pusher is the slice of the backend user-service client the forwarder needs.
type Pusher interface {
	PushSubscriptionEvent(ctx context.Context, ev *types.SubscriptionEvent) error
}

// EventForwarder hands normalized events to the backend user-service. A
// failed forward is dead-lettered; the caller still answers 200 to the
// provider, so the dead-letter row is the only durable trace of the event.
type EventForwarder interface {
	Forward(ctx context.Context, ev *types.SubscriptionEvent) error
}

type Service struct {
	pusher Pusher
	db     *gorm.DB
	cfg    *config.Config
	log    *zap.SugaredLogger
}

func NewService(pusher Pusher, db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{pusher: pusher, db: db, cfg: cfg, log: log}
}

func (s *Service) Forward(ctx context.Context, ev *types.SubscriptionEvent) error {
	if ev == nil {
		return fmt.Errorf("nil event")
	}

	if err := s.pusher.PushSubscriptionEvent(ctx, ev); err != nil {
		s.enqueueDeadLetter(ctx, ev, err)
		return fmt.Errorf("forward to user-service failed: %w", err)
	}
	return nil
}

func (s *Service) enqueueDeadLetter(ctx context.Context, ev *types.SubscriptionEvent, cause error) {
	row := &models.DeadLetterEvent{
		ID:            tool.GenerateUUIDV7(),
		Provider:      string(ev.Provider),
		Event:         datatypes.NewJSONType(ev),
		LastError:     cause.Error(),
		Attempts:      1,
		NextAttemptAt: time.Now().Add(s.retryInterval()),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		// Worst case: the event exists only in the webhook event log now.
		logctx.FromCtx(ctx, s.log).Errorw("dead_letter_enqueue_failed",
			"provider", ev.Provider, "event_type", ev.EventType, "error", err.Error())
		return
	}
	logctx.FromCtx(ctx, s.log).Warnw("event_dead_lettered",
		"id", row.ID, "provider", ev.Provider, "event_type", ev.EventType)
}

func (s *Service) retryInterval() time.Duration {
	secs := s.cfg.Forwarder.RetryIntervalSeconds
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

// NextBackoff doubles the retry interval per attempt, capped at one hour.
func NextBackoff(base time.Duration, attempts int) time.Duration {
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= time.Hour {
			return time.Hour
		}
	}
	if d > time.Hour {
		d = time.Hour
	}
	return d
}
