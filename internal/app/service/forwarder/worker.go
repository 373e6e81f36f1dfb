package forwarder

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DishIs/temp-mail-sub000/internal/models"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
)

// Worker periodically drains the dead-letter table. It runs in-process; on a
// multi-instance deployment every instance polls, and the update-after-push
// races are tolerable because the backend treats events as idempotent
// state-sets.
type Worker struct {
	db     *gorm.DB
	pusher Pusher
	cfg    *config.Config
	log    *zap.SugaredLogger

	stop chan struct{}
	done chan struct{}
}

func NewWorker(db *gorm.DB, pusher Pusher, cfg *config.Config, log *zap.SugaredLogger) *Worker {
	return &Worker{db: db, pusher: pusher, cfg: cfg, log: log, stop: make(chan struct{}), done: make(chan struct{})}
}

func (w *Worker) interval() time.Duration {
	secs := w.cfg.Forwarder.RetryIntervalSeconds
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

func (w *Worker) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.ProcessDue(context.Background(), time.Now())
		}
	}
}

// dueConditions builds the scan predicate: undelivered, due, and with retry
// budget left. Exhausted rows must not occupy scan slots or they starve
// retryable ones.
func dueConditions(now time.Time, maxAttempts int) (string, []any) {
	cond := "delivered_at IS NULL AND next_attempt_at <= ?"
	args := []any{now}
	if maxAttempts > 0 {
		cond += " AND attempts < ?"
		args = append(args, maxAttempts)
	}
	return cond, args
}

// ProcessDue retries every undelivered dead-letter row whose next attempt is
// due. Exported for tests.
func (w *Worker) ProcessDue(ctx context.Context, now time.Time) {
	cond, args := dueConditions(now, w.cfg.Forwarder.MaxAttempts)
	var rows []*models.DeadLetterEvent
	err := w.db.WithContext(ctx).
		Where(cond, args...).
		Order("next_attempt_at asc").
		Limit(100).
		Find(&rows).Error
	if err != nil {
		w.log.Errorw("dead_letter_scan_failed", "error", err.Error())
		return
	}

	for _, row := range rows {
		ev := row.Event.Data()
		if err := w.pusher.PushSubscriptionEvent(ctx, ev); err != nil {
			row.Attempts++
			row.LastError = err.Error()
			row.NextAttemptAt = now.Add(NextBackoff(w.interval(), row.Attempts))
			if row.Exhausted(w.cfg.Forwarder.MaxAttempts) {
				w.log.Errorw("dead_letter_retries_exhausted", "id", row.ID, "attempts", row.Attempts)
			}
			if dbErr := w.db.WithContext(ctx).Save(row).Error; dbErr != nil {
				w.log.Errorw("dead_letter_update_failed", "id", row.ID, "error", dbErr.Error())
			}
			continue
		}
		delivered := now
		row.DeliveredAt = &delivered
		if dbErr := w.db.WithContext(ctx).Save(row).Error; dbErr != nil {
			w.log.Errorw("dead_letter_update_failed", "id", row.ID, "error", dbErr.Error())
		}
		w.log.Infow("dead_letter_delivered", "id", row.ID, "attempts", row.Attempts)
	}
}

func runWorker(lc fx.Lifecycle, w *Worker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go w.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(w.stop)
			select {
			case <-w.done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
