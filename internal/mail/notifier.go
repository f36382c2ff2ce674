package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"

	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
)

const sendTimeout = 30 * time.Second

// Notifier delivers mails in the background. Callers never wait for, or
// learn about, the outcome of a send.
type Notifier struct {
	service Service
	logger  *slog.Logger
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
}

func NewNotifier(service Service, maxInFlight int64, logger *slog.Logger) *Notifier {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Notifier{
		service: service,
		logger:  logger,
		sem:     semaphore.NewWeighted(maxInFlight),
	}
}

// Notify schedules a send and returns the id it is logged under.
func (n *Notifier) Notify(subject, message string) uuid.UUID {
	id := uuid.New()
	l := n.logger.With(slog.String("notification_id", id.String()))

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.sem.Acquire(ctx, 1); err != nil {
			l.WarnContext(ctx, "Dropped notification", slog.Any("error", err))
			n.record(ctx, "failed")
			return
		}
		defer n.sem.Release(1)

		if err := n.service.Send(ctx, subject, message); err != nil {
			l.ErrorContext(ctx, "Failed to send notification", slog.String("subject", subject), slog.Any("error", err))
			n.record(ctx, "failed")
			return
		}
		n.record(ctx, "sent")
	}()
	return id
}

// Wait blocks until every scheduled send has finished or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) record(ctx context.Context, outcome string) {
	m := metrics.Get()
	opt := metric.WithAttributes(attribute.String("outcome", outcome))
	if outcome == "sent" {
		m.NotificationsSentTotal.Add(ctx, 1, opt)
		return
	}
	m.NotificationsFailedTotal.Add(ctx, 1, opt)
}
