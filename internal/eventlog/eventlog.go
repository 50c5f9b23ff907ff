// Package eventlog mirrors change events onto a RabbitMQ queue for offline
// archiving (see cmd/event_worker). It is an audit trail, not a client fanout
// path; failures are logged and never surfaced to the publishing mutation.
package eventlog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/notifier"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

type Publisher struct {
	Rabbit *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewPublisher(rabbit *helpers.RabbitPublisher, logger *logrus.Logger) *Publisher {
	return &Publisher{Rabbit: rabbit, Logger: logger}
}

// Mirror publishes evt to the archive queue, best-effort. A nil receiver or
// nil underlying connection disables mirroring entirely.
func (p *Publisher) Mirror(ctx context.Context, evt notifier.Event) {
	if p == nil || p.Rabbit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Rabbit.PublishJSON(ctx, evt); err != nil && p.Logger != nil {
		p.Logger.WithError(err).WithField("action", evt.Action).Warn("event archive publish failed")
	}
}
