// File: services/notification/poller.go
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller re-reads a user's unread count on a fixed interval and pushes the
// value to its callback (e.g., a badge over a websocket). One poller runs per
// signed-in session; cancelling its context tears it down. The interval is
// the documented latency bound for the badge, about 30s in production.
type Poller struct {
	UserID   string
	Interval time.Duration
	Service  DispatcherService
	OnCount  func(count int64)
	Logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(userID string, interval time.Duration, svc DispatcherService, onCount func(int64), logger *zap.Logger) *Poller {
	return &Poller{
		UserID:   userID,
		Interval: interval,
		Service:  svc,
		OnCount:  onCount,
		Logger:   logger,
	}
}

// Start launches the polling loop in the background.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()

		p.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				p.Logger.Debug("notification poller stopped", zap.String("userId", p.UserID))
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. Safe to call on sign-out
// and again on shutdown.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

func (p *Poller) poll(ctx context.Context) {
	count, err := p.Service.GetUnreadCount(ctx, p.UserID)
	if err != nil {
		p.Logger.Warn("unread poll failed", zap.String("userId", p.UserID), zap.Error(err))
		return
	}
	if p.OnCount != nil {
		p.OnCount(count)
	}
}
