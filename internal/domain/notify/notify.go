// Package notify defines player notifications and the delivery contract.
//
// Notifications are fire-and-forget: gameplay never blocks on delivery
// and a dropped notification is never an error surfaced to the player.
package notify

import (
	"context"
	"time"

	"github.com/okian/pixelarena/pkg/logger"
)

// Well-known notification kinds.
const (
	KindClassChangeUnlocked = "class_change_unlocked"
	KindLevelUp             = "level_up"
	KindItemSold            = "item_sold"
)

// Notification is one message destined for a player.
type Notification struct {
	// Key uniquely identifies the notification for duplicate suppression,
	// e.g. "class_change_unlocked:<playerID>".
	Key string

	PlayerID string
	Kind     string
	Message  string
	At       time.Time
}

// Sink delivers notifications to wherever players receive them.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogSink writes notifications to the structured log. It stands in for a
// push channel in deployments without one.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a sink backed by the given logger.
func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(ctx context.Context, n Notification) error {
	s.log.Info(ctx, "notification delivered",
		logger.String("player_id", n.PlayerID),
		logger.String("kind", n.Kind),
		logger.String("message", n.Message),
	)
	return nil
}
