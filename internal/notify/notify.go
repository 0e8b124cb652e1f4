// Package notify holds the notification and real-time event collaborators.
// Both are best-effort: the Dispatcher logs their failures as transient
// dependency errors and never returns them to the caller.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/DhavalSuthar-24/rally/pkg/apperrors"
)

// Notification types.
const (
	TypeGameInvite     = "game_invite"
	TypeGameDisputed   = "game_disputed"
	TypeMatchFound     = "match_found"
	TypeWaitlistOffer  = "waitlist_offer"
	TypeWaitlistExpiry = "waitlist_offer_expired"
)

// Real-time event names.
const (
	EventScoreUpdated = "game.score_updated"
	EventGameEnded    = "game.ended"
	EventVerified     = "game.verified"
	EventDisputed     = "game.disputed"
	EventPlayerJoined = "game.player_joined"
	EventMatchFound   = "pairing.match_found"
	EventSpotOffered  = "waitlist.spot_offered"
)

// Notifier stores a user-facing notification.
type Notifier interface {
	Create(ctx context.Context, userID uint, kind, title, message string, data map[string]interface{}) error
}

// Publisher pushes a real-time event. No delivery or ordering guarantee.
type Publisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Dispatcher fans out notifications and events, swallowing failures.
type Dispatcher struct {
	notifier  Notifier
	publisher Publisher
	log       *logrus.Entry
}

// NewDispatcher creates a Dispatcher. Nil collaborators are replaced with
// no-ops.
func NewDispatcher(n Notifier, p Publisher, log *logrus.Entry) *Dispatcher {
	if n == nil {
		n = Nop{}
	}
	if p == nil {
		p = Nop{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{notifier: n, publisher: p, log: log}
}

// Notify creates a notification for each user.
func (d *Dispatcher) Notify(ctx context.Context, userIDs []uint, kind, title, message string, data map[string]interface{}) {
	for _, uid := range userIDs {
		if err := d.notifier.Create(ctx, uid, kind, title, message, data); err != nil {
			err = apperrors.Transient(err, "notify user %d", uid)
			d.log.WithError(err).WithFields(logrus.Fields{
				"user_id": uid,
				"type":    kind,
			}).Warn("notification failed")
		}
	}
}

// Emit publishes one event.
func (d *Dispatcher) Emit(ctx context.Context, event string, payload interface{}) {
	if err := d.publisher.Publish(ctx, event, payload); err != nil {
		err = apperrors.Transient(err, "publish %s", event)
		d.log.WithError(err).WithField("event", event).Warn("event publish failed")
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Create(context.Context, uint, string, string, string, map[string]interface{}) error {
	return nil
}

func (Nop) Publish(context.Context, string, interface{}) error {
	return nil
}
