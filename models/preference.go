package models

import "time"

// ChannelToggles holds the per-event switches for each channel.
type ChannelToggles struct {
	Email bool `bson:"email" json:"email"`
	SMS   bool `bson:"sms" json:"sms"`
	Push  bool `bson:"push" json:"push"`
}

// Enabled reads the toggle for one channel.
func (t ChannelToggles) Enabled(ch NotificationChannel) bool {
	switch ch {
	case ChannelEmail:
		return t.Email
	case ChannelSMS:
		return t.SMS
	case ChannelPush:
		return t.Push
	}
	return false
}

// Set writes the toggle for one channel.
func (t *ChannelToggles) Set(ch NotificationChannel, enabled bool) {
	switch ch {
	case ChannelEmail:
		t.Email = enabled
	case ChannelSMS:
		t.SMS = enabled
	case ChannelPush:
		t.Push = enabled
	}
}

// NotificationPreference is one user's channel/event matrix.
//
// Invariant: an event-channel toggle is only effectively on when the global
// toggle for that channel is also on. EffectiveEnabled is the single reader
// of the matrix, so the invariant holds mechanically.
type NotificationPreference struct {
	UserID       string                       `bson:"user_id" json:"user_id"`
	EmailEnabled bool                         `bson:"email_enabled" json:"email_enabled"`
	SMSEnabled   bool                         `bson:"sms_enabled" json:"sms_enabled"`
	PushEnabled  bool                         `bson:"push_enabled" json:"push_enabled"`
	Events       map[EventType]ChannelToggles `bson:"events" json:"events"`
	UpdatedAt    time.Time                    `bson:"updated_at" json:"updated_at"`
}

// GlobalEnabled reads the global toggle for one channel.
func (p *NotificationPreference) GlobalEnabled(ch NotificationChannel) bool {
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSMS:
		return p.SMSEnabled
	case ChannelPush:
		return p.PushEnabled
	}
	return false
}

// EffectiveEnabled reports whether dispatching event over ch passes both the
// global and the event-specific toggle.
func (p *NotificationPreference) EffectiveEnabled(event EventType, ch NotificationChannel) bool {
	if !p.GlobalEnabled(ch) {
		return false
	}
	toggles, ok := p.Events[event]
	if !ok {
		return false
	}
	return toggles.Enabled(ch)
}

// DefaultPreference returns the matrix a new user starts with: every channel
// and every event on.
func DefaultPreference(userID string) *NotificationPreference {
	events := make(map[EventType]ChannelToggles)
	for _, evt := range []EventType{
		EventBookingApproved, EventBookingDeclined, EventBookingCompleted,
		EventBookingCancelled, EventPaymentConfirmed, EventPaymentFailed,
		EventRefundProcessed, EventRefundFailed,
	} {
		events[evt] = ChannelToggles{Email: true, SMS: true, Push: true}
	}
	return &NotificationPreference{
		UserID:       userID,
		EmailEnabled: true,
		SMSEnabled:   true,
		PushEnabled:  true,
		Events:       events,
		UpdatedAt:    time.Now(),
	}
}
