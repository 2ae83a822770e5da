package notification

import (
	"context"
	"fmt"

	"medibook/models"
	"medibook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// TokenLookup resolves the FCM device token for a user.
type TokenLookup func(ctx context.Context, userID string) (string, error)

// FCMPushSender sends push notifications through Firebase Cloud Messaging.
type FCMPushSender struct {
	Tokens TokenLookup
	Logger *zap.Logger
}

func NewFCMPushSender(tokens TokenLookup, logger *zap.Logger) *FCMPushSender {
	return &FCMPushSender{Tokens: tokens, Logger: logger}
}

func (s *FCMPushSender) Send(ctx context.Context, n *models.Notification) error {
	token, err := s.Tokens(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("push: could not resolve token for user %s: %w", n.UserID, err)
	}
	if token == "" {
		return fmt.Errorf("push: user %s has no FCM token", n.UserID)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
	}
	if n.Priority == "high" {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		}
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		}
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("push: failed to send FCM message: %w", err)
	}
	s.Logger.Debug("push delivered", zap.String("notificationId", n.ID), zap.String("fcmResponse", response))
	return nil
}

// AddressLookup resolves the email address or phone number for a user.
type AddressLookup func(ctx context.Context, userID string) (string, error)

// EmailSender resolves the recipient address and logs the outgoing message.
// Deployments with a mail provider supply a provider-backed ChannelSender in
// its place.
type EmailSender struct {
	Addresses AddressLookup
	Logger    *zap.Logger
}

func NewEmailSender(addresses AddressLookup, logger *zap.Logger) *EmailSender {
	return &EmailSender{Addresses: addresses, Logger: logger}
}

func (s *EmailSender) Send(ctx context.Context, n *models.Notification) error {
	addr, err := s.Addresses(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("email: could not resolve address for user %s: %w", n.UserID, err)
	}
	s.Logger.Sugar().Infof("Sending email to %s: %s / %s", addr, n.Title, n.Body)
	return nil
}

// SMSSender resolves the recipient number and logs the outgoing message.
// Deployments with an SMS provider supply a provider-backed ChannelSender in
// its place.
type SMSSender struct {
	Numbers AddressLookup
	Logger  *zap.Logger
}

func NewSMSSender(numbers AddressLookup, logger *zap.Logger) *SMSSender {
	return &SMSSender{Numbers: numbers, Logger: logger}
}

func (s *SMSSender) Send(ctx context.Context, n *models.Notification) error {
	number, err := s.Numbers(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("sms: could not resolve number for user %s: %w", n.UserID, err)
	}
	s.Logger.Sugar().Infof("Sending SMS to %s: %s", number, n.Body)
	return nil
}
