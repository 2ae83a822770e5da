// File: services/notification/preferences.go
package notification

import (
	"context"

	"medibook/models"
)

// GetPreferences returns the user's channel/event matrix.
func (s *DefaultDispatcherService) GetPreferences(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	return s.PrefRepo.Get(userID)
}

// SavePreferences stores a whole matrix. The global-off cascade is applied
// before writing so the stored matrix always honors the invariant.
func (s *DefaultDispatcherService) SavePreferences(ctx context.Context, pref *models.NotificationPreference) error {
	for _, ch := range models.AllChannels {
		if !pref.GlobalEnabled(ch) {
			cascadeOff(pref, ch)
		}
	}
	return s.PrefRepo.Save(pref)
}

// ToggleGlobalChannel flips the global switch for one channel. Turning a
// channel off cascades every event toggle under it to off in the same write.
// Turning it back on restores nothing: each event toggle must be re-enabled
// individually.
func (s *DefaultDispatcherService) ToggleGlobalChannel(ctx context.Context, userID string, ch models.NotificationChannel, enabled bool) (*models.NotificationPreference, error) {
	pref, err := s.PrefRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	switch ch {
	case models.ChannelEmail:
		pref.EmailEnabled = enabled
	case models.ChannelSMS:
		pref.SMSEnabled = enabled
	case models.ChannelPush:
		pref.PushEnabled = enabled
	}
	if !enabled {
		cascadeOff(pref, ch)
	}

	if err := s.PrefRepo.Save(pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// ToggleEventChannel flips one event-channel toggle. The stored toggle is
// independent of the global switch; effectiveness is decided at dispatch time.
func (s *DefaultDispatcherService) ToggleEventChannel(ctx context.Context, userID string, event models.EventType, ch models.NotificationChannel, enabled bool) (*models.NotificationPreference, error) {
	pref, err := s.PrefRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	toggles := pref.Events[event]
	toggles.Set(ch, enabled)
	pref.Events[event] = toggles

	if err := s.PrefRepo.Save(pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// cascadeOff sets every event toggle under ch to off. Other channels are untouched.
func cascadeOff(pref *models.NotificationPreference, ch models.NotificationChannel) {
	for event, toggles := range pref.Events {
		toggles.Set(ch, false)
		pref.Events[event] = toggles
	}
}
