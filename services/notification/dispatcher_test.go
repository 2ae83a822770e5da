package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medibook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memNotificationRepo struct {
	mu    sync.Mutex
	items map[string]*models.Notification
	order []string
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{items: make(map[string]*models.Notification)}
}

func (m *memNotificationRepo) Insert(n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *n
	m.items[n.ID] = &copied
	m.order = append(m.order, n.ID)
	return nil
}

func (m *memNotificationRepo) GetByID(id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return nil, errors.New("notification not found")
	}
	copied := *n
	return &copied, nil
}

func (m *memNotificationRepo) UpdateDeliveryStatus(id string, status models.DeliveryStatus, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return errors.New("notification not found")
	}
	n.Status = status
	n.LastError = lastError
	if status == models.DeliveryDelivered {
		now := time.Now()
		n.DeliveredAt = &now
	}
	return nil
}

func (m *memNotificationRepo) List(filter models.NotificationFilter) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, id := range m.order {
		n := m.items[id]
		if n.UserID != filter.UserID {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (m *memNotificationRepo) CountUnread(userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationRepo) MarkAsRead(userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.items[id]; ok && n.UserID == userID {
		n.Read = true
	}
	return nil
}

func (m *memNotificationRepo) MarkAllAsRead(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

type memPrefRepo struct {
	mu    sync.Mutex
	prefs map[string]*models.NotificationPreference
}

func newMemPrefRepo() *memPrefRepo {
	return &memPrefRepo{prefs: make(map[string]*models.NotificationPreference)}
}

func (m *memPrefRepo) Get(userID string) (*models.NotificationPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pref, ok := m.prefs[userID]; ok {
		return pref, nil
	}
	return models.DefaultPreference(userID), nil
}

func (m *memPrefRepo) Save(pref *models.NotificationPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[pref.UserID] = pref
	return nil
}

type stubSender struct {
	mu   sync.Mutex
	err  error
	sent []string // notification IDs
}

func (s *stubSender) Send(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n.ID)
	return nil
}

func newDispatcher() (*DefaultDispatcherService, *memNotificationRepo, *memPrefRepo, map[models.NotificationChannel]*stubSender) {
	repo := newMemNotificationRepo()
	prefRepo := newMemPrefRepo()
	stubs := map[models.NotificationChannel]*stubSender{
		models.ChannelEmail: {},
		models.ChannelSMS:   {},
		models.ChannelPush:  {},
	}
	senders := make(map[models.NotificationChannel]ChannelSender, len(stubs))
	for ch, s := range stubs {
		senders[ch] = s
	}
	svc := NewDispatcherService(repo, prefRepo, senders, nil, zap.NewNop())
	return svc, repo, prefRepo, stubs
}

func approvedEvent(userID string) models.BookingEvent {
	return models.BookingEvent{
		Type:       models.EventBookingApproved,
		BookingID:  "bk-1",
		UserID:     userID,
		Data:       map[string]string{"resource_name": "MRI Scanner"},
		OccurredAt: time.Now(),
	}
}

func TestPublish_FansOutToAllEnabledChannels(t *testing.T) {
	svc, repo, _, stubs := newDispatcher()

	svc.Publish(context.Background(), approvedEvent("patient-1"))

	list, err := repo.List(models.NotificationFilter{UserID: "patient-1"})
	require.NoError(t, err)
	require.Len(t, list, 3)

	channels := make([]models.NotificationChannel, 0, 3)
	for _, n := range list {
		channels = append(channels, n.Channel)
		assert.Equal(t, models.DeliveryDelivered, n.Status)
		assert.Equal(t, "Booking approved", n.Title)
		assert.Contains(t, n.Body, "MRI Scanner")
		assert.False(t, n.Read)
	}
	assert.ElementsMatch(t, models.AllChannels, channels)

	for ch, stub := range stubs {
		assert.Len(t, stub.sent, 1, "channel %s", ch)
	}
}

func TestDispatch_SkipsChannelsDisabledForEvent(t *testing.T) {
	svc, repo, _, stubs := newDispatcher()

	prefs := models.DefaultPreference("patient-1")
	toggles := prefs.Events[models.EventBookingApproved]
	toggles.SMS = false
	prefs.Events[models.EventBookingApproved] = toggles

	created := svc.Dispatch(context.Background(), approvedEvent("patient-1"), prefs)
	assert.Len(t, created, 2)

	list, err := repo.List(models.NotificationFilter{UserID: "patient-1"})
	require.NoError(t, err)
	for _, n := range list {
		assert.NotEqual(t, models.ChannelSMS, n.Channel)
	}
	assert.Empty(t, stubs[models.ChannelSMS].sent)
}

func TestDispatch_GlobalOffOverridesEventToggle(t *testing.T) {
	svc, _, _, stubs := newDispatcher()

	// Event toggle stays on but the global switch is off.
	prefs := models.DefaultPreference("patient-1")
	prefs.PushEnabled = false

	created := svc.Dispatch(context.Background(), approvedEvent("patient-1"), prefs)
	assert.Len(t, created, 2)
	assert.Empty(t, stubs[models.ChannelPush].sent)
}

func TestDispatch_FailedDeliveryStaysFailed(t *testing.T) {
	svc, repo, _, stubs := newDispatcher()
	stubs[models.ChannelEmail].err = errors.New("smtp unreachable")

	prefs := models.DefaultPreference("patient-1")
	created := svc.Dispatch(context.Background(), approvedEvent("patient-1"), prefs)
	require.Len(t, created, 3)

	var failed int
	list, err := repo.List(models.NotificationFilter{UserID: "patient-1"})
	require.NoError(t, err)
	for _, n := range list {
		if n.Channel == models.ChannelEmail {
			failed++
			assert.Equal(t, models.DeliveryFailed, n.Status)
			assert.Equal(t, "smtp unreachable", n.LastError)
		} else {
			assert.Equal(t, models.DeliveryDelivered, n.Status)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestDeliver_SkipsAlreadyAttempted(t *testing.T) {
	svc, repo, _, stubs := newDispatcher()

	prefs := models.DefaultPreference("patient-1")
	created := svc.Dispatch(context.Background(), approvedEvent("patient-1"), prefs)
	require.NotEmpty(t, created)

	sentBefore := len(stubs[created[0].Channel].sent)
	require.NoError(t, svc.Deliver(context.Background(), created[0].ID))
	assert.Equal(t, sentBefore, len(stubs[created[0].Channel].sent))

	n, err := repo.GetByID(created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDelivered, n.Status)
}

func TestToggleGlobalChannel_OffCascadesEventToggles(t *testing.T) {
	svc, _, _, _ := newDispatcher()
	ctx := context.Background()

	pref, err := svc.ToggleGlobalChannel(ctx, "patient-1", models.ChannelEmail, false)
	require.NoError(t, err)

	assert.False(t, pref.EmailEnabled)
	for event, toggles := range pref.Events {
		assert.False(t, toggles.Email, "event %s", event)
		// Other channels untouched.
		assert.True(t, toggles.SMS, "event %s", event)
		assert.True(t, toggles.Push, "event %s", event)
	}

	// Reads through the repo see the cascaded matrix immediately.
	stored, err := svc.GetPreferences(ctx, "patient-1")
	require.NoError(t, err)
	assert.False(t, stored.EffectiveEnabled(models.EventBookingApproved, models.ChannelEmail))
}

func TestToggleGlobalChannel_ReEnableRestoresNothing(t *testing.T) {
	svc, _, _, _ := newDispatcher()
	ctx := context.Background()

	_, err := svc.ToggleGlobalChannel(ctx, "patient-1", models.ChannelEmail, false)
	require.NoError(t, err)

	pref, err := svc.ToggleGlobalChannel(ctx, "patient-1", models.ChannelEmail, true)
	require.NoError(t, err)

	assert.True(t, pref.EmailEnabled)
	for event, toggles := range pref.Events {
		assert.False(t, toggles.Email, "event %s", event)
	}
	assert.False(t, pref.EffectiveEnabled(models.EventBookingApproved, models.ChannelEmail))

	// Re-enabling one event toggle makes just that pair effective again.
	pref, err = svc.ToggleEventChannel(ctx, "patient-1", models.EventBookingApproved, models.ChannelEmail, true)
	require.NoError(t, err)
	assert.True(t, pref.EffectiveEnabled(models.EventBookingApproved, models.ChannelEmail))
	assert.False(t, pref.EffectiveEnabled(models.EventPaymentConfirmed, models.ChannelEmail))
}

func TestSavePreferences_AppliesCascadeBeforeWrite(t *testing.T) {
	svc, _, prefRepo, _ := newDispatcher()

	pref := models.DefaultPreference("patient-1")
	pref.SMSEnabled = false // event toggles left on

	require.NoError(t, svc.SavePreferences(context.Background(), pref))

	stored, err := prefRepo.Get("patient-1")
	require.NoError(t, err)
	for event, toggles := range stored.Events {
		assert.False(t, toggles.SMS, "event %s", event)
	}
}

func TestUnreadCountAndMarkAllAsRead(t *testing.T) {
	svc, _, _, _ := newDispatcher()
	ctx := context.Background()

	svc.Publish(ctx, approvedEvent("patient-1"))

	count, err := svc.GetUnreadCount(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkAllAsRead(ctx, "patient-1"))
	count, err = svc.GetUnreadCount(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Idempotent on an already-empty unread set.
	require.NoError(t, svc.MarkAllAsRead(ctx, "patient-1"))
	count, err = svc.GetUnreadCount(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAsRead_IsIdempotent(t *testing.T) {
	svc, _, _, _ := newDispatcher()
	ctx := context.Background()

	svc.Publish(ctx, approvedEvent("patient-1"))
	list, err := svc.GetUserNotifications(ctx, models.NotificationFilter{UserID: "patient-1"})
	require.NoError(t, err)
	require.NotEmpty(t, list)

	require.NoError(t, svc.MarkAsRead(ctx, "patient-1", list[0].ID))
	require.NoError(t, svc.MarkAsRead(ctx, "patient-1", list[0].ID))

	count, err := svc.GetUnreadCount(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGetHistory_IncludesReadNotifications(t *testing.T) {
	svc, _, _, _ := newDispatcher()
	ctx := context.Background()

	svc.Publish(ctx, approvedEvent("patient-1"))
	require.NoError(t, svc.MarkAllAsRead(ctx, "patient-1"))

	history, err := svc.GetHistory(ctx, models.NotificationFilter{UserID: "patient-1", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, "high", priorityFor(models.EventPaymentFailed))
	assert.Equal(t, "high", priorityFor(models.EventRefundFailed))
	assert.Equal(t, "high", priorityFor(models.EventBookingDeclined))
	assert.Equal(t, "normal", priorityFor(models.EventBookingApproved))
	assert.Equal(t, "normal", priorityFor(models.EventPaymentConfirmed))
}
