// Package notify gates user-facing notifications behind a daily cap and
// quiet hours.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Service writes notifications through a NotificationStore when policy
// allows it.
//   - At most MaxPerDay notifications per calendar day
//   - None between QuietStart and QuietEnd (wrapping midnight)
type Service struct {
	store  domain.NotificationStore
	policy domain.NotificationPolicy
}

// NewService creates a notification service with the default policy.
func NewService(store domain.NotificationStore) *Service {
	return &Service{store: store, policy: domain.DefaultNotificationPolicy()}
}

// NewServiceWithPolicy creates a notification service with a custom policy.
func NewServiceWithPolicy(store domain.NotificationStore, policy domain.NotificationPolicy) *Service {
	return &Service{store: store, policy: policy}
}

// Create stores n stamped at now if policy allows it. It returns the new id,
// or 0 when the notification was suppressed.
func (s *Service) Create(ctx context.Context, n domain.Notification, now time.Time) (int64, error) {
	if s.IsQuietHour(now) {
		return 0, nil
	}
	count, err := s.store.NotificationCountOn(ctx, domain.DateOf(now))
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	if count >= s.policy.MaxPerDay {
		return 0, nil
	}

	n.CreatedAt = now
	n.Shown = false
	id, err := s.store.InsertNotification(ctx, n)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Pending returns unshown notifications, oldest first.
func (s *Service) Pending(ctx context.Context, limit int) ([]domain.Notification, error) {
	return s.store.ListPendingNotifications(ctx, limit)
}

// MarkShown marks a notification as shown.
func (s *Service) MarkShown(ctx context.Context, id int64) error {
	return s.store.MarkNotificationShown(ctx, id)
}

// Policy returns the active policy.
func (s *Service) Policy() domain.NotificationPolicy {
	return s.policy
}

// IsQuietHour reports whether t falls inside quiet hours.
func (s *Service) IsQuietHour(t time.Time) bool {
	start, err := ParseClock(s.policy.QuietStart)
	if err != nil {
		return false
	}
	end, err := ParseClock(s.policy.QuietEnd)
	if err != nil {
		return false
	}
	now := t.Hour()*60 + t.Minute()

	if start > end {
		// Wraps midnight: e.g., 22:00 – 08:00
		return now >= start || now < end
	}
	return now >= start && now < end
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: clock %q must be HH:MM", domain.ErrInvalidInput, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: clock %q has a bad hour", domain.ErrInvalidInput, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: clock %q has a bad minute", domain.ErrInvalidInput, s)
	}
	return h*60 + m, nil
}

// ValidatePolicy checks the clock fields and cap of p.
func ValidatePolicy(p domain.NotificationPolicy) error {
	if p.MaxPerDay < 0 {
		return fmt.Errorf("%w: max_per_day must not be negative", domain.ErrInvalidInput)
	}
	if _, err := ParseClock(p.QuietStart); err != nil {
		return err
	}
	_, err := ParseClock(p.QuietEnd)
	return err
}
