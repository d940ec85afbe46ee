// Package events is the in-process domain event bus. The persistence
// layer publishes after its write commits; subscribers run synchronously
// on the publishing goroutine. Subscriber errors are logged and never
// propagate to the publisher, so the triggering write cannot be failed
// by bookkeeping.
package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

// SummaryCreated fires after a new shift summary is persisted.
// Creation only; summary updates do not fire it.
type SummaryCreated struct {
	SummaryID     string
	CareHomeID    string
	ServiceUserID string
	StaffID       string
	Date          time.Time
	Shift         domain.Shift
}

// CareHomeUpdated fires after an existing care home is updated.
// Creation does not fire it.
type CareHomeUpdated struct {
	CareHomeID string
}

// SummaryCreatedHandler reacts to a SummaryCreated event.
type SummaryCreatedHandler func(ctx context.Context, event SummaryCreated) error

// CareHomeUpdatedHandler reacts to a CareHomeUpdated event.
type CareHomeUpdatedHandler func(ctx context.Context, event CareHomeUpdated) error

// Bus dispatches domain events to subscribers.
type Bus struct {
	logger *zap.Logger

	mu               sync.RWMutex
	onSummaryCreated []SummaryCreatedHandler
	onCareHomeUpdate []CareHomeUpdatedHandler
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{logger: logger}
}

// SubscribeSummaryCreated registers a handler for SummaryCreated.
func (b *Bus) SubscribeSummaryCreated(h SummaryCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSummaryCreated = append(b.onSummaryCreated, h)
}

// SubscribeCareHomeUpdated registers a handler for CareHomeUpdated.
func (b *Bus) SubscribeCareHomeUpdated(h CareHomeUpdatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onCareHomeUpdate = append(b.onCareHomeUpdate, h)
}

// PublishSummaryCreated runs every SummaryCreated handler. Handler
// errors are logged and swallowed.
func (b *Bus) PublishSummaryCreated(ctx context.Context, event SummaryCreated) {
	b.mu.RLock()
	handlers := b.onSummaryCreated
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			b.logger.Error("summary-created handler failed",
				zap.String("summary_id", event.SummaryID),
				zap.String("carehome_id", event.CareHomeID),
				zap.String("service_user_id", event.ServiceUserID),
				zap.String("shift", string(event.Shift)),
				zap.Error(err),
			)
		}
	}
}

// PublishCareHomeUpdated runs every CareHomeUpdated handler. Handler
// errors are logged and swallowed.
func (b *Bus) PublishCareHomeUpdated(ctx context.Context, event CareHomeUpdated) {
	b.mu.RLock()
	handlers := b.onCareHomeUpdate
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			b.logger.Error("carehome-updated handler failed",
				zap.String("carehome_id", event.CareHomeID),
				zap.Error(err),
			)
		}
	}
}
