package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
)

func TestBus_DispatchesInOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var order []string
	bus.SubscribeSummaryCreated(func(_ context.Context, _ SummaryCreated) error {
		order = append(order, "first")
		return nil
	})
	bus.SubscribeSummaryCreated(func(_ context.Context, _ SummaryCreated) error {
		order = append(order, "second")
		return nil
	})

	bus.PublishSummaryCreated(context.Background(), SummaryCreated{
		SummaryID:  "s-1",
		CareHomeID: "h-1",
		Date:       time.Now(),
		Shift:      domain.ShiftMorning,
	})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	reached := false
	bus.SubscribeCareHomeUpdated(func(_ context.Context, _ CareHomeUpdated) error {
		return errors.New("handler failed")
	})
	bus.SubscribeCareHomeUpdated(func(_ context.Context, _ CareHomeUpdated) error {
		reached = true
		return nil
	})

	bus.PublishCareHomeUpdated(context.Background(), CareHomeUpdated{CareHomeID: "h-1"})

	assert.True(t, reached)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	// Must not panic.
	bus.PublishSummaryCreated(context.Background(), SummaryCreated{SummaryID: "s-1"})
	bus.PublishCareHomeUpdated(context.Background(), CareHomeUpdated{CareHomeID: "h-1"})
}
