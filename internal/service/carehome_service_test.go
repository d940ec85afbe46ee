package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/events"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

func newCareHomeService(t *testing.T) (*CareHomeService, *events.Bus) {
	t.Helper()
	logger := zap.NewNop()
	users := repository.NewMemoryServiceUsersRepository()
	careHomes := repository.NewMemoryCareHomesRepository(users)
	bus := events.NewBus(logger)
	return NewCareHomeService(careHomes, users, bus, logger), bus
}

func TestCreateCareHome_ValidatesPostcode(t *testing.T) {
	svc, _ := newCareHomeService(t)
	ctx := context.Background()

	_, err := svc.CreateCareHome(ctx, &domain.CareHome{Name: "Rosewood House", Postcode: "not-a-postcode"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postcode")

	_, err = svc.CreateCareHome(ctx, &domain.CareHome{Name: "", Postcode: "SW1A 1AA"})
	assert.Error(t, err)

	// Lowercase input is normalized, not rejected.
	home := &domain.CareHome{Name: "Rosewood House", Postcode: "sw1a 1aa"}
	_, err = svc.CreateCareHome(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", home.Postcode)
}

func TestUpdateCareHome_PublishesEvent(t *testing.T) {
	svc, bus := newCareHomeService(t)
	ctx := context.Background()

	var updatedIDs []string
	bus.SubscribeCareHomeUpdated(func(_ context.Context, event events.CareHomeUpdated) error {
		updatedIDs = append(updatedIDs, event.CareHomeID)
		return nil
	})

	careHomeID, err := svc.CreateCareHome(ctx, &domain.CareHome{Name: "Rosewood House", Postcode: "SW1A 1AA"})
	require.NoError(t, err)

	// Creation alone does not fire the update event.
	assert.Empty(t, updatedIDs)

	home, err := svc.GetCareHome(ctx, careHomeID)
	require.NoError(t, err)
	home.Details = "Dementia specialist unit"
	require.NoError(t, svc.UpdateCareHome(ctx, careHomeID, home))

	require.Len(t, updatedIDs, 1)
	assert.Equal(t, careHomeID, updatedIDs[0])
}

func TestSetShiftWindow_DerivesTwelveHourEnd(t *testing.T) {
	svc, bus := newCareHomeService(t)
	ctx := context.Background()

	fired := 0
	bus.SubscribeCareHomeUpdated(func(_ context.Context, _ events.CareHomeUpdated) error {
		fired++
		return nil
	})

	careHomeID, err := svc.CreateCareHome(ctx, &domain.CareHome{Name: "Rosewood House", Postcode: "SW1A 1AA"})
	require.NoError(t, err)

	start := time.Date(0, 1, 1, 7, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetShiftWindow(ctx, careHomeID, domain.ShiftMorning, start))

	home, err := svc.GetCareHome(ctx, careHomeID)
	require.NoError(t, err)
	assert.Equal(t, "07:00-19:00", home.ShiftWindow(domain.ShiftMorning))
	assert.Equal(t, "Not set", home.ShiftWindow(domain.ShiftNight))
	assert.Equal(t, 1, fired)
}

func TestSetShiftWindow_InvalidShift(t *testing.T) {
	svc, _ := newCareHomeService(t)

	err := svc.SetShiftWindow(context.Background(), "any", domain.Shift("afternoon"), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shift")
}

func TestCreateServiceUser_Validation(t *testing.T) {
	svc, _ := newCareHomeService(t)
	ctx := context.Background()

	careHomeID, err := svc.CreateCareHome(ctx, &domain.CareHome{Name: "Rosewood House", Postcode: "SW1A 1AA"})
	require.NoError(t, err)

	_, err = svc.CreateServiceUser(ctx, &domain.ServiceUser{CareHomeID: careHomeID, FirstName: "June"})
	assert.Error(t, err)

	serviceUserID, err := svc.CreateServiceUser(ctx, &domain.ServiceUser{
		CareHomeID: careHomeID,
		FirstName:  "June",
		LastName:   "Baker",
	})
	require.NoError(t, err)

	user, err := svc.GetServiceUser(ctx, serviceUserID)
	require.NoError(t, err)
	assert.Equal(t, "June Baker (JB)", user.FormattedName())
}

func TestDeleteCareHome_CascadesServiceUsers(t *testing.T) {
	svc, _ := newCareHomeService(t)
	ctx := context.Background()

	careHomeID, err := svc.CreateCareHome(ctx, &domain.CareHome{Name: "Rosewood House", Postcode: "SW1A 1AA"})
	require.NoError(t, err)
	serviceUserID, err := svc.CreateServiceUser(ctx, &domain.ServiceUser{
		CareHomeID: careHomeID,
		FirstName:  "June",
		LastName:   "Baker",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCareHome(ctx, careHomeID))

	_, err = svc.GetServiceUser(ctx, serviceUserID)
	assert.Error(t, err)
}
