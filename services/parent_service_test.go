package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/models"
	"HaloBackend/repositories/impl"
	"HaloBackend/repositories/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterParentStoresWholeBody(t *testing.T) {
	store := impl.NewMemoryStore(nil)
	parents := impl.NewParentRepository(store)
	svc := NewParentService(parents, impl.NewTelemetryRepository(store), quietLogger())
	ctx := context.Background()

	require.NoError(t, svc.RegisterParent(ctx, map[string]interface{}{"uid": "p1", "fcm_token": "tok", "name": "Mira"}))

	parent, err := parents.FindByUID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "tok", parent.FCMToken())
	assert.Equal(t, "Mira", parent.Meta["name"])
	assert.Equal(t, "p1", parent.Meta["uid"])
}

func TestRegisterParentRequiresUID(t *testing.T) {
	parents := new(mocks.ParentRepository)
	svc := NewParentService(parents, nil, quietLogger())

	for _, body := range []map[string]interface{}{{}, {"uid": ""}, {"uid": 42}} {
		err := svc.RegisterParent(context.Background(), body)
		assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
		assert.Equal(t, "uid required", apperrors.Message(err))
	}
	parents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFindChildLocation(t *testing.T) {
	store := impl.NewMemoryStore(nil)
	telemetry := impl.NewTelemetryRepository(store)
	svc := NewParentService(impl.NewParentRepository(store), telemetry, quietLogger())
	ctx := context.Background()

	_, err := svc.FindChildLocation(ctx, "c1")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, _ = telemetry.AddLocation(ctx, models.LocationSample{UID: "c1", Lat: 1, Lng: 2, Timestamp: ts})
	_, _ = telemetry.AddLocation(ctx, models.LocationSample{UID: "c1", Lat: 12.9, Lng: 77.6, Timestamp: ts.Add(time.Minute)})

	loc, err := svc.FindChildLocation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 12.9, loc.Lat)
	assert.Equal(t, 77.6, loc.Lng)
}

func TestFindChildLocationStoreFailure(t *testing.T) {
	telemetry := new(mocks.TelemetryRepository)
	telemetry.On("LatestLocation", mock.Anything, "c1").Return(models.LocationSample{}, errors.New("timeout"))
	svc := NewParentService(nil, telemetry, quietLogger())

	_, err := svc.FindChildLocation(context.Background(), "c1")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
