package services

import (
	"context"
	"testing"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShippingService(t *testing.T, fees ...*models.ShippingFee) (*ShippingService, *fakeShippingRepo) {
	t.Helper()
	repo := newFakeShippingRepo()
	for _, fee := range fees {
		require.NoError(t, repo.Create(context.Background(), fee))
	}
	return NewShippingService(repo), repo
}

func TestFeeForExplicitCity(t *testing.T) {
	svc, _ := newShippingService(t,
		&models.ShippingFee{City: "Hanoi", Fee: 20000, IsActive: true},
		&models.ShippingFee{City: FallbackCity, Fee: 35000, IsActive: true},
	)

	fee, err := svc.FeeFor(context.Background(), "Hanoi", 100000)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, fee)
}

func TestFeeForUnknownCityUsesFallback(t *testing.T) {
	svc, _ := newShippingService(t,
		&models.ShippingFee{City: "Hanoi", Fee: 20000, IsActive: true},
		&models.ShippingFee{City: FallbackCity, Fee: 35000, IsActive: true},
	)

	fee, err := svc.FeeFor(context.Background(), "Dalat", 100000)
	require.NoError(t, err)
	assert.Equal(t, 35000.0, fee)
}

func TestFeeForNoFallbackRowMeansFree(t *testing.T) {
	svc, _ := newShippingService(t,
		&models.ShippingFee{City: "Hanoi", Fee: 20000, IsActive: true},
	)

	fee, err := svc.FeeFor(context.Background(), "Dalat", 100000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)
}

func TestFeeForFreeShipThreshold(t *testing.T) {
	svc, _ := newShippingService(t,
		&models.ShippingFee{City: "Hanoi", Fee: 20000, FreeShipOver: 500000, IsActive: true},
	)

	fee, err := svc.FeeFor(context.Background(), "Hanoi", 499999)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, fee)

	fee, err = svc.FeeFor(context.Background(), "Hanoi", 500000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)
}

func TestFeeForIgnoresInactiveRows(t *testing.T) {
	svc, _ := newShippingService(t,
		&models.ShippingFee{City: "Hanoi", Fee: 20000, IsActive: false},
		&models.ShippingFee{City: FallbackCity, Fee: 35000, IsActive: true},
	)

	fee, err := svc.FeeFor(context.Background(), "Hanoi", 100000)
	require.NoError(t, err)
	assert.Equal(t, 35000.0, fee)
}

func TestUpdateFeeTogglesActive(t *testing.T) {
	row := &models.ShippingFee{City: "Hanoi", Fee: 20000, IsActive: true}
	svc, _ := newShippingService(t, row)

	inactive := false
	updated, err := svc.UpdateFee(context.Background(), row.ID.String(), &UpdateShippingFeeRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	fee, err := svc.FeeFor(context.Background(), "Hanoi", 100000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)
}
