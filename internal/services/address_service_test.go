package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddressEnv(t *testing.T) (*AddressService, uuid.UUID) {
	t.Helper()
	return NewAddressService(newFakeAddressRepo(), newFakeUserRepo()), uuid.New()
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	svc, userID := newAddressEnv(t)
	ctx := context.Background()

	first, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "1 Elm St",
		City:        "Hanoi",
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "2 Oak St",
		City:        "Da Nang",
	})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestExactlyOneDefaultAddress(t *testing.T) {
	svc, userID := newAddressEnv(t)
	ctx := context.Background()

	first, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "1 Elm St", City: "Hanoi",
	})
	require.NoError(t, err)

	second, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "2 Oak St", City: "Da Nang",
	})
	require.NoError(t, err)

	promoted, err := svc.SetDefaultAddress(ctx, userID.String(), second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	addresses, err := svc.GetAddresses(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, addresses, 2)

	defaults := 0
	for _, address := range addresses {
		if address.IsDefault {
			defaults++
			assert.Equal(t, second.ID, address.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	_ = first
}

func TestGetAddressesDefaultFirst(t *testing.T) {
	svc, userID := newAddressEnv(t)
	ctx := context.Background()

	_, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "1 Elm St", City: "Hanoi",
	})
	require.NoError(t, err)
	second, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "2 Oak St", City: "Da Nang",
	})
	require.NoError(t, err)

	_, err = svc.SetDefaultAddress(ctx, userID.String(), second.ID)
	require.NoError(t, err)

	addresses, err := svc.GetAddresses(ctx, userID.String())
	require.NoError(t, err)
	require.NotEmpty(t, addresses)
	assert.True(t, addresses[0].IsDefault)
	assert.Equal(t, second.ID, addresses[0].ID)
}

func TestAddressOwnershipEnforced(t *testing.T) {
	svc, userID := newAddressEnv(t)
	ctx := context.Background()

	address, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "1 Elm St", City: "Hanoi",
	})
	require.NoError(t, err)

	intruder := uuid.New().String()
	err = svc.DeleteAddress(ctx, intruder, address.ID)
	require.Error(t, err)

	_, err = svc.SetDefaultAddress(ctx, intruder, address.ID)
	require.Error(t, err)

	// Still intact for the owner.
	addresses, err := svc.GetAddresses(ctx, userID.String())
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}

func TestFullAddressRendering(t *testing.T) {
	svc, userID := newAddressEnv(t)
	ctx := context.Background()

	address, err := svc.CreateAddress(ctx, userID.String(), &CreateAddressRequest{
		AddressLine: "12 Ly Thuong Kiet",
		Ward:        "Phan Chu Trinh",
		District:    "Hoan Kiem",
		City:        "Hanoi",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Ly Thuong Kiet, Phan Chu Trinh, Hoan Kiem, Hanoi", address.FullAddress)
}
