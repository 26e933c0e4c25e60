package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus(t *testing.T) {
	for _, s := range BookingStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, BookingStatus("DONE").Valid())

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())

	st, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)
	_, err = ParseBookingStatus("nope")
	assert.Error(t, err)
}

func TestCanUserCancel(t *testing.T) {
	assert.NoError(t, CanUserCancel(StatusPending))
	for _, s := range []BookingStatus{StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.ErrorIs(t, CanUserCancel(s), ErrOnlyPendingCancel, s)
	}
}

func TestBeforeCreateDefaults(t *testing.T) {
	u := &User{}
	require.NoError(t, u.BeforeCreate(nil))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, RoleUser, u.Role)

	b := &Booking{}
	require.NoError(t, b.BeforeCreate(nil))
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
}
