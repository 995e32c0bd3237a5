package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Quantity: 2, Price: 40, OriginalPrice: 50},
		{Quantity: 1, Price: 120},
		{Quantity: 3, Price: 10, OriginalPrice: 10},
	}}

	assert.Equal(t, 230.0, cart.Subtotal())
	// only the first line is discounted: (50-40)*2
	assert.Equal(t, 20.0, cart.Savings())
}

func TestEmptyCartTotals(t *testing.T) {
	cart := Cart{}
	assert.Zero(t, cart.Subtotal())
	assert.Zero(t, cart.Savings())
}

func TestUserStatus(t *testing.T) {
	assert.True(t, UserSuspended.BlocksLogin())
	assert.True(t, UserInactive.BlocksLogin())
	assert.False(t, UserActive.BlocksLogin())
	assert.False(t, UserPending.BlocksLogin())

	assert.True(t, UserActive.Valid())
	assert.False(t, UserStatus("banned").Valid())
}
