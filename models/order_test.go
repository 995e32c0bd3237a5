package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/apperr"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		StatusConfirmed:      {StatusPacked, StatusCancelled},
		StatusPacked:         {StatusOutForDelivery, StatusCancelled},
		StatusOutForDelivery: {StatusDelivered, StatusCancelled},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}
	all := []OrderStatus{StatusConfirmed, StatusPacked, StatusOutForDelivery, StatusDelivered, StatusCancelled}

	for from, nexts := range allowed {
		legal := map[OrderStatus]bool{}
		for _, n := range nexts {
			legal[n] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, legal[to], got, "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusNoSkipsOrReverses(t *testing.T) {
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusOutForDelivery))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusPacked.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
}

func TestOrderStatusSelfTransitionRejected(t *testing.T) {
	for _, s := range []OrderStatus{StatusConfirmed, StatusPacked, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		assert.False(t, s.CanTransitionTo(s), "%s -> %s must not be a no-op", s, s)
		err := ValidateTransition(s, s)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidTransition(err))
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := ValidateTransition(StatusConfirmed, OrderStatus("shipped"))
	require.Error(t, err)
	assert.False(t, apperr.IsInvalidTransition(err))
	assert.Equal(t, 400, apperr.StatusCode(err))
}

func TestValidateTransitionIllegalEdgeStatusCode(t *testing.T) {
	err := ValidateTransition(StatusDelivered, StatusCancelled)
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidTransition(err))
	assert.Equal(t, 409, apperr.StatusCode(err))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusPacked.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodValid("cod"))
	assert.True(t, PaymentMethodValid("online"))
	assert.False(t, PaymentMethodValid("card"))
	assert.False(t, PaymentMethodValid(""))
}

func TestComputeOrderStats(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	today := now.Add(-2 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)

	orders := []Order{
		{Status: StatusConfirmed, Total: 100, CreatedAt: today},
		{Status: StatusCancelled, Total: 200, CreatedAt: today},
		{Status: StatusDelivered, Total: 50, CreatedAt: yesterday},
		{Status: StatusPacked, Total: 75, CreatedAt: yesterday},
		{Status: StatusOutForDelivery, Total: 60, CreatedAt: yesterday},
	}

	stats := ComputeOrderStats(orders, now)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 1, stats.Delivered)
	assert.Equal(t, 1, stats.Cancelled)
	// only the 100 order is from today and not cancelled
	assert.Equal(t, 100.0, stats.TodaysRevenue)
}

func TestComputeOrderStatsEmpty(t *testing.T) {
	stats := ComputeOrderStats(nil, time.Now())
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.TodaysRevenue)
}
