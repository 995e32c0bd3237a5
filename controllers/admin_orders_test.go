package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/models"
)

func TestFilterOrdersByStatus(t *testing.T) {
	orders := []models.Order{
		{OrderNumber: "FM1", Status: models.StatusConfirmed},
		{OrderNumber: "FM2", Status: models.StatusDelivered},
		{OrderNumber: "FM3", Status: models.StatusConfirmed},
	}

	filtered := filterOrdersByStatus(orders, string(models.StatusConfirmed))
	require.Len(t, filtered, 2)
	assert.Equal(t, "FM1", filtered[0].OrderNumber)
	assert.Equal(t, "FM3", filtered[1].OrderNumber)

	assert.Empty(t, filterOrdersByStatus(orders, string(models.StatusCancelled)))
	// the source slice stays usable for the stats computed over it
	assert.Len(t, orders, 3)
}

func TestOrderStatsIgnoreStatusFilter(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		{Status: models.StatusConfirmed, Total: 100, CreatedAt: now},
		{Status: models.StatusDelivered, Total: 200, CreatedAt: now},
		{Status: models.StatusCancelled, Total: 50, CreatedAt: now},
	}

	// the dashboard tiles describe every order even when the table is
	// narrowed to one status
	stats := models.ComputeOrderStats(orders, now)
	filtered := filterOrdersByStatus(orders, string(models.StatusDelivered))
	require.Len(t, filtered, 1)

	narrowed := models.ComputeOrderStats(filtered, now)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 250.0, stats.TodaysRevenue)
	assert.NotEqual(t, narrowed.Total, stats.Total)
}
