package controllers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/models"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 30, 0, time.UTC)
	n := newOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^FM202601021504\d{4}$`), n)
}

func TestNewOrderNumberIsRandomized(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[newOrderNumber(now)] = struct{}{}
	}
	// 50 draws from 10000 suffixes should essentially never all collide
	assert.Greater(t, len(seen), 1)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func checkoutProduct(name string, price, original float64, stock int) *models.Product {
	return &models.Product{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Price:         price,
		OriginalPrice: original,
		Stock:         stock,
		IsInStock:     true,
		IsActive:      true,
	}
}

func TestBuildOrderItems(t *testing.T) {
	milk := checkoutProduct("Milk", 30, 35, 10)
	rice := checkoutProduct("Rice", 80, 80, 4)
	products := map[primitive.ObjectID]*models.Product{milk.ID: milk, rice.ID: rice}

	items, err := buildOrderItems([]models.CartItem{
		{ProductID: milk.ID, Quantity: 2},
		{ProductID: rice.ID, Quantity: 4},
	}, products)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 35.0, items[0].OriginalPrice)
}

func TestBuildOrderItemsRejectsBeforeAnyReservation(t *testing.T) {
	// one short line fails the whole checkout, so nothing is decremented
	milk := checkoutProduct("Milk", 30, 35, 10)
	rice := checkoutProduct("Rice", 80, 80, 3)
	products := map[primitive.ObjectID]*models.Product{milk.ID: milk, rice.ID: rice}

	items, err := buildOrderItems([]models.CartItem{
		{ProductID: milk.ID, Quantity: 2},
		{ProductID: rice.ID, Quantity: 4},
	}, products)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Equal(t, http.StatusPreconditionFailed, apperr.StatusCode(err))
	assert.Contains(t, err.Error(), "Rice")
}

func TestBuildOrderItemsInactiveProduct(t *testing.T) {
	soap := checkoutProduct("Soap", 25, 25, 5)
	soap.IsActive = false
	products := map[primitive.ObjectID]*models.Product{soap.ID: soap}

	_, err := buildOrderItems([]models.CartItem{{ProductID: soap.ID, Quantity: 1}}, products)
	require.Error(t, err)
	assert.Equal(t, http.StatusPreconditionFailed, apperr.StatusCode(err))
}

func TestBuildOrderItemsMissingProduct(t *testing.T) {
	_, err := buildOrderItems([]models.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 1}},
		map[primitive.ObjectID]*models.Product{})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
}

func TestOrderTotals(t *testing.T) {
	subtotal, discount, fee := orderTotals([]models.OrderItem{
		{Price: 30, OriginalPrice: 35, Quantity: 2},
		{Price: 80, Quantity: 1},
	})
	assert.Equal(t, 140.0, subtotal)
	assert.Equal(t, 10.0, discount)
	assert.Equal(t, deliveryFee, fee)
}

func TestOrderTotalsFreeDelivery(t *testing.T) {
	subtotal, _, fee := orderTotals([]models.OrderItem{{Price: 250, Quantity: 2}})
	assert.Equal(t, 500.0, subtotal)
	assert.Zero(t, fee)
}
