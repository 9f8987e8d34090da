package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFromGateway(t *testing.T) {
	// the gateway client decodes JSON numbers as float64
	order, err := orderFromGateway(map[string]interface{}{
		"id":       "order_9A33XWu170gUtm",
		"amount":   float64(4999),
		"currency": "INR",
		"receipt":  "0f8fad5b-d9cb-469f-a165-70867728950e",
		"status":   "paid",
	})

	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", order.ID)
	assert.EqualValues(t, 4999, order.Amount)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", order.Receipt)
	assert.True(t, order.IsPaid())
}

func TestOrderFromGateway_Unpaid(t *testing.T) {
	order, err := orderFromGateway(map[string]interface{}{"id": "order_1", "status": OrderStatusAttempted})

	require.NoError(t, err)
	assert.False(t, order.IsPaid())
	assert.Zero(t, order.Amount)
}

func TestOrderFromGateway_MissingID(t *testing.T) {
	_, err := orderFromGateway(map[string]interface{}{"error": map[string]interface{}{"code": "BAD_REQUEST_ERROR"}})
	assert.ErrorIs(t, err, ErrMalformedGatewayResponse)
}
