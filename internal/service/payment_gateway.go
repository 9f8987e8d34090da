package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"
)

// Gateway order statuses
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

var ErrMalformedGatewayResponse = errors.New("malformed payment gateway response")

type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (o *PaymentOrder) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// PaymentGateway creates orders and reports their status. Amounts are in minor units.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*PaymentOrder, error)
}

type razorpayGateway struct {
	client *razorpay.Client
	log    *logrus.Logger
}

func NewRazorpayGateway(keyID, keySecret string, log *logrus.Logger) PaymentGateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		log:    log,
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error) {
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		g.log.Warnf("Failed to create payment order for receipt %s: %+v", receipt, err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	return orderFromGateway(body)
}

func (g *razorpayGateway) FetchOrder(ctx context.Context, orderID string) (*PaymentOrder, error) {
	body, err := g.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		g.log.Warnf("Failed to fetch payment order %s: %+v", orderID, err)
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	return orderFromGateway(body)
}

func orderFromGateway(body map[string]interface{}) (*PaymentOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, ErrMalformedGatewayResponse
	}

	order := &PaymentOrder{ID: id}
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)

	switch amount := body["amount"].(type) {
	case float64:
		order.Amount = int64(amount)
	case int64:
		order.Amount = amount
	case int:
		order.Amount = int64(amount)
	}

	return order, nil
}
