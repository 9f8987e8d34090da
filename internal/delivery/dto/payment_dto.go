package dto

// Request DTOs

type CreatePaymentOrderRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid"`
}

type VerifyPaymentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// Response DTOs

type PaymentOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
