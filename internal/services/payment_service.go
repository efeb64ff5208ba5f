package services

import (
	"errors"

	"github.com/google/uuid"

	"shopfront/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// PaymentService is a stand-in for a real gateway: it authorizes every
// well-formed charge and issues a traceable transaction id.
type PaymentService struct{}

func NewPaymentService() *PaymentService { return &PaymentService{} }

type Authorization struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func (s *PaymentService) Authorize(amount int64) (Authorization, error) {
	if amount <= 0 {
		return Authorization{}, ErrInvalidAmount
	}
	metrics.PaymentsAuthorized.Inc()
	return Authorization{
		Status:        "authorized",
		TransactionID: "dummy-" + uuid.NewString(),
	}, nil
}
