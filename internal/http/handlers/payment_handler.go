// README: Payment handler: charges a booking through the mock gateway.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/modules/payment"
	"rankgo/internal/types"
)

type PaymentHandler struct {
	payments *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

type processPaymentReq struct {
	BookingID  string `json:"booking_id"`
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

func (h *PaymentHandler) Process(c *gin.Context) {
	var req processPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.payments.Process(c.Request.Context(), payment.ProcessCommand{
		BookingID:  types.ID(req.BookingID),
		Method:     req.Method,
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"transaction_id": t.ID,
		"booking_id":     t.BookingID,
		"amount_cents":   t.Amount.Amount,
		"method":         t.Method,
		"status":         t.Status,
		"reference":      t.Reference,
	})
}
