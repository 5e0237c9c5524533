package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Credit packs sold through both gateways. Prices are in the smallest
// currency unit.
const (
	PackStarter = "starter"
	PackCreator = "creator"
	PackStudio  = "studio"

	CreditsStarter = 50
	CreditsCreator = 200
	CreditsStudio  = 500
)

// ErrInvalidSignature maps to 401 at the API layer.
var ErrInvalidSignature = errors.New("payment signature is not valid")

func packCredits(packID string) (float64, bool) {
	switch packID {
	case PackStarter:
		return CreditsStarter, true
	case PackCreator:
		return CreditsCreator, true
	case PackStudio:
		return CreditsStudio, true
	default:
		return 0, false
	}
}

type PaymentService interface {
	// HandleStripeWebhook verifies the signature, deduplicates the
	// event, and credits the purchased pack.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	// VerifyRazorpayPayment checks the checkout signature and credits
	// the purchased pack.
	VerifyRazorpayPayment(ctx context.Context, userID int64, v *transfer.RazorpayVerification) error
}

type paymentService struct {
	cfg config.Config
	pe  repository.PaymentEventRepository
	cs  CreditService
}

func NewPaymentService(cfg config.Config, pe repository.PaymentEventRepository, cs CreditService) PaymentService {
	return &paymentService{
		cfg: cfg,
		pe:  pe,
		cs:  cs,
	}
}

func (s *paymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.Payments.StripeWebhookSecret)
	if err != nil {
		slog.Info(err.Error())
		return ErrInvalidSignature
	}

	exists, err := s.pe.Exists(ctx, "stripe", event.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if event.Type == "checkout.session.completed" {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}

		userID, err := strconv.ParseInt(session.Metadata["user_id"], 10, 64)
		if err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("checkout session has no valid user_id")
		}

		packID := session.Metadata["pack_id"]
		credits, ok := packCredits(packID)
		if !ok {
			err := fmt.Errorf("unknown credit pack: %s", packID)
			slog.Info(err.Error())
			return err
		}

		if _, err := s.cs.Apply(ctx, userID, transfer.CreditAction{
			Action:      models.TransactionPurchase,
			UserID:      userID,
			Amount:      credits,
			Description: fmt.Sprintf("Purchased %s pack", packID),
			ReferenceID: session.ID,
		}); err != nil {
			return err
		}
	}

	_, err = s.pe.Create(ctx, &models.PaymentEvent{
		Gateway:   "stripe",
		EventID:   event.ID,
		EventType: string(event.Type),
		Payload:   string(payload),
	})
	if err != nil {
		slog.Info(err.Error())
	}

	return nil
}

func (s *paymentService) VerifyRazorpayPayment(ctx context.Context, userID int64, v *transfer.RazorpayVerification) error {
	if v == nil || v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		err := errors.New("payment verification data is incomplete")
		slog.Info(err.Error())
		return err
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.Payments.RazorpayKeySecret))
	mac.Write([]byte(v.OrderID + "|" + v.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v.Signature)) {
		slog.Info(ErrInvalidSignature.Error())
		return ErrInvalidSignature
	}

	exists, err := s.pe.Exists(ctx, "razorpay", v.PaymentID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	credits, ok := packCredits(v.PackID)
	if !ok {
		err := fmt.Errorf("unknown credit pack: %s", v.PackID)
		slog.Info(err.Error())
		return err
	}

	if _, err := s.cs.Apply(ctx, userID, transfer.CreditAction{
		Action:      models.TransactionPurchase,
		UserID:      userID,
		Amount:      credits,
		Description: fmt.Sprintf("Purchased %s pack", v.PackID),
		ReferenceID: v.PaymentID,
	}); err != nil {
		return err
	}

	_, err = s.pe.Create(ctx, &models.PaymentEvent{
		Gateway:   "razorpay",
		EventID:   v.PaymentID,
		EventType: "payment.captured",
	})
	if err != nil {
		slog.Info(err.Error())
	}

	return nil
}
