package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const stripeBaseURL = "https://api.stripe.com"

type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

type stripeGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeGateway(secretKey string) Gateway {
	if secretKey == "" {
		logger.L().Warn("Stripe secret key is empty")
	}

	return &stripeGateway{
		secretKey: secretKey,
		baseURL:   stripeBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentIntent asks Stripe for a PaymentIntent of amount minor units
// with automatic payment methods enabled.
func (s *stripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)

	if s.secretKey == "" {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("Stripe request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e stripeErrorBody
		_ = json.Unmarshal(body, &e)
		gwErr := &GatewayError{
			StatusCode: resp.StatusCode,
			Type:       e.Error.Type,
			Code:       e.Error.Code,
			Message:    e.Error.Message,
		}
		if gwErr.Message == "" {
			gwErr.Message = string(body)
		}
		log.Error("Stripe returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("code", gwErr.Code),
			zap.String("message", gwErr.Message),
		)
		return nil, gwErr
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		log.Error("Failed decoding Stripe response", zap.Error(err))
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	log.Info("Stripe payment intent created", zap.String("intent_id", intent.ID))
	return &intent, nil
}
