package payment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"payflow/internal/models"
)

type attemptState int

const (
	tryingPrimary attemptState = iota
	tryingFallback
	resolved
	exhausted
)

// Orchestrator routes a payment to its primary provider, fails over to the
// other provider on adapter failure, and assembles the canonical response.
// It keeps no state between calls.
type Orchestrator struct {
	gateways map[Provider]Gateway
	logger   *zap.Logger
}

func NewOrchestrator(logger *zap.Logger, gateways ...Gateway) *Orchestrator {
	byProvider := make(map[Provider]Gateway, len(gateways))
	for _, g := range gateways {
		if g != nil {
			byProvider[g.Provider()] = g
		}
	}
	return &Orchestrator{gateways: byProvider, logger: logger}
}

// Process runs one payment through routing, failover and fee calculation.
func (o *Orchestrator) Process(ctx context.Context, req models.PaymentRequest) (*models.CanonicalResponse, error) {
	if !req.Amount.IsPositive() || strings.TrimSpace(req.Currency) == "" {
		return nil, ErrInvalidRequest
	}
	// Providers settle in cents; a sub-cent amount cannot be charged or
	// reported exactly.
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: more than two decimal places", ErrInvalidRequest)
	}

	primary, fallback := Route(req.Amount)
	if err := o.checkConfigured(primary, fallback); err != nil {
		return nil, err
	}

	var (
		result CallResult
		used   Provider
		state  = tryingPrimary
	)
	for state != resolved && state != exhausted {
		switch state {
		case tryingPrimary:
			result = o.gateways[primary].Call(ctx, req)
			if result.OK {
				used, state = primary, resolved
				continue
			}
			o.logger.Warn("Primary provider failed, trying fallback",
				zap.Stringer("primary", primary),
				zap.Stringer("fallback", fallback),
				zap.Error(result.Err))
			state = tryingFallback
		case tryingFallback:
			result = o.gateways[fallback].Call(ctx, req)
			if result.OK {
				used, state = fallback, resolved
				continue
			}
			o.logger.Warn("Fallback provider failed",
				zap.Stringer("fallback", fallback),
				zap.Error(result.Err))
			state = exhausted
		}
	}

	if state == exhausted {
		return nil, fmt.Errorf("%w: %s and %s failed", ErrAllProvidersUnavailable, primary, fallback)
	}

	fee := CalculateFee(req.Amount, req.Currency)
	return &models.CanonicalResponse{
		ExternalID:  result.ExternalID,
		Provider:    used.String(),
		Status:      result.Status,
		GrossAmount: req.Amount,
		Fee:         fee,
		NetAmount:   req.Amount.Sub(fee),
	}, nil
}

func (o *Orchestrator) checkConfigured(providers ...Provider) error {
	for _, p := range providers {
		g, ok := o.gateways[p]
		if !ok || strings.TrimSpace(g.Endpoint()) == "" {
			return fmt.Errorf("%w: %s", ErrConfigurationMissing, p)
		}
	}
	return nil
}
