package membership

import (
	"gym_checkin/internal/config"
	"gym_checkin/internal/domain"

	"go.uber.org/zap"
)

const (
	msgWelcome            = "Check-in successful! Welcome back."
	msgNoActiveMembership = "No active membership found"
	msgCustomerNotFound   = "No customer found with this phone number"

	paymentSubscriptionActive = "Subscription Active"
	paymentNone               = "No active subscription or recent payment"
)

// New выбирает реализацию один раз при старте: без токена Square работаем на моках
func New(cfg config.SquareConfig, logger *zap.Logger) domain.MembershipVerifier {
	if !cfg.Configured() {
		logger.Warn("square is not configured, using mock membership verdicts")
		return NewFallbackVerifier(nil)
	}
	logger.Info("using square membership verifier",
		zap.String("endpoint", cfg.Endpoint()),
		zap.Duration("timeout", cfg.Timeout),
	)
	return NewLiveVerifier(cfg, logger)
}
