package membership

import (
	"context"
	"math/rand/v2"
	"time"

	"gym_checkin/internal/model"
)

const mockCustomerID = "mock-id"

// FallbackVerifier выдает случайный вердикт (~70% успеха) для окружений без Square.
// Дальше вердикт идет тем же путем, что и живой: сохранение и журнал.
type FallbackVerifier struct {
	rnd func() float64
	now func() time.Time
}

// NewFallbackVerifier: при rnd == nil используется math/rand
func NewFallbackVerifier(rnd func() float64) *FallbackVerifier {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &FallbackVerifier{rnd: rnd, now: time.Now}
}

func (v *FallbackVerifier) Verify(_ context.Context, _ string) (*model.Verdict, error) {
	if v.rnd() > 0.3 {
		return &model.Verdict{
			Success: true,
			Message: msgWelcome,
			CustomerData: &model.CustomerData{
				ID:               mockCustomerID,
				Name:             "John Doe",
				MembershipStatus: model.MembershipActive,
				ExpirationDate:   v.now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339),
				PaymentStatus:    paymentSubscriptionActive,
			},
			Mock: true,
		}, nil
	}
	return &model.Verdict{
		Success: false,
		Message: msgNoActiveMembership,
		Error:   model.ErrNoActiveMembership,
		CustomerData: &model.CustomerData{
			ID:               mockCustomerID,
			Name:             "Jane Smith",
			MembershipStatus: model.MembershipInactive,
			PaymentStatus:    paymentNone,
		},
		Mock: true,
	}, nil
}
