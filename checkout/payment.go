package checkout

import (
	"context"
	"time"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// PaymentAuthorizer is the seam where a real payment gateway would plug in.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, method models.PaymentMethod, amount float64) error
}

// SimulatedAuthorizer approves every payment after a fixed delay. It never
// performs a network request.
type SimulatedAuthorizer struct {
	Delay time.Duration
}

func (a SimulatedAuthorizer) Authorize(ctx context.Context, _ models.PaymentMethod, _ float64) error {
	if a.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
