package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"GasSentinel/internal/model"
)

// DefaultAlertThreshold is the standard price, in gwei, at or below which an alert fires.
const DefaultAlertThreshold = 25

// PriceAlerter sends a message when the standard price drops to the
// threshold. It fires once per crossing: the price has to rise above the
// threshold again before the next alert.
type PriceAlerter struct {
	Sender    Sender
	Threshold int64
	Location  *time.Location
	Retries   int
	log       logrus.FieldLogger

	mu    sync.Mutex
	below bool
}

// NewPriceAlerter creates an alerter. A non-positive threshold uses DefaultAlertThreshold.
func NewPriceAlerter(sender Sender, threshold int64, loc *time.Location, logger logrus.FieldLogger) *PriceAlerter {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &PriceAlerter{Sender: sender, Threshold: threshold, Location: loc, Retries: 3, log: logger}
}

// Check evaluates s and sends an alert on the transition into the
// below-threshold state. It reports whether an alert was sent.
func (a *PriceAlerter) Check(ctx context.Context, s model.Sample) (bool, error) {
	a.mu.Lock()
	wasBelow := a.below
	a.below = s.Standard <= a.Threshold
	fire := a.below && !wasBelow
	a.mu.Unlock()

	if !fire {
		return false, nil
	}
	a.log.Infof("standard price %d gwei reached alert threshold %d", s.Standard, a.Threshold)
	msg := FormatAlert(s, a.Threshold, a.Location)
	var err error
	if r, ok := a.Sender.(interface {
		SendWithRetry(context.Context, string, int) error
	}); ok {
		err = r.SendWithRetry(ctx, msg, a.Retries)
	} else {
		err = a.Sender.Send(ctx, msg)
	}
	if err != nil {
		// Undelivered: retry on the next below-threshold sample.
		a.mu.Lock()
		a.below = false
		a.mu.Unlock()
		return false, err
	}
	return true, nil
}
