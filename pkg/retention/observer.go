package retention

import "time"

// Observer receives sweep events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	// BatchCommitted is called after every commit attempt.
	BatchCommitted(trigger Trigger, size int, duration time.Duration, err error)

	// SweepFinished is called once per Run. report is nil when err is not.
	SweepFinished(trigger Trigger, report *Report, duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) BatchCommitted(Trigger, int, time.Duration, error) {}

func (nopObserver) SweepFinished(Trigger, *Report, time.Duration, error) {}
