// Package sampler measures aggregate CPU load and emits usage percentages.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nekotray/nekotray/internal/daemon/mailbox"
)

// Sampling constants. These are fixed, not user-configurable.
const (
	Window        = 1000 * time.Millisecond
	FallbackUsage = 1.0
)

// Measurement is a load measurement in progress.
type Measurement interface {
	// Finish completes the measurement and returns the idle fraction in [0, 1]
	// observed since it was started.
	Finish() (float64, error)
}

// Meter starts load measurements.
type Meter interface {
	Start() (Measurement, error)
}

// Sampler repeatedly measures CPU load over Window and sends the usage
// percentage to a mailbox.
type Sampler struct {
	meter  Meter
	out    *mailbox.Mailbox[float64]
	window time.Duration
	// degraded is true while Start keeps failing; used to log transitions once.
	degraded bool
}

// New creates a sampler reading from meter and writing to out.
func New(meter Meter, out *mailbox.Mailbox[float64]) *Sampler {
	return &Sampler{
		meter:  meter,
		out:    out,
		window: Window,
	}
}

// Usage converts an idle fraction to a usage percentage.
func Usage(idle float64) float64 {
	return 100.0 - idle*100.0
}

// Run samples until ctx is cancelled or the output mailbox is closed, both of
// which return nil. A measurement that fails to finish is returned as an
// error.
func (s *Sampler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		usage, fallback, err := s.sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := s.out.Send(usage); err != nil {
			if errors.Is(err, mailbox.ErrClosed) {
				log.Println("[sampler] Usage mailbox closed, stopping")
				return nil
			}
			return err
		}

		// Back off for one window after a fallback.
		if fallback && !s.wait(ctx) {
			return nil
		}
	}
}

// wait blocks for one window. It returns false when ctx ends first.
func (s *Sampler) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// sample performs one iteration: start, wait for the window, finish. The
// boolean reports whether the fallback value was used.
func (s *Sampler) sample(ctx context.Context) (float64, bool, error) {
	m, err := s.meter.Start()
	if err != nil {
		if !s.degraded {
			log.Printf("[sampler] Failed to start measurement, using fallback %.1f: %v", FallbackUsage, err)
			s.degraded = true
		}
		return FallbackUsage, true, nil
	}
	if s.degraded {
		log.Println("[sampler] Measurement recovered")
		s.degraded = false
	}

	if !s.wait(ctx) {
		return 0, false, ctx.Err()
	}

	idle, err := m.Finish()
	if err != nil {
		return 0, false, fmt.Errorf("failed to finish CPU measurement: %w", err)
	}
	return Usage(idle), false, nil
}
