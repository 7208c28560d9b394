// README: Simulation loop; pops events earliest first and feeds follow-on events back into the queue.
package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"ridesim/internal/modules/event"
	"ridesim/internal/modules/matching"
	"ridesim/internal/modules/monitor"
)

// Simulation drives one run: it owns the event queue, the dispatcher and the
// monitor, and is used once.
type Simulation struct {
	logger     *log.Logger
	events     *event.Queue
	dispatcher *matching.Dispatcher
	monitor    *monitor.Monitor
}

// NewSimulation creates a Simulation. pricer may be nil.
func NewSimulation(logger *log.Logger, pricer monitor.Pricer) *Simulation {
	return &Simulation{
		logger:     logger,
		events:     event.NewQueue(),
		dispatcher: matching.NewDispatcher(),
		monitor:    monitor.NewMonitor(pricer),
	}
}

// Run schedules initial, then handles events earliest first until none are
// left and returns the monitor's report. Follow-on events are queued in the
// order the handler returned them. A handler error aborts the run.
func (s *Simulation) Run(ctx context.Context, initial []event.Event) (monitor.Report, error) {
	for _, e := range initial {
		s.events.Add(e)
	}

	handled := 0
	for !s.events.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, _ := s.events.Remove()
		next, err := e.Do(s.dispatcher, s.monitor)
		if err != nil {
			return nil, fmt.Errorf("handle %q: %w", e, err)
		}
		for _, n := range next {
			s.events.Add(n)
		}
		handled++
		s.logger.Debug("event", "t", e.Time(), "event", e.String(), "scheduled", len(next))
	}

	report := s.monitor.Report()
	s.logger.Info("simulation finished",
		"events", handled,
		"fleet", len(s.dispatcher.Fleet()),
		"rides", report[monitor.MetricRidesCompleted],
	)
	return report, nil
}

// Dispatcher exposes the run's dispatcher for inspection after Run.
func (s *Simulation) Dispatcher() *matching.Dispatcher {
	return s.dispatcher
}
