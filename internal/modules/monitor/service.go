// README: Monitor collects activities from event handlers and summarises them into a report.
package monitor

import "ridesim/internal/types"

type Pricer interface {
	Estimate(distance int) types.Money
}

type Monitor struct {
	pricer     Pricer
	activities []Activity
}

// NewMonitor returns an empty monitor. A nil pricer reports zero fares.
func NewMonitor(pricer Pricer) *Monitor {
	return &Monitor{pricer: pricer}
}

// Notify records a. Handlers notify in simulation order.
func (m *Monitor) Notify(a Activity) {
	m.activities = append(m.activities, a)
}

func (m *Monitor) Activities() []Activity {
	out := make([]Activity, len(m.activities))
	copy(out, m.activities)
	return out
}

type driverTrack struct {
	last        types.Point
	totalDist   int
	rideDist    int
	hasLocation bool
}

func (m *Monitor) Report() Report {
	requested := make(map[types.ID]int)
	cancelled := make(map[types.ID]bool)
	var waitSum, waited int

	drivers := make(map[types.ID]*driverTrack)
	var rides int
	var fareSum int64

	for _, a := range m.activities {
		switch a.Category {
		case CategoryRider:
			switch a.Kind {
			case KindRequest:
				requested[a.ID] = a.Time
			case KindCancel:
				cancelled[a.ID] = true
			case KindPickup:
				if start, ok := requested[a.ID]; ok {
					waitSum += a.Time - start
					waited++
				}
			}
		case CategoryDriver:
			tr, ok := drivers[a.ID]
			if !ok {
				tr = &driverTrack{}
				drivers[a.ID] = tr
			}
			step := 0
			if tr.hasLocation {
				step = types.ManhattanDistance(tr.last, a.Location)
			}
			tr.totalDist += step
			if a.Kind == KindDropoff {
				tr.rideDist += step
				rides++
				if m.pricer != nil {
					fareSum += m.pricer.Estimate(step).Amount
				}
			}
			tr.last = a.Location
			tr.hasLocation = true
		}
	}

	var totalDist, rideDist int
	for _, tr := range drivers {
		totalDist += tr.totalDist
		rideDist += tr.rideDist
	}

	return Report{
		MetricRiderWaitTime:         mean(float64(waitSum), waited),
		MetricRiderCancelPercentage: 100 * mean(float64(len(cancelled)), len(requested)),
		MetricDriverTotalDistance:   mean(float64(totalDist), len(drivers)),
		MetricDriverRideDistance:    mean(float64(rideDist), len(drivers)),
		MetricRidesCompleted:        float64(rides),
		MetricAverageFare:           mean(float64(fareSum), rides),
	}
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
