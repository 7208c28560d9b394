package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridesim/internal/modules/driver"
	"ridesim/internal/modules/event"
	"ridesim/internal/modules/matching"
	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/pricing"
	"ridesim/internal/modules/rider"
	"ridesim/internal/types"
)

const fiveEvents = `
0 DriverRequest Amaze 5,5 1
1 RiderRequest Cerise 4,2 1,5 15
10 DriverRequest Bogus 3,6 2
12 RiderRequest Desi 2,6 6,6 3
13 RiderRequest Eve 9,9 9,0 1
`

func newTestSimulation() *Simulation {
	return NewSimulation(log.New(io.Discard), pricing.NewService(pricing.Rate{BaseFare: 300, PerUnit: 50}))
}

func mustParse(t *testing.T, input string) []event.Event {
	t.Helper()
	events, err := event.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return events
}

func TestRun_FullScenario(t *testing.T) {
	sim := newTestSimulation()
	report, err := sim.Run(context.Background(), mustParse(t, fiveEvents))
	require.NoError(t, err)

	// Cerise waits 4 ticks, Desi is picked up immediately by the faster Bogus,
	// Eve runs out of patience before Amaze arrives.
	assert.Equal(t, 2.0, report[monitor.MetricRiderWaitTime])
	assert.InDelta(t, 100.0/3.0, report[monitor.MetricRiderCancelPercentage], 1e-9)
	assert.Equal(t, 13.5, report[monitor.MetricDriverTotalDistance])
	assert.Equal(t, 5.0, report[monitor.MetricDriverRideDistance])
	assert.Equal(t, 2.0, report[monitor.MetricRidesCompleted])
	assert.Equal(t, 550.0, report[monitor.MetricAverageFare])

	fleet := sim.Dispatcher().Fleet()
	require.Len(t, fleet, 2)
	assert.Equal(t, types.ID("Amaze"), fleet[0].ID)
	assert.Equal(t, 3, fleet[0].Requests)
	assert.Equal(t, types.Point{X: 9, Y: 9}, fleet[0].Location)
	assert.Equal(t, types.ID("Bogus"), fleet[1].ID)
	assert.Equal(t, 2, fleet[1].Requests)
	assert.Equal(t, types.Point{X: 6, Y: 6}, fleet[1].Location)
	assert.Len(t, sim.Dispatcher().Available(), 2)
	assert.Zero(t, sim.Dispatcher().WaitlistLen())
}

func TestRun_Deterministic(t *testing.T) {
	first, err := newTestSimulation().Run(context.Background(), mustParse(t, fiveEvents))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := newTestSimulation().Run(context.Background(), mustParse(t, fiveEvents))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRun_Empty(t *testing.T) {
	report, err := newTestSimulation().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report[monitor.MetricRidesCompleted])
}

func TestRun_RiderWithoutDriversCancels(t *testing.T) {
	sim := newTestSimulation()
	report, err := sim.Run(context.Background(), mustParse(t, "0 RiderRequest Lonely 1,1 2,2 4"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, report[monitor.MetricRiderCancelPercentage])
	assert.Zero(t, sim.Dispatcher().WaitlistLen())
}

func TestRun_SameTickCancellationLosesToEarlierPickup(t *testing.T) {
	// Pickup and cancellation both land on t=3; the pickup was scheduled first.
	sim := newTestSimulation()
	report, err := sim.Run(context.Background(), mustParse(t, "0 DriverRequest D 0,0 1\n0 RiderRequest R 3,0 3,3 3"))
	require.NoError(t, err)
	assert.Zero(t, report[monitor.MetricRiderCancelPercentage])
	assert.Equal(t, 1.0, report[monitor.MetricRidesCompleted])
	assert.Equal(t, 3.0, report[monitor.MetricRiderWaitTime])
}

func TestRun_HandlerErrorAbortsRun(t *testing.T) {
	r := rider.New("R", 1, types.Point{}, types.Point{X: 1})
	broken := &event.Pickup{At: 2, Rider: r, Driver: driver.New("D", types.Point{}, 1)}
	later := &event.DriverRequest{At: 9, Driver: driver.New("late", types.Point{}, 1)}

	sim := newTestSimulation()
	_, err := sim.Run(context.Background(), []event.Event{later, broken})
	require.Error(t, err)
	assert.ErrorIs(t, err, driver.ErrInvalidState)
	assert.Contains(t, err.Error(), "Pick up")
	assert.Empty(t, sim.Dispatcher().Fleet(), "events after the failure must not run")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestSimulation().Run(ctx, mustParse(t, fiveEvents))
	assert.True(t, errors.Is(err, context.Canceled))
}

// recordingEvent logs its name when handled and schedules spawn.
type recordingEvent struct {
	at    int
	name  string
	spawn []event.Event
	log   *[]string
}

func (e *recordingEvent) Time() int { return e.at }

func (e *recordingEvent) String() string { return e.name }

func (e *recordingEvent) Do(_ *matching.Dispatcher, _ event.Monitor) ([]event.Event, error) {
	*e.log = append(*e.log, e.name)
	return e.spawn, nil
}

func TestRun_FollowOnEventsKeepBatchOrder(t *testing.T) {
	var seen []string
	root := &recordingEvent{at: 0, name: "root", log: &seen}
	root.spawn = []event.Event{
		&recordingEvent{at: 1, name: "b", log: &seen},
		&recordingEvent{at: 1, name: "a", log: &seen},
		&recordingEvent{at: 0, name: "c", log: &seen},
	}
	initialLater := &recordingEvent{at: 1, name: "x", log: &seen}

	_, err := newTestSimulation().Run(context.Background(), []event.Event{root, initialLater})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "c", "x", "b", "a"}, seen)
}
