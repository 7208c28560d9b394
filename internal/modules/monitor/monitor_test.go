package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ridesim/internal/modules/pricing"
	"ridesim/internal/types"
)

func TestReport_Empty(t *testing.T) {
	r := NewMonitor(nil).Report()
	for _, key := range []string{
		MetricRiderWaitTime,
		MetricRiderCancelPercentage,
		MetricDriverTotalDistance,
		MetricDriverRideDistance,
		MetricRidesCompleted,
		MetricAverageFare,
	} {
		v, ok := r[key]
		assert.True(t, ok, "missing %s", key)
		assert.Zero(t, v, key)
	}
}

func TestReport_OneRideOneCancellation(t *testing.T) {
	m := NewMonitor(pricing.NewService(pricing.Rate{BaseFare: 100, PerUnit: 10}))

	// Driver D waits at 0,0; rider A requests at 1 from 0,3 to 4,3; rider B
	// requests at 2 and cancels at 7.
	m.Notify(Activity{Time: 0, Category: CategoryDriver, Kind: KindRequest, ID: "D", Location: types.Point{X: 0, Y: 0}})
	m.Notify(Activity{Time: 1, Category: CategoryRider, Kind: KindRequest, ID: "A", Location: types.Point{X: 0, Y: 3}})
	m.Notify(Activity{Time: 2, Category: CategoryRider, Kind: KindRequest, ID: "B", Location: types.Point{X: 9, Y: 9}})
	m.Notify(Activity{Time: 4, Category: CategoryRider, Kind: KindPickup, ID: "A", Location: types.Point{X: 0, Y: 3}})
	m.Notify(Activity{Time: 4, Category: CategoryDriver, Kind: KindPickup, ID: "D", Location: types.Point{X: 0, Y: 3}})
	m.Notify(Activity{Time: 7, Category: CategoryRider, Kind: KindCancel, ID: "B", Location: types.Point{X: 9, Y: 9}})
	m.Notify(Activity{Time: 8, Category: CategoryRider, Kind: KindDropoff, ID: "A", Location: types.Point{X: 4, Y: 3}})
	m.Notify(Activity{Time: 8, Category: CategoryDriver, Kind: KindDropoff, ID: "D", Location: types.Point{X: 4, Y: 3}})
	m.Notify(Activity{Time: 8, Category: CategoryDriver, Kind: KindRequest, ID: "D", Location: types.Point{X: 4, Y: 3}})

	r := m.Report()
	assert.Equal(t, 3.0, r[MetricRiderWaitTime])
	assert.Equal(t, 50.0, r[MetricRiderCancelPercentage])
	assert.Equal(t, 7.0, r[MetricDriverTotalDistance])
	assert.Equal(t, 4.0, r[MetricDriverRideDistance])
	assert.Equal(t, 1.0, r[MetricRidesCompleted])
	assert.Equal(t, 140.0, r[MetricAverageFare])
}

func TestReport_DistanceAveragedOverDrivers(t *testing.T) {
	m := NewMonitor(nil)
	m.Notify(Activity{Time: 0, Category: CategoryDriver, Kind: KindRequest, ID: "idle", Location: types.Point{}})
	m.Notify(Activity{Time: 0, Category: CategoryDriver, Kind: KindRequest, ID: "busy", Location: types.Point{}})
	m.Notify(Activity{Time: 2, Category: CategoryDriver, Kind: KindPickup, ID: "busy", Location: types.Point{X: 2}})
	m.Notify(Activity{Time: 6, Category: CategoryDriver, Kind: KindDropoff, ID: "busy", Location: types.Point{X: 2, Y: 4}})

	r := m.Report()
	assert.Equal(t, 3.0, r[MetricDriverTotalDistance])
	assert.Equal(t, 2.0, r[MetricDriverRideDistance])
	assert.Zero(t, r[MetricAverageFare])
}

func TestActivitiesIsACopy(t *testing.T) {
	m := NewMonitor(nil)
	m.Notify(Activity{ID: "x"})
	acts := m.Activities()
	acts[0].ID = "y"
	assert.Equal(t, types.ID("x"), m.Activities()[0].ID)
}
