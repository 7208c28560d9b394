// README: Activity records collected during a run and the report keys derived from them.
package monitor

import "ridesim/internal/types"

type Category string

const (
	CategoryDriver Category = "driver"
	CategoryRider  Category = "rider"
)

type Kind string

const (
	KindRequest Kind = "request"
	KindCancel  Kind = "cancel"
	KindPickup  Kind = "pickup"
	KindDropoff Kind = "dropoff"
)

// Activity is one state change of a driver or rider at a given tick.
type Activity struct {
	Time     int
	Category Category
	Kind     Kind
	ID       types.ID
	Location types.Point
}

// Report maps metric names to values.
type Report map[string]float64

const (
	MetricRiderWaitTime         = "rider_wait_time"
	MetricRiderCancelPercentage = "rider_cancel_percentage"
	MetricDriverTotalDistance   = "driver_total_distance"
	MetricDriverRideDistance    = "driver_ride_distance"
	MetricRidesCompleted        = "rides_completed"
	MetricAverageFare           = "average_fare"
)
