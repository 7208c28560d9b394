// README: Driver aggregate; oscillates between idle and driving for the whole run.
package driver

import (
	"errors"
	"fmt"
	"math"

	"ridesim/internal/modules/rider"
	"ridesim/internal/types"
)

var ErrInvalidState = errors.New("invalid state transition")

// Driver keeps Destination set exactly while IsIdle is false.
type Driver struct {
	ID          types.ID
	Location    types.Point
	Destination *types.Point
	IsIdle      bool
	// Speed is grid blocks per tick; always positive.
	Speed int
	// Requests counts every rider request the driver has issued.
	Requests int
	// TimeStamp is the tick the driver last became available.
	TimeStamp int
}

// New returns an idle driver. speed must be positive; New panics otherwise.
func New(id types.ID, location types.Point, speed int) *Driver {
	if speed <= 0 {
		panic(fmt.Sprintf("driver %s: speed must be positive, got %d", id, speed))
	}
	return &Driver{
		ID:       id,
		Location: location,
		Speed:    speed,
		IsIdle:   true,
	}
}

func (d *Driver) String() string {
	return fmt.Sprintf("Driver: %s", d.ID)
}

// Equal reports whether other is a driver with the same ID. Values of any
// other type compare false.
func (d *Driver) Equal(other any) bool {
	switch o := other.(type) {
	case *Driver:
		return o != nil && d.ID == o.ID
	case Driver:
		return d.ID == o.ID
	default:
		return false
	}
}

// TravelTime is the number of ticks needed to reach destination, rounded
// half to even.
func (d *Driver) TravelTime(destination types.Point) int {
	dist := types.ManhattanDistance(d.Location, destination)
	return int(math.RoundToEven(float64(dist) / float64(d.Speed)))
}

func (d *Driver) StartDrive(location types.Point) int {
	d.Destination = &location
	d.IsIdle = false
	return d.TravelTime(location)
}

func (d *Driver) EndDrive() error {
	return d.arrive()
}

// StartRide places the driver at the rider's origin and heads for the
// rider's destination.
func (d *Driver) StartRide(r *rider.Rider) int {
	d.Location = r.Origin
	dest := r.Destination
	d.Destination = &dest
	d.IsIdle = false
	return d.TravelTime(dest)
}

func (d *Driver) EndRide() error {
	return d.arrive()
}

func (d *Driver) SetTimeStamp(t int) {
	d.TimeStamp = t
}

func (d *Driver) arrive() error {
	if d.Destination == nil {
		return fmt.Errorf("%w: %s has no destination", ErrInvalidState, d)
	}
	d.Location = *d.Destination
	d.Destination = nil
	d.IsIdle = true
	return nil
}
