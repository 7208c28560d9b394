// README: Simulation events; each kind mutates the dispatcher and schedules follow-on events.
package event

import (
	"fmt"

	"ridesim/internal/modules/driver"
	"ridesim/internal/modules/matching"
	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/rider"
)

// Monitor receives the activities produced while handling events.
type Monitor interface {
	Notify(a monitor.Activity)
}

type Event interface {
	// Time is the tick the event is scheduled for.
	Time() int
	// Do applies the event and returns the events it schedules.
	Do(d *matching.Dispatcher, m Monitor) ([]Event, error)
	String() string
}

// DriverRequest: a driver becomes available and asks for a rider.
type DriverRequest struct {
	At     int
	Driver *driver.Driver
}

// RiderRequest: a rider asks for a driver.
type RiderRequest struct {
	At    int
	Rider *rider.Rider
}

// Pickup: a driver arrives at a rider's origin.
type Pickup struct {
	At     int
	Rider  *rider.Rider
	Driver *driver.Driver
}

// Dropoff: a driver delivers a rider to its destination.
type Dropoff struct {
	At     int
	Rider  *rider.Rider
	Driver *driver.Driver
}

// Cancellation: a rider's patience runs out.
type Cancellation struct {
	At    int
	Rider *rider.Rider
}

func (e *DriverRequest) Time() int { return e.At }
func (e *RiderRequest) Time() int { return e.At }
func (e *Pickup) Time() int { return e.At }
func (e *Dropoff) Time() int { return e.At }
func (e *Cancellation) Time() int { return e.At }

func (e *DriverRequest) String() string {
	return fmt.Sprintf("%d -- %s: Request a rider", e.At, e.Driver)
}

func (e *RiderRequest) String() string {
	return fmt.Sprintf("%d -- %s: Request a driver", e.At, e.Rider)
}

func (e *Pickup) String() string {
	return fmt.Sprintf("%d -- %s: Pick up %s", e.At, e.Driver, e.Rider)
}

func (e *Dropoff) String() string {
	return fmt.Sprintf("%d -- %s: Drop off %s", e.At, e.Driver, e.Rider)
}

func (e *Cancellation) String() string {
	return fmt.Sprintf("%d -- %s: Cancel request", e.At, e.Rider)
}
