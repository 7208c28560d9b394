// README: Dispatcher pairs riders with the fastest available driver and keeps the rider waitlist.
package matching

import (
	"ridesim/internal/modules/driver"
	"ridesim/internal/modules/rider"
	"ridesim/internal/types"
)

// Dispatcher is owned by a single simulation run and is not safe for
// concurrent use.
type Dispatcher struct {
	fleet     []*driver.Driver
	available *driverPool
	waitlist  waitlist
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{available: newDriverPool()}
}

func (d *Dispatcher) String() string {
	return "=== RIDESIM DISPATCHER ==="
}

// RequestDriver returns the available driver that reaches r's origin in the
// fewest ticks and removes it from the pool. On equal times the driver that
// became available first wins. When no driver is available r is appended to
// the waitlist and ok is false; callers must not request twice for the same
// rider without a cancellation in between.
func (d *Dispatcher) RequestDriver(r *rider.Rider) (*driver.Driver, bool) {
	best := fastestDriver(d.available.drivers, r)
	if best == nil {
		d.waitlist.push(r)
		return nil, false
	}
	d.available.remove(best)
	return best, true
}

// RequestRider registers drv in the fleet on its first request, makes it
// available and hands it the longest-waiting rider, if any. Pool membership
// is idempotent: a driver already available is not added twice, although its
// request counter still advances. When matched, drv leaves the pool again.
func (d *Dispatcher) RequestRider(drv *driver.Driver) (*rider.Rider, bool) {
	if drv.Requests == 0 {
		d.fleet = append(d.fleet, drv)
	}
	drv.Requests++
	d.available.add(drv)

	r, ok := d.waitlist.popEarliest()
	if !ok {
		return nil, false
	}
	d.available.remove(drv)
	return r, true
}

// CancelRide drops r from the waitlist when present and marks it cancelled
// regardless of its current status.
func (d *Dispatcher) CancelRide(r *rider.Rider) {
	d.waitlist.remove(r)
	_ = r.SetStatus(rider.CodeCancelled)
}

// Fleet returns every driver ever registered, in registration order.
func (d *Dispatcher) Fleet() []*driver.Driver {
	out := make([]*driver.Driver, len(d.fleet))
	copy(out, d.fleet)
	return out
}

// Available returns the drivers eligible for matching, in pool order.
func (d *Dispatcher) Available() []*driver.Driver {
	return d.available.snapshot()
}

func (d *Dispatcher) IsAvailable(id types.ID) bool {
	return d.available.contains(id)
}

func (d *Dispatcher) IsWaiting(r *rider.Rider) bool {
	return d.waitlist.contains(r)
}

func (d *Dispatcher) WaitlistLen() int {
	return d.waitlist.len()
}

func fastestDriver(drivers []*driver.Driver, r *rider.Rider) *driver.Driver {
	var best *driver.Driver
	bestTime := 0
	for _, drv := range drivers {
		t := drv.TravelTime(r.Origin)
		if best == nil || t < bestTime {
			best = drv
			bestTime = t
		}
	}
	return best
}
