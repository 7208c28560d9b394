// README: Waitlist and driver-pool collections owned by the dispatcher.
package matching

import (
	"ridesim/internal/modules/driver"
	"ridesim/internal/modules/rider"
	"ridesim/internal/types"
)

// driverPool is an ordered set of drivers keyed by ID. Order is the order
// drivers became available, which decides ties between equally fast drivers.
type driverPool struct {
	drivers []*driver.Driver
	index   map[types.ID]struct{}
}

func newDriverPool() *driverPool {
	return &driverPool{index: make(map[types.ID]struct{})}
}

// add appends d unless a driver with the same ID is already present.
func (p *driverPool) add(d *driver.Driver) bool {
	if _, ok := p.index[d.ID]; ok {
		return false
	}
	p.index[d.ID] = struct{}{}
	p.drivers = append(p.drivers, d)
	return true
}

func (p *driverPool) remove(d *driver.Driver) bool {
	if _, ok := p.index[d.ID]; !ok {
		return false
	}
	delete(p.index, d.ID)
	for i, cur := range p.drivers {
		if cur.Equal(d) {
			p.drivers = append(p.drivers[:i], p.drivers[i+1:]...)
			break
		}
	}
	return true
}

func (p *driverPool) contains(id types.ID) bool {
	_, ok := p.index[id]
	return ok
}

func (p *driverPool) len() int {
	return len(p.drivers)
}

func (p *driverPool) snapshot() []*driver.Driver {
	out := make([]*driver.Driver, len(p.drivers))
	copy(out, p.drivers)
	return out
}

// waitlist holds riders in insertion order; selection is by timestamp.
type waitlist struct {
	riders []*rider.Rider
}

func (w *waitlist) push(r *rider.Rider) {
	w.riders = append(w.riders, r)
}

// popEarliest removes and returns the rider with the smallest timestamp.
// Among equal timestamps the earliest inserted rider wins.
func (w *waitlist) popEarliest() (*rider.Rider, bool) {
	if len(w.riders) == 0 {
		return nil, false
	}
	best := 0
	for i := 1; i < len(w.riders); i++ {
		if w.riders[i].TimeStamp < w.riders[best].TimeStamp {
			best = i
		}
	}
	r := w.riders[best]
	w.riders = append(w.riders[:best], w.riders[best+1:]...)
	return r, true
}

func (w *waitlist) remove(r *rider.Rider) bool {
	for i, cur := range w.riders {
		if cur == r {
			w.riders = append(w.riders[:i], w.riders[i+1:]...)
			return true
		}
	}
	return false
}

func (w *waitlist) contains(r *rider.Rider) bool {
	for _, cur := range w.riders {
		if cur == r {
			return true
		}
	}
	return false
}

func (w *waitlist) len() int {
	return len(w.riders)
}
