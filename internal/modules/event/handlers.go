// README: Event handlers; the only place drivers and riders change state during a run.
package event

import (
	"fmt"

	"ridesim/internal/modules/matching"
	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/rider"
)

func (e *DriverRequest) Do(d *matching.Dispatcher, m Monitor) ([]Event, error) {
	e.Driver.SetTimeStamp(e.At)
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryDriver,
		Kind:     monitor.KindRequest,
		ID:       e.Driver.ID,
		Location: e.Driver.Location,
	})

	r, ok := d.RequestRider(e.Driver)
	if !ok {
		return nil, nil
	}
	travel := e.Driver.StartDrive(r.Origin)
	return []Event{&Pickup{At: e.At + travel, Rider: r, Driver: e.Driver}}, nil
}

func (e *RiderRequest) Do(d *matching.Dispatcher, m Monitor) ([]Event, error) {
	e.Rider.SetTimeStamp(e.At)
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryRider,
		Kind:     monitor.KindRequest,
		ID:       e.Rider.ID,
		Location: e.Rider.Origin,
	})

	var events []Event
	if drv, ok := d.RequestDriver(e.Rider); ok {
		travel := drv.StartDrive(e.Rider.Origin)
		events = append(events, &Pickup{At: e.At + travel, Rider: e.Rider, Driver: drv})
	}
	events = append(events, &Cancellation{At: e.At + e.Rider.Patience, Rider: e.Rider})
	return events, nil
}

// Do ends the driver's approach. A rider still waiting is picked up; a rider
// that cancelled meanwhile sends the driver back to requesting.
func (e *Pickup) Do(d *matching.Dispatcher, m Monitor) ([]Event, error) {
	if err := e.Driver.EndDrive(); err != nil {
		return nil, fmt.Errorf("pickup %s: %w", e.Rider.ID, err)
	}
	if !e.Rider.IsWaiting() {
		return []Event{&DriverRequest{At: e.At, Driver: e.Driver}}, nil
	}

	travel := e.Driver.StartRide(e.Rider)
	if err := e.Rider.SetStatus(rider.CodeSatisfied); err != nil {
		return nil, err
	}
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryRider,
		Kind:     monitor.KindPickup,
		ID:       e.Rider.ID,
		Location: e.Rider.Origin,
	})
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryDriver,
		Kind:     monitor.KindPickup,
		ID:       e.Driver.ID,
		Location: e.Rider.Origin,
	})
	return []Event{&Dropoff{At: e.At + travel, Rider: e.Rider, Driver: e.Driver}}, nil
}

func (e *Dropoff) Do(d *matching.Dispatcher, m Monitor) ([]Event, error) {
	if err := e.Driver.EndRide(); err != nil {
		return nil, fmt.Errorf("dropoff %s: %w", e.Rider.ID, err)
	}
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryRider,
		Kind:     monitor.KindDropoff,
		ID:       e.Rider.ID,
		Location: e.Rider.Destination,
	})
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryDriver,
		Kind:     monitor.KindDropoff,
		ID:       e.Driver.ID,
		Location: e.Driver.Location,
	})
	return []Event{&DriverRequest{At: e.At, Driver: e.Driver}}, nil
}

// Do cancels the rider only while it is still waiting; a rider already
// picked up is left alone.
func (e *Cancellation) Do(d *matching.Dispatcher, m Monitor) ([]Event, error) {
	if !e.Rider.IsWaiting() {
		return nil, nil
	}
	d.CancelRide(e.Rider)
	m.Notify(monitor.Activity{
		Time:     e.At,
		Category: monitor.CategoryRider,
		Kind:     monitor.KindCancel,
		ID:       e.Rider.ID,
		Location: e.Rider.Origin,
	})
	return nil, nil
}
