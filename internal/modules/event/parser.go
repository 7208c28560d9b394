// README: Parses the textual event description into the initial events of a run.
package event

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ridesim/internal/modules/driver"
	"ridesim/internal/modules/rider"
	"ridesim/internal/types"
)

var ErrBadEvent = errors.New("bad event")

const (
	kindDriverRequest = "DriverRequest"
	kindRiderRequest  = "RiderRequest"
)

// Limits on parsed values. With them every follow-on tick (time plus
// patience, or time plus a travel leg) stays far below the int range.
const (
	MaxTick       = 1 << 29
	MaxCoordinate = 1 << 26
)

// Parse reads one event per line:
//
//	<time> DriverRequest <id> <x,y> <speed>
//	<time> RiderRequest <id> <x,y origin> <x,y destination> <patience>
//
// Blank lines and lines starting with '#' are skipped. IDs must be unique
// per kind.
func Parse(r io.Reader) ([]Event, error) {
	var events []Event
	drivers := make(map[types.ID]bool)
	riders := make(map[types.ID]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrBadEvent, lineNo, err)
		}
		switch ev := e.(type) {
		case *DriverRequest:
			if drivers[ev.Driver.ID] {
				return nil, fmt.Errorf("%w: line %d: duplicate driver %s", ErrBadEvent, lineNo, ev.Driver.ID)
			}
			drivers[ev.Driver.ID] = true
		case *RiderRequest:
			if riders[ev.Rider.ID] {
				return nil, fmt.Errorf("%w: line %d: duplicate rider %s", ErrBadEvent, lineNo, ev.Rider.ID)
			}
			riders[ev.Rider.ID] = true
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func parseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, errors.New("missing event kind")
	}
	at, err := tick("time", fields[0])
	if err != nil {
		return nil, err
	}

	switch fields[1] {
	case kindDriverRequest:
		if len(fields) != 5 {
			return nil, fmt.Errorf("%s expects 5 fields, got %d", kindDriverRequest, len(fields))
		}
		loc, err := gridPoint(fields[3])
		if err != nil {
			return nil, err
		}
		speed, err := strconv.Atoi(fields[4])
		if err != nil || speed <= 0 {
			return nil, fmt.Errorf("speed must be a positive integer, got %q", fields[4])
		}
		return &DriverRequest{At: at, Driver: driver.New(types.ID(fields[2]), loc, speed)}, nil

	case kindRiderRequest:
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s expects 6 fields, got %d", kindRiderRequest, len(fields))
		}
		origin, err := gridPoint(fields[3])
		if err != nil {
			return nil, err
		}
		dest, err := gridPoint(fields[4])
		if err != nil {
			return nil, err
		}
		patience, err := tick("patience", fields[5])
		if err != nil {
			return nil, err
		}
		return &RiderRequest{At: at, Rider: rider.New(types.ID(fields[2]), patience, origin, dest)}, nil

	default:
		return nil, fmt.Errorf("unknown event kind %q", fields[1])
	}
}

func tick(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > MaxTick {
		return 0, fmt.Errorf("%s must be an integer in [0, %d], got %q", name, MaxTick, s)
	}
	return n, nil
}

func gridPoint(s string) (types.Point, error) {
	p, err := types.ParsePoint(s)
	if err != nil {
		return types.Point{}, err
	}
	if outOfGrid(p.X) || outOfGrid(p.Y) {
		return types.Point{}, fmt.Errorf("point %s outside the grid (|x|, |y| <= %d)", p, MaxCoordinate)
	}
	return p, nil
}

func outOfGrid(n int) bool {
	return n < -MaxCoordinate || n > MaxCoordinate
}
