// README: Rider aggregate and status definitions.
package rider

import (
	"errors"
	"fmt"

	"ridesim/internal/types"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCancelled Status = "cancelled"
	StatusSatisfied Status = "satisfied"
)

// StatusCode is the single-letter form accepted by SetStatus.
type StatusCode byte

const (
	CodeCancelled StatusCode = 'c'
	CodeSatisfied StatusCode = 's'
)

var ErrUnknownStatus = errors.New("unknown rider status code")

var statusByCode = map[StatusCode]Status{
	CodeCancelled: StatusCancelled,
	CodeSatisfied: StatusSatisfied,
}

type Rider struct {
	ID          types.ID
	Patience    int
	Origin      types.Point
	Destination types.Point
	Status      Status
	// TimeStamp is the tick the rider joined the waitlist; it orders the waitlist.
	TimeStamp int
}

func New(id types.ID, patience int, origin, destination types.Point) *Rider {
	return &Rider{
		ID:          id,
		Patience:    patience,
		Origin:      origin,
		Destination: destination,
		Status:      StatusWaiting,
	}
}

func (r *Rider) String() string {
	return fmt.Sprintf("Rider: %s", r.ID)
}

// SetStatus moves the rider to the status named by code. There is no
// transition guard: a satisfied rider can still be marked cancelled.
// Unknown codes return ErrUnknownStatus and leave the status unchanged.
func (r *Rider) SetStatus(code StatusCode) error {
	s, ok := statusByCode[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, rune(code))
	}
	r.Status = s
	return nil
}

func (r *Rider) SetTimeStamp(t int) {
	r.TimeStamp = t
}

func (r *Rider) IsWaiting() bool {
	return r.Status == StatusWaiting
}
