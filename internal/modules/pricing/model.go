// README: Pricing rate applied to every completed ride.
package pricing

import "fmt"

// Rate charges BaseFare per ride plus PerUnit per grid block travelled with
// the rider on board.
type Rate struct {
	BaseFare int64
	PerUnit  int64
	Currency string
}

func (r Rate) String() string {
	return fmt.Sprintf("%d+%d/unit %s", r.BaseFare, r.PerUnit, r.Currency)
}
