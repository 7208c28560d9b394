// README: Simulation run records: the submitted event text and the report it produced.
package run

import (
	"time"

	"ridesim/internal/modules/monitor"
	"ridesim/internal/types"
)

// Run is one stored simulation. InputHash covers the events and the fare rate.
type Run struct {
	ID        types.ID       `json:"id"`
	Name      string         `json:"name"`
	InputHash string         `json:"input_hash"`
	Events    string         `json:"events"`
	Report    monitor.Report `json:"report"`
	Cached    bool           `json:"cached"`
	CreatedAt time.Time      `json:"created_at"`
}

type ExecuteCommand struct {
	Name  string
	Input string
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)
