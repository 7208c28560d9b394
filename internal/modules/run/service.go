// README: Run service parses submitted events, simulates them and keeps the resulting reports.
package run

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"ridesim/internal/modules/event"
	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/pricing"
	"ridesim/internal/service"
	"ridesim/internal/types"
)

var (
	ErrNotFound   = errors.New("run not found")
	ErrBadRequest = errors.New("bad request")
)

type RunStore interface {
	Create(ctx context.Context, r *Run) error
	Get(ctx context.Context, id types.ID) (*Run, error)
	List(ctx context.Context, limit int) ([]*Run, error)
}

type ReportCache interface {
	Get(ctx context.Context, hash string) (monitor.Report, bool, error)
	Set(ctx context.Context, hash string, report monitor.Report) error
}

type Service struct {
	logger *log.Logger
	store  RunStore
	cache  ReportCache
	pricer *pricing.Service
	now    func() time.Time
}

// NewService wires a run service pricing rides at rate. cache may be nil.
func NewService(logger *log.Logger, store RunStore, cache ReportCache, rate pricing.Rate) *Service {
	return &Service{
		logger: logger,
		store:  store,
		cache:  cache,
		pricer: pricing.NewService(rate),
		now:    time.Now,
	}
}

// Execute simulates cmd.Input and stores the run. A run is fully determined
// by its events and the fare rate, so a report cached under the same pair is
// reused.
func (s *Service) Execute(ctx context.Context, cmd ExecuteCommand) (*Run, error) {
	if strings.TrimSpace(cmd.Input) == "" {
		return nil, fmt.Errorf("%w: no events", ErrBadRequest)
	}
	hash := inputHash(s.pricer.Rate(), cmd.Input)

	report, cached := s.cachedReport(ctx, hash)
	if !cached {
		events, err := event.Parse(strings.NewReader(cmd.Input))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		sim := service.NewSimulation(s.logger.WithPrefix("sim"), s.pricer)
		report, err = sim.Run(ctx, events)
		if err != nil {
			return nil, fmt.Errorf("simulate: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, hash, report); err != nil {
				s.logger.Warn("cache report", "hash", hash, "err", err)
			}
		}
	}

	r := &Run{
		ID:        types.ID(uuid.NewString()),
		Name:      cmd.Name,
		InputHash: hash,
		Events:    cmd.Input,
		Report:    report,
		Cached:    cached,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("store run: %w", err)
	}
	s.logger.Info("run stored", "id", r.ID, "cached", cached)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Run, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// List returns up to limit runs, newest first. A non-positive limit selects
// DefaultListLimit; larger values are capped at MaxListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]*Run, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.store.List(ctx, limit)
}

func (s *Service) cachedReport(ctx context.Context, hash string) (monitor.Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	report, ok, err := s.cache.Get(ctx, hash)
	if err != nil {
		s.logger.Warn("cache lookup", "hash", hash, "err", err)
		return nil, false
	}
	return report, ok
}

func inputHash(rate pricing.Rate, input string) string {
	sum := sha256.Sum256([]byte(rate.String() + "\n" + input))
	return hex.EncodeToString(sum[:])
}
