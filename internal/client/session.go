package client

import (
	"context"
	"errors"
	"sync"

	"trackify/internal/domain/sighting"
	"trackify/internal/geo"
)

var ErrStaleResponse = errors.New("stale response discarded")

type Searcher interface {
	FindSightings(ctx context.Context, plate string, seq uint64) ([]sighting.Sighting, error)
}

// State is what a search screen renders.
type State struct {
	Plate    string
	Vehicles []sighting.Sighting
	Markers  []geo.Marker
	Skipped  []geo.SkippedLocation
	Loading  bool
	Err      error
}

// Session tracks the searches issued from one screen. Only the response
// to the most recently issued search is applied to the state.
type Session struct {
	searcher Searcher

	mu     sync.Mutex
	issued uint64
	state  State
}

func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

// Search issues one query and applies its result unless a newer search
// was started meanwhile, in which case ErrStaleResponse is returned and
// the state is left alone.
func (s *Session) Search(ctx context.Context, plate string) (State, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.state.Plate = plate
	s.state.Loading = true
	s.state.Err = nil
	s.mu.Unlock()

	vehicles, err := s.searcher.FindSightings(ctx, plate, seq)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued {
		return s.state, ErrStaleResponse
	}
	s.state.Loading = false

	if err != nil {
		s.state.Err = err
		return s.state, err
	}

	set := geo.BuildMarkers(vehicles)
	s.state.Vehicles = vehicles
	s.state.Markers = set.Markers
	s.state.Skipped = set.Skipped
	return s.state, nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
