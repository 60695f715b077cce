package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"trackify/internal/domain/sighting"
	"trackify/internal/geo"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

type SightingStore interface {
	FindSightings(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, error)
	Ping(ctx context.Context) error
}

type ResultCache interface {
	Get(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, bool, error)
	Set(ctx context.Context, filter sighting.Filter, result []sighting.Sighting) error
}

type SightingService struct {
	store SightingStore
	cache ResultCache
	log   zerolog.Logger
}

func NewSightingService(store SightingStore, log zerolog.Logger) *SightingService {
	return &SightingService{
		store: store,
		log:   log,
	}
}

// WithCache enables read-through caching of query results.
func (s *SightingService) WithCache(cache ResultCache) *SightingService {
	s.cache = cache
	return s
}

// FindSightings returns the sightings whose plate text equals the filter
// exactly, or every stored sighting when the filter is empty.
func (s *SightingService) FindSightings(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, error) {
	plate, filtered := filter.Plate()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, filter)
		if err != nil {
			s.log.Warn().Err(err).Str("plate", plate).Msg("result cache read failed")
		} else if ok {
			s.log.Debug().Str("plate", plate).Int("count", len(cached)).Msg("served sightings from cache")
			return cached, nil
		}
	}

	result, err := s.store.FindSightings(ctx, filter)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("plate", plate).
			Bool("filtered", filtered).
			Msg("failed to find sightings")
		return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, err.Error())
	}
	if result == nil {
		result = []sighting.Sighting{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, filter, result); err != nil {
			s.log.Warn().Err(err).Str("plate", plate).Msg("result cache write failed")
		}
	}

	s.log.Debug().
		Str("plate", plate).
		Bool("filtered", filtered).
		Int("count", len(result)).
		Msg("found sightings")

	return result, nil
}

// FindMarkers runs the sighting query and places every parseable location
// on the map. Unparseable locations are skipped and logged.
func (s *SightingService) FindMarkers(ctx context.Context, filter sighting.Filter) (geo.MarkerSet, error) {
	result, err := s.FindSightings(ctx, filter)
	if err != nil {
		return geo.MarkerSet{}, err
	}

	set := geo.BuildMarkers(result)
	for _, skipped := range set.Skipped {
		s.log.Warn().
			Err(skipped.Err).
			Str("sighting_id", skipped.ID).
			Str("location", skipped.Location).
			Msg("skipped sighting with unparseable location")
	}
	return set, nil
}

// Ping reports whether the backing store is reachable.
func (s *SightingService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrStorageUnavailable, err.Error())
	}
	return nil
}
