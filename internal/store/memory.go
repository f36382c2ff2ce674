package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Session    = (*memorySession)(nil)
)

// MemoryRepository keeps every city in process memory. Writes are applied
// immediately, so Save has nothing left to commit.
type MemoryRepository struct {
	mu     sync.RWMutex
	cities []types.City
	nextID int
}

// NewMemoryRepository copies the given cities. Point of interest ids are
// allocated from the highest seeded id upwards and are never handed out twice.
func NewMemoryRepository(cities []types.City) *MemoryRepository {
	r := &MemoryRepository{cities: make([]types.City, 0, len(cities))}
	maxID := 0
	for _, c := range cities {
		r.cities = append(r.cities, cloneCity(c, true))
		for _, p := range c.PointsOfInterest {
			if p.ID > maxID {
				maxID = p.ID
			}
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *MemoryRepository) Begin(_ context.Context) (Session, error) {
	return &memorySession{repo: r}, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

// cityIndex must be called with the lock held.
func (r *MemoryRepository) cityIndex(cityID int) int {
	for i := range r.cities {
		if r.cities[i].ID == cityID {
			return i
		}
	}
	return -1
}

type memorySession struct {
	repo *MemoryRepository
}

func (s *memorySession) CityExists(_ context.Context, cityID int) (bool, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()
	return s.repo.cityIndex(cityID) >= 0, nil
}

func (s *memorySession) GetCities(_ context.Context) ([]types.City, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	cities := make([]types.City, 0, len(s.repo.cities))
	for _, c := range s.repo.cities {
		cities = append(cities, cloneCity(c, true))
	}
	sort.SliceStable(cities, func(i, j int) bool {
		if cities[i].Name == cities[j].Name {
			return cities[i].ID < cities[j].ID
		}
		return cities[i].Name < cities[j].Name
	})
	return cities, nil
}

func (s *memorySession) GetCity(_ context.Context, cityID int, includePointsOfInterest bool) (*types.City, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	idx := s.repo.cityIndex(cityID)
	if idx < 0 {
		return nil, fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
	}
	city := cloneCity(s.repo.cities[idx], includePointsOfInterest)
	return &city, nil
}

func (s *memorySession) GetPointsOfInterestForCity(_ context.Context, cityID int) ([]types.PointOfInterest, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	idx := s.repo.cityIndex(cityID)
	if idx < 0 {
		return nil, fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
	}
	return clonePointsOfInterest(s.repo.cities[idx].PointsOfInterest), nil
}

func (s *memorySession) GetPointOfInterestForCity(_ context.Context, cityID, poiID int) (*types.PointOfInterest, error) {
	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	idx := s.repo.cityIndex(cityID)
	if idx < 0 {
		return nil, fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
	}
	for _, p := range s.repo.cities[idx].PointsOfInterest {
		if p.ID == poiID {
			poi := clonePointOfInterest(p)
			return &poi, nil
		}
	}
	return nil, fmt.Errorf("point of interest %d in city %d: %w", poiID, cityID, types.ErrPointOfInterestNotFound)
}

func (s *memorySession) AddPointOfInterestForCity(_ context.Context, cityID int, poi *types.PointOfInterest) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	idx := s.repo.cityIndex(cityID)
	if idx < 0 {
		return fmt.Errorf("city %d: %w", cityID, types.ErrCityNotFound)
	}

	poi.ID = s.repo.nextID
	poi.CityID = cityID
	s.repo.nextID++

	s.repo.cities[idx].PointsOfInterest = append(s.repo.cities[idx].PointsOfInterest, clonePointOfInterest(*poi))
	return nil
}

func (s *memorySession) UpdatePointOfInterest(_ context.Context, existing *types.PointOfInterest, name string, description *string) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	p, err := s.locate(existing)
	if err != nil {
		return err
	}
	p.Name = name
	p.Description = cloneString(description)

	existing.Name = name
	existing.Description = cloneString(description)
	return nil
}

func (s *memorySession) DeletePointOfInterest(_ context.Context, existing *types.PointOfInterest) error {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	idx := s.repo.cityIndex(existing.CityID)
	if idx < 0 {
		return fmt.Errorf("city %d: %w", existing.CityID, types.ErrCityNotFound)
	}
	pois := s.repo.cities[idx].PointsOfInterest
	for i := range pois {
		if pois[i].ID == existing.ID {
			s.repo.cities[idx].PointsOfInterest = append(pois[:i:i], pois[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("point of interest %d: %w", existing.ID, types.ErrPointOfInterestNotFound)
}

// locate must be called with the write lock held.
func (s *memorySession) locate(existing *types.PointOfInterest) (*types.PointOfInterest, error) {
	idx := s.repo.cityIndex(existing.CityID)
	if idx < 0 {
		return nil, fmt.Errorf("city %d: %w", existing.CityID, types.ErrCityNotFound)
	}
	pois := s.repo.cities[idx].PointsOfInterest
	for i := range pois {
		if pois[i].ID == existing.ID {
			return &pois[i], nil
		}
	}
	return nil, fmt.Errorf("point of interest %d: %w", existing.ID, types.ErrPointOfInterestNotFound)
}

func (s *memorySession) Save(_ context.Context) error {
	return nil
}

func (s *memorySession) Close(_ context.Context) error {
	return nil
}

func cloneCity(c types.City, withPointsOfInterest bool) types.City {
	out := types.City{
		ID:          c.ID,
		Name:        c.Name,
		Description: cloneString(c.Description),
	}
	if withPointsOfInterest {
		out.PointsOfInterest = clonePointsOfInterest(c.PointsOfInterest)
	}
	return out
}

func clonePointsOfInterest(pois []types.PointOfInterest) []types.PointOfInterest {
	out := make([]types.PointOfInterest, 0, len(pois))
	for _, p := range pois {
		out = append(out, clonePointOfInterest(p))
	}
	return out
}

func clonePointOfInterest(p types.PointOfInterest) types.PointOfInterest {
	return types.PointOfInterest{
		ID:          p.ID,
		CityID:      p.CityID,
		Name:        p.Name,
		Description: cloneString(p.Description),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
