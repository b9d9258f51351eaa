package menu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"

	"github.com/nextgenmall/foodcourt/internal/catalog"
)

var (
	// ErrNoUpdates signals an empty batch of price updates; the form
	// shows a notice and nothing changes.
	ErrNoUpdates = errors.New("no price updates to save")

	errInvalidPrice  = errors.New("price must be a number")
	errNegativePrice = errors.New("price cannot be negative")
)

// Manager overlays owner edits on the read-only catalog menu. Added
// dishes and price overrides live only for the session; the catalog is
// never written back.
type Manager struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	overrides map[string]map[string]float64
	added     map[string][]catalog.Dish
	logger    apt.Logger
}

func NewManager(c *catalog.Catalog, logger apt.Logger) *Manager {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Manager{
		catalog:   c,
		overrides: make(map[string]map[string]float64),
		added:     make(map[string][]catalog.Dish),
		logger:    logger,
	}
}

// AddDish validates the add-dish form and records a session-local dish.
// All three fields are required and the price must parse non-negative.
func (m *Manager) AddDish(restaurantID, name, priceText, description string) (*catalog.Dish, error) {
	if errs := ValidateAddDish(name, priceText, description); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if _, err := m.catalog.Restaurant(restaurantID); err != nil {
		return nil, err
	}

	price, err := parsePrice(priceText)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}

	dish := catalog.Dish{
		ID:          apt.GenerateNewID().String(),
		Name:        name,
		Price:       price,
		Description: description,
	}

	m.mu.Lock()
	m.added[restaurantID] = append(m.added[restaurantID], dish)
	m.mu.Unlock()

	m.logger.Info("Dish added", "restaurant", restaurantID, "name", name, "price", price)
	return &dish, nil
}

// UpdatePrices applies the non-empty entries of a price update batch and
// returns how many were applied. An all-empty batch is ErrNoUpdates.
func (m *Manager) UpdatePrices(restaurantID string, updates map[string]string) (int, error) {
	if _, err := m.catalog.Restaurant(restaurantID); err != nil {
		return 0, err
	}

	pending := make(map[string]float64)
	var errs []string
	for dishID, priceText := range updates {
		if priceText == "" {
			continue
		}
		price, err := parsePrice(priceText)
		if err != nil {
			errs = append(errs, fmt.Sprintf("dish %s: %v", dishID, err))
			continue
		}
		if !m.knownDish(restaurantID, dishID) {
			errs = append(errs, fmt.Sprintf("dish %s: not found", dishID))
			continue
		}
		pending[dishID] = price
	}

	if len(errs) > 0 {
		return 0, &ValidationError{Fields: errs}
	}
	if len(pending) == 0 {
		return 0, ErrNoUpdates
	}

	m.mu.Lock()
	byDish, ok := m.overrides[restaurantID]
	if !ok {
		byDish = make(map[string]float64)
		m.overrides[restaurantID] = byDish
	}
	for dishID, price := range pending {
		byDish[dishID] = price
	}
	m.mu.Unlock()

	m.logger.Info("Prices updated", "restaurant", restaurantID, "count", len(pending))
	return len(pending), nil
}

// DishesFor merges the catalog menu, price overrides, and session-added
// dishes, keeping seed order with additions appended.
func (m *Manager) DishesFor(restaurantID string) ([]catalog.Dish, error) {
	r, err := m.catalog.Restaurant(restaurantID)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Dish, 0, len(r.Dishes)+len(m.added[restaurantID]))
	for _, d := range r.Dishes {
		if price, ok := m.overrides[restaurantID][d.ID]; ok {
			d.Price = price
		}
		out = append(out, d)
	}
	for _, d := range m.added[restaurantID] {
		if price, ok := m.overrides[restaurantID][d.ID]; ok {
			d.Price = price
		}
		out = append(out, d)
	}
	return out, nil
}

// PopularFor lists the restaurant's dishes flagged popular.
func (m *Manager) PopularFor(restaurantID string) ([]catalog.Dish, error) {
	dishes, err := m.DishesFor(restaurantID)
	if err != nil {
		return nil, err
	}

	var out []catalog.Dish
	for _, d := range dishes {
		if d.IsPopular {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Manager) knownDish(restaurantID, dishID string) bool {
	if _, err := m.catalog.Dish(restaurantID, dishID); err == nil {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.added[restaurantID] {
		if d.ID == dishID {
			return true
		}
	}
	return false
}
