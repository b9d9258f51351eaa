package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by catalog lookups when no record matches. The
// view layer renders it as a "not found" placeholder.
var ErrNotFound = errors.New("not found")

// Dish is a purchasable menu item belonging to one Restaurant.
type Dish struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsPopular   bool    `json:"is_popular"`
}

// Restaurant is an immutable fixture: the dish sequence keeps seed order.
type Restaurant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	Dishes  []Dish `json:"dishes"`
}

// Table is a physical seating unit owned by one Owner.
type Table struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	OwnerID  string `json:"owner_id"`
	Status   string `json:"status"`
}

type Owner struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RestaurantID string  `json:"restaurant_id"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Catalog is the read-only fixture data source. It is built once from the
// embedded seed file and never mutated afterwards; owner edits live in
// session-local overlays on top of it.
type Catalog struct {
	restaurants []Restaurant
	tables      []Table
	owners      []Owner

	restaurantsByID map[string]*Restaurant
	ownersByID      map[string]*Owner
}

func newCatalog(restaurants []Restaurant, tables []Table, owners []Owner) *Catalog {
	c := &Catalog{
		restaurants:     restaurants,
		tables:          tables,
		owners:          owners,
		restaurantsByID: make(map[string]*Restaurant, len(restaurants)),
		ownersByID:      make(map[string]*Owner, len(owners)),
	}
	for i := range c.restaurants {
		c.restaurantsByID[c.restaurants[i].ID] = &c.restaurants[i]
	}
	for i := range c.owners {
		c.ownersByID[c.owners[i].ID] = &c.owners[i]
	}
	return c
}

// clone copies the restaurant including its dish slice, so callers can
// never reach the catalog's backing arrays.
func (r Restaurant) clone() Restaurant {
	out := r
	out.Dishes = make([]Dish, len(r.Dishes))
	copy(out.Dishes, r.Dishes)
	return out
}

// Restaurants returns all restaurants in seed order.
func (c *Catalog) Restaurants() []Restaurant {
	out := make([]Restaurant, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		out = append(out, r.clone())
	}
	return out
}

func (c *Catalog) Restaurant(id string) (*Restaurant, error) {
	r, ok := c.restaurantsByID[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
	}
	copied := r.clone()
	return &copied, nil
}

func (c *Catalog) Owner(id string) (*Owner, error) {
	o, ok := c.ownersByID[id]
	if !ok {
		return nil, fmt.Errorf("owner %s: %w", id, ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

// RestaurantFor resolves the one-to-one owner/restaurant relation.
func (c *Catalog) RestaurantFor(ownerID string) (*Restaurant, error) {
	owner, err := c.Owner(ownerID)
	if err != nil {
		return nil, err
	}
	return c.Restaurant(owner.RestaurantID)
}

// Tables returns all tables in seed order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	copy(out, c.tables)
	return out
}

// TablesFor filters the table collection to those owned by the given owner.
func (c *Catalog) TablesFor(ownerID string) []Table {
	var out []Table
	for _, t := range c.tables {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Table(id string) (*Table, error) {
	for i := range c.tables {
		if c.tables[i].ID == id {
			copied := c.tables[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("table %s: %w", id, ErrNotFound)
}

func (c *Catalog) Dish(restaurantID, dishID string) (*Dish, error) {
	r, err := c.Restaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	for i := range r.Dishes {
		if r.Dishes[i].ID == dishID {
			return &r.Dishes[i], nil
		}
	}
	return nil, fmt.Errorf("dish %s: %w", dishID, ErrNotFound)
}

// PopularDishes collects every dish flagged popular across all restaurants.
func (c *Catalog) PopularDishes() []Dish {
	var out []Dish
	for _, r := range c.restaurants {
		for _, d := range r.Dishes {
			if d.IsPopular {
				out = append(out, d)
			}
		}
	}
	return out
}
