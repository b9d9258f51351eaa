package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/nextgenmall/foodcourt/pkg/enums/tablestatus"
)

type seedDocument struct {
	Restaurants []Restaurant `json:"restaurants"`
	Tables      []Table      `json:"tables"`
	Owners      []Owner      `json:"owners"`
}

// Load builds the catalog from the embedded seed file. The seed is the
// only write the catalog ever sees.
func Load(seedFS embed.FS, logger apt.Logger) (*Catalog, error) {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	seedBytes, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	catalog, err := Parse(seedBytes)
	if err != nil {
		return nil, err
	}

	logger.Info("Catalog seeded",
		"restaurants", len(catalog.restaurants),
		"tables", len(catalog.tables),
		"owners", len(catalog.owners),
	)
	return catalog, nil
}

// Parse decodes and validates a seed document.
func Parse(seedBytes []byte) (*Catalog, error) {
	if len(seedBytes) == 0 {
		return nil, errors.New("catalog seed file is empty")
	}

	var doc seedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog seed file: %w", err)
	}

	if len(doc.Restaurants) == 0 {
		return nil, errors.New("catalog seed file does not contain restaurants")
	}

	for i := range doc.Restaurants {
		r := &doc.Restaurants[i]
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("restaurant %q has no id", r.Name)
		}
		for j := range r.Dishes {
			d := &r.Dishes[j]
			if strings.TrimSpace(d.ID) == "" {
				return nil, fmt.Errorf("dish %q in restaurant %s has no id", d.Name, r.ID)
			}
			if d.Price < 0 {
				return nil, fmt.Errorf("dish %s has negative price", d.ID)
			}
		}
	}

	for i := range doc.Tables {
		t := &doc.Tables[i]
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("table %q has no id", t.Number)
		}
		if t.Status == "" {
			t.Status = tablestatus.Statuses.Available.Code()
		}
		if tablestatus.ByName(t.Status) == nil {
			return nil, fmt.Errorf("table %s has invalid status %q", t.ID, t.Status)
		}
	}

	for i := range doc.Owners {
		o := &doc.Owners[i]
		if strings.TrimSpace(o.ID) == "" {
			return nil, fmt.Errorf("owner %q has no id", o.Name)
		}
	}

	return newCatalog(doc.Restaurants, doc.Tables, doc.Owners), nil
}
