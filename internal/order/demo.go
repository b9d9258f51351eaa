package order

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/nextgenmall/foodcourt/pkg/enums/orderstatus"
)

// ApplyDemoSeeds creates the sample orders the owner dashboard shows:
// one in each lifecycle state, placed earlier the same morning. Seeding
// is skipped when orders already exist so a reload does not duplicate.
func ApplyDemoSeeds(ctx context.Context, m *Manager, logger apt.Logger) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	if m.Len() > 0 {
		logger.Info("Orders already present, skipping demo seeds")
		return nil
	}

	now := time.Now()
	at := func(hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	}

	seeds := []struct {
		customer string
		items    string
		total    float64
		status   string
		placedAt time.Time
	}{
		{"John Doe", "Grilled Chicken x2, Beef Kebabs x1", 3900, orderstatus.Statuses.Preparing.Code(), at(10, 30)},
		{"Sarah Ahmed", "Grilled Fish x1, Coconut Rice x2", 3000, orderstatus.Statuses.Ready.Code(), at(10, 15)},
		{"Mike Johnson", "Beef Kebabs x3", 4500, orderstatus.Statuses.Delivered.Code(), at(9, 45)},
	}

	for _, s := range seeds {
		o, err := m.Place(ctx, s.customer, s.items, s.total, "")
		if err != nil {
			return fmt.Errorf("seed demo order for %s: %w", s.customer, err)
		}
		o.PlacedAt = s.placedAt
		if s.status != orderstatus.Statuses.Preparing.Code() {
			if err := m.SetStatus(ctx, o.ID, s.status); err != nil {
				return fmt.Errorf("seed demo order status for %s: %w", s.customer, err)
			}
		}
	}

	logger.Info("Demo orders seeded", "count", len(seeds))
	return nil
}
