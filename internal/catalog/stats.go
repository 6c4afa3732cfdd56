package catalog

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/stokosor/internal/domain"
)

// ExpiryWindow is how far ahead Stats looks for expiring items.
const ExpiryWindow = 30 * 24 * time.Hour

type CategoryStat struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

// Expiring is an item whose expiration date is past or within ExpiryWindow.
// DaysLeft is negative once expired.
type Expiring struct {
	ItemID         string `json:"item_id"`
	Name           string `json:"name"`
	ExpirationDate string `json:"expiration_date"`
	DaysLeft       int    `json:"days_left"`
}

type Stats struct {
	Places      int             `json:"places"`
	Zones       int             `json:"zones"`
	Containers  int             `json:"containers"`
	Items       int             `json:"items"`
	TotalValue  decimal.Decimal `json:"total_value"`
	ValuedItems int             `json:"valued_items"`
	ByCategory  []CategoryStat  `json:"by_category"`
	Expiring    []Expiring      `json:"expiring"`
}

// Stats summarizes the cached inventory as of now.
func (c *Catalog) Stats(now time.Time) Stats {
	items := c.items.All()
	s := Stats{
		Places:     len(c.places.All()),
		Zones:      len(c.zones.All()),
		Containers: len(c.containers.All()),
		Items:      len(items),
	}

	perCategory := make(map[domain.Category]*CategoryStat)
	for _, it := range items {
		cs, ok := perCategory[it.Category]
		if !ok {
			cs = &CategoryStat{Category: it.Category}
			perCategory[it.Category] = cs
		}
		cs.Count++

		if it.EstimatedValue != nil && !it.EstimatedValue.IsZero() {
			s.TotalValue = s.TotalValue.Add(*it.EstimatedValue)
			s.ValuedItems++
			cs.Value = cs.Value.Add(*it.EstimatedValue)
		}

		if e, ok := expiring(it, now); ok {
			s.Expiring = append(s.Expiring, e)
		}
	}

	for _, cat := range domain.Categories {
		if cs, ok := perCategory[cat]; ok {
			s.ByCategory = append(s.ByCategory, *cs)
		}
	}
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Count > s.ByCategory[j].Count
	})
	sort.SliceStable(s.Expiring, func(i, j int) bool {
		return s.Expiring[i].DaysLeft < s.Expiring[j].DaysLeft
	})
	return s
}

func expiring(it domain.Item, now time.Time) (Expiring, bool) {
	if it.ExpirationDate == nil {
		return Expiring{}, false
	}
	date, ok := parseDate(*it.ExpirationDate)
	if !ok || date.After(now.Add(ExpiryWindow)) {
		return Expiring{}, false
	}
	days := int(math.Ceil(date.Sub(now).Hours() / 24))
	return Expiring{
		ItemID:         it.ID,
		Name:           it.Name,
		ExpirationDate: *it.ExpirationDate,
		DaysLeft:       days,
	}, true
}

// parseDate accepts a bare date (read as UTC midnight) or a full timestamp.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
