package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/stokosor/internal/domain"
)

func TestLocatorItemPath(t *testing.T) {
	places := []domain.Place{{ID: "garage", Name: "Garage"}}
	zones := []domain.Zone{{ID: "shelf-unit", PlaceID: "garage", Name: "Shelf Unit"}}
	containers := garage()

	tests := []struct {
		name    string
		locator *Locator
		item    domain.Item
		want    string
	}{
		{
			name:    "full path",
			locator: NewLocator(places, zones, containers),
			item:    domain.Item{Name: "Screwdriver", ContainerID: "bag-1"},
			want:    "Garage › Shelf Unit › Bin A › Bag 1",
		},
		{
			name:    "root container",
			locator: NewLocator(places, zones, containers),
			item:    domain.Item{ContainerID: "bin-b"},
			want:    "Garage › Shelf Unit › Bin B",
		},
		{
			name:    "place missing",
			locator: NewLocator(nil, zones, containers),
			item:    domain.Item{ContainerID: "bag-1"},
			want:    "Shelf Unit › Bin A › Bag 1",
		},
		{
			name:    "zone missing",
			locator: NewLocator(places, nil, containers),
			item:    domain.Item{ContainerID: "pouch"},
			want:    "Bin A › Bag 1 › Pouch",
		},
		{
			name:    "container missing",
			locator: NewLocator(places, zones, containers),
			item:    domain.Item{ContainerID: "ghost"},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.locator.ItemPath(tt.item))
		})
	}
}
