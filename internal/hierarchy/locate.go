package hierarchy

import "github.com/vbonduro/stokosor/internal/domain"

// Locator renders "Place › Zone › Container › ..." paths.
type Locator struct {
	places map[string]domain.Place
	zones  map[string]domain.Zone
	index  *Index
}

func NewLocator(places []domain.Place, zones []domain.Zone, containers []domain.Container) *Locator {
	l := &Locator{
		places: make(map[string]domain.Place, len(places)),
		zones:  make(map[string]domain.Zone, len(zones)),
		index:  NewIndex(containers),
	}
	for _, p := range places {
		l.places[p.ID] = p
	}
	for _, z := range zones {
		l.zones[z.ID] = z
	}
	return l
}

// ContainerPath names every level down to containerID. An unknown
// container yields ""; a missing zone or place is left out of the path.
func (l *Locator) ContainerPath(containerID string) string {
	path := l.index.AncestorPath(containerID)
	if len(path) == 0 {
		return ""
	}
	names := Names(path)

	zone, ok := l.zones[path[len(path)-1].ZoneID]
	if !ok {
		return JoinPath(names...)
	}
	names = append([]string{zone.Name}, names...)

	place, ok := l.places[zone.PlaceID]
	if !ok {
		return JoinPath(names...)
	}
	return JoinPath(append([]string{place.Name}, names...)...)
}

// ItemPath is the path of the container holding it.
func (l *Locator) ItemPath(it domain.Item) string {
	return l.ContainerPath(it.ContainerID)
}
