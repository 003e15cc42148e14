// Package city defines the domain entities for trading locations.
// This package is PURE and must NOT import any infrastructure packages.
package city

import "fmt"

// LocationID is the unique string key of a location.
type LocationID string

// Location is an immutable catalog entry. Locations share the same price
// generation algorithm; they differ only by the random draw.
type Location struct {
	ID   LocationID `json:"id"`
	Name string     `json:"name"`
	Icon string     `json:"icon"`
}

// Catalog contains all city locations, in table order.
var Catalog = []Location{
	{ID: "tianqiao", Name: "天桥", Icon: "🌉"},
	{ID: "dongdan", Name: "东单", Icon: "🏬"},
	{ID: "xizhimen", Name: "西直门", Icon: "🚇"},
	{ID: "wangfujing", Name: "王府井", Icon: "🏰"},
	{ID: "zhongguancun", Name: "中关村", Icon: "💻"},
	{ID: "cbd", Name: "国贸CBD", Icon: "🏢"},
	{ID: "houhai", Name: "后海", Icon: "🌊"},
	{ID: "sanlitun", Name: "三里屯", Icon: "🍸"},
}

// Index provides O(1) lookups by location ID, built once at startup.
type Index struct {
	byID map[LocationID]Location
	ids  []LocationID
}

// NewIndex builds an indexed view over a location catalog.
func NewIndex(catalog []Location) (*Index, error) {
	idx := &Index{
		byID: make(map[LocationID]Location, len(catalog)),
		ids:  make([]LocationID, 0, len(catalog)),
	}
	for _, l := range catalog {
		if l.ID == "" {
			return nil, fmt.Errorf("city catalog: location with empty id")
		}
		if _, dup := idx.byID[l.ID]; dup {
			return nil, fmt.Errorf("city catalog: duplicate id %q", l.ID)
		}
		idx.byID[l.ID] = l
		idx.ids = append(idx.ids, l.ID)
	}
	return idx, nil
}

// MustIndex builds the default catalog index or panics.
func MustIndex() *Index {
	idx, err := NewIndex(Catalog)
	if err != nil {
		panic(err)
	}
	return idx
}

// Get returns the location for an ID.
func (idx *Index) Get(id LocationID) (Location, bool) {
	l, ok := idx.byID[id]
	return l, ok
}

// Default returns the starting location for new players.
func (idx *Index) Default() LocationID {
	return idx.ids[0]
}

// IDs returns all location IDs in catalog table order.
func (idx *Index) IDs() []LocationID {
	return idx.ids
}
