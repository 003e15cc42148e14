// Package goods defines the core domain entities for tradable goods.
// This package is PURE and must NOT import any infrastructure packages.
package goods

import "fmt"

// ID identifies a good in the catalog.
type ID int

// Good is an immutable catalog entry. The price of a good on a given day
// falls in [BasePrice, BasePrice+PriceRange-1] before any market shock.
type Good struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	BasePrice   int    `json:"base_price"`
	PriceRange  int    `json:"price_range"`
	Description string `json:"description"`
	AffectsFame bool   `json:"affects_fame,omitempty"`
	FameChange  int    `json:"fame_change,omitempty"`
}

// Catalog contains all tradable goods, in table order.
var Catalog = []Good{
	{
		ID:          0,
		Name:        "进口香烟",
		Icon:        "🚬",
		BasePrice:   100,
		PriceRange:  350,
		Description: "来自福建的走私香烟",
	},
	{
		ID:          1,
		Name:        "走私汽车",
		Icon:        "🚗",
		BasePrice:   15000,
		PriceRange:  15000,
		Description: "厦门走私的名贵汽车",
	},
	{
		ID:          2,
		Name:        "盗版VCD和游戏",
		Icon:        "💿",
		BasePrice:   5,
		PriceRange:  50,
		Description: "盗版VCD港台片和游戏软件",
	},
	{
		ID:          3,
		Name:        "山西假白酒",
		Icon:        "🍶",
		BasePrice:   1000,
		PriceRange:  2500,
		Description: "假白酒（剧毒！）",
		AffectsFame: true,
		FameChange:  -10,
	},
	{
		ID:          4,
		Name:        "《上海小宝贝》（禁书）",
		Icon:        "📕",
		BasePrice:   5000,
		PriceRange:  9000,
		Description: "功效甚过伟哥的禁书",
		AffectsFame: true,
		FameChange:  -7,
	},
	{
		ID:          5,
		Name:        "进口玩具",
		Icon:        "🧸",
		BasePrice:   250,
		PriceRange:  600,
		Description: "提高大学生\"动手素质\"",
	},
	{
		ID:          6,
		Name:        "水货手机",
		Icon:        "📱",
		BasePrice:   750,
		PriceRange:  750,
		Description: "无任何厂商标识的水货手机",
	},
	{
		ID:          7,
		Name:        "伪劣化妆品",
		Icon:        "💄",
		BasePrice:   65,
		PriceRange:  180,
		Description: "谢不疯都在用的化妆品",
	},
}

// Index provides O(1) lookups by good ID, built once at startup.
type Index struct {
	byID map[ID]Good
	ids  []ID
}

// NewIndex builds an indexed view over a catalog. It fails fast on
// malformed data: duplicate IDs, negative base prices, or non-positive
// price ranges are programming errors, not runtime conditions.
func NewIndex(catalog []Good) (*Index, error) {
	idx := &Index{
		byID: make(map[ID]Good, len(catalog)),
		ids:  make([]ID, 0, len(catalog)),
	}
	for _, g := range catalog {
		if _, dup := idx.byID[g.ID]; dup {
			return nil, fmt.Errorf("goods catalog: duplicate id %d", g.ID)
		}
		if g.BasePrice < 0 {
			return nil, fmt.Errorf("goods catalog: good %d has negative base price", g.ID)
		}
		if g.PriceRange <= 0 {
			return nil, fmt.Errorf("goods catalog: good %d has non-positive price range", g.ID)
		}
		idx.byID[g.ID] = g
		idx.ids = append(idx.ids, g.ID)
	}
	return idx, nil
}

// MustIndex builds the default catalog index or panics. Catalog data is
// validated once at load time; the rest of the server trusts it.
func MustIndex() *Index {
	idx, err := NewIndex(Catalog)
	if err != nil {
		panic(err)
	}
	return idx
}

// Get returns the good for an ID.
func (idx *Index) Get(id ID) (Good, bool) {
	g, ok := idx.byID[id]
	return g, ok
}

// IDs returns all good IDs in catalog table order.
func (idx *Index) IDs() []ID {
	return idx.ids
}

// Count returns the number of goods in the catalog.
func (idx *Index) Count() int {
	return len(idx.ids)
}
