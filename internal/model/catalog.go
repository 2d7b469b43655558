package model

// Tier names in ascending rarity.
const (
	TierGray      = "gray"
	TierLightblue = "lightblue"
	TierBlue      = "blue"
	TierPurple    = "purple"
)

// IndexKind tells how an index groups its items.
type IndexKind string

const (
	KindAll        IndexKind = "all"
	KindCollection IndexKind = "collection"
	KindTier       IndexKind = "tier"
)

// Item is a single collectible tracked by the catalog.
type Item struct {
	Name       string `json:"name" yaml:"name"`
	Collection string `json:"collection" yaml:"-"`
	Tier       string `json:"tier" yaml:"-"`
}

// Key identifies the item across collections.
func (i Item) Key() string {
	return i.Collection + "/" + i.Tier + "/" + i.Name
}

// IndexDefinition is a named grouping of items whose observations are aggregated together.
type IndexDefinition struct {
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Kind  IndexKind `json:"kind"`
	Items []Item    `json:"items"`
}
