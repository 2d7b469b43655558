// Package catalog describes the tracked items and the indexes built over them.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"SkinIndex/internal/config"
	"SkinIndex/internal/model"
)

// AllIndex is the name of the index spanning every item.
const AllIndex = "all-skins"

// tierOrder ranks tiers by rarity; unknown tiers sort after these.
var tierOrder = []string{model.TierGray, model.TierLightblue, model.TierBlue, model.TierPurple}

// Catalog is the set of tracked items.
type Catalog struct {
	Items  []model.Item
	titles map[string]string
}

// FromConfig builds a catalog from the configured collections.
func FromConfig(cols []config.Collection) *Catalog {
	c := &Catalog{titles: make(map[string]string)}
	for _, col := range cols {
		if col.Title != "" {
			c.titles[col.Name] = col.Title
		}
		for _, tier := range sortedTiers(col.Tiers) {
			for _, name := range col.Tiers[tier] {
				c.Items = append(c.Items, model.Item{Name: name, Collection: col.Name, Tier: tier})
			}
		}
	}
	return c
}

// Discover walks <dir>/raw/<collection>/<tier>/<item> and builds a catalog of every item directory found.
func Discover(dir string) (*Catalog, error) {
	root := filepath.Join(dir, "raw")
	cols, err := subdirs(root)
	if err != nil {
		return nil, fmt.Errorf("discover catalog: %w", err)
	}

	var cfg []config.Collection
	for _, col := range cols {
		tiers, err := subdirs(filepath.Join(root, col))
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", col, err)
		}
		entry := config.Collection{Name: col, Tiers: make(map[string][]string)}
		for _, tier := range tiers {
			items, err := subdirs(filepath.Join(root, col, tier))
			if err != nil {
				return nil, fmt.Errorf("discover %s/%s: %w", col, tier, err)
			}
			entry.Tiers[tier] = items
		}
		cfg = append(cfg, entry)
	}
	return FromConfig(cfg), nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Indexes returns every index over the catalog: all items, then one per
// collection in catalog order, then one per tier by rarity.
func (c *Catalog) Indexes() []model.IndexDefinition {
	defs := []model.IndexDefinition{{
		Name:  AllIndex,
		Title: "All Skins",
		Kind:  model.KindAll,
		Items: slices.Clone(c.Items),
	}}

	var cols []string
	byCol := make(map[string][]model.Item)
	tierSet := make(map[string][]string)
	byTier := make(map[string][]model.Item)
	for _, it := range c.Items {
		if _, ok := byCol[it.Collection]; !ok {
			cols = append(cols, it.Collection)
		}
		byCol[it.Collection] = append(byCol[it.Collection], it)
		byTier[it.Tier] = append(byTier[it.Tier], it)
		tierSet[it.Tier] = nil
	}

	for _, col := range cols {
		defs = append(defs, model.IndexDefinition{
			Name:  Slug(c.title(col)),
			Title: c.title(col),
			Kind:  model.KindCollection,
			Items: byCol[col],
		})
	}
	for _, tier := range sortedTiers(tierSet) {
		defs = append(defs, model.IndexDefinition{
			Name:  Slug(tier),
			Title: Title(tier),
			Kind:  model.KindTier,
			Items: byTier[tier],
		})
	}
	return defs
}

func (c *Catalog) title(col string) string {
	if t, ok := c.titles[col]; ok {
		return t
	}
	return Title(col)
}

// Slug lowercases name and joins its words with dashes ("St Marc" -> "st-marc").
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(name, "_", " "))), "-")
}

// Title capitalizes each dash or space separated word of name.
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedTiers[V any](tiers map[string]V) []string {
	out := make([]string, 0, len(tiers))
	for t := range tiers {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return out
}

func rank(tier string) int {
	if i := slices.Index(tierOrder, tier); i >= 0 {
		return i
	}
	return len(tierOrder)
}
