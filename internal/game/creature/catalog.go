package creature

import (
	"fmt"
	"sort"
)

// Catalog is the read-only set of creature templates.
type Catalog struct {
	byID   map[int]*Template
	byTile map[string]*Template
}

// NewCatalog indexes templates by id and tile.
//
// Precondition: every template has passed Validate.
// Postcondition: Returns an error on duplicate ids or tiles, or on a leader
// that names no template.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[int]*Template, len(templates)),
		byTile: make(map[string]*Template, len(templates)),
	}
	for _, t := range templates {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("creature catalog: duplicate id %d", t.ID)
		}
		if _, dup := c.byTile[t.Tile]; dup {
			return nil, fmt.Errorf("creature catalog: duplicate tile %q", t.Tile)
		}
		c.byID[t.ID] = t
		c.byTile[t.Tile] = t
	}
	for _, t := range templates {
		if _, ok := c.byID[t.Leader]; !ok {
			return nil, fmt.Errorf("creature catalog: %q names unknown leader %d", t.Name, t.Leader)
		}
	}
	return c, nil
}

// LoadCatalog loads every template in dir and indexes them.
func LoadCatalog(dir string) (*Catalog, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(templates)
}

// ByID returns the template with the given id.
func (c *Catalog) ByID(id int) (*Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// ByTile returns the template drawn with the given tile name.
func (c *Catalog) ByTile(name string) (*Template, bool) {
	t, ok := c.byTile[name]
	return t, ok
}

// Leader returns the template t follows, which is t itself when it has no leader.
func (c *Catalog) Leader(t *Template) *Template {
	if l, ok := c.byID[t.Leader]; ok {
		return l
	}
	return t
}

// All returns every template ordered by id.
func (c *Catalog) All() []*Template {
	out := make([]*Template, 0, len(c.byID))
	for _, t := range c.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TileNames lists every tile the catalog refers to, for load-time checks.
func (c *Catalog) TileNames() []string {
	var names []string
	for _, t := range c.All() {
		names = append(names, t.TileNames()...)
	}
	return names
}
