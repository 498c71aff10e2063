package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry holds all loaded weapon and armour definitions indexed by ID.
type Registry struct {
	weapons map[string]*WeaponDef
	armor   map[string]*ArmorDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		armor:   make(map[string]*ArmorDef),
	}
}

// RegisterWeapon validates and adds w.
//
// Precondition: w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w is invalid or
// w.ID is already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor validates and adds a.
func (r *Registry) RegisterArmor(a *ArmorDef) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := r.armor[a.ID]; exists {
		return fmt.Errorf("inventory: armor ID %q already registered", a.ID)
	}
	r.armor[a.ID] = a
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Armor returns the ArmorDef for the given id, or nil if not found.
func (r *Registry) Armor(id string) *ArmorDef {
	return r.armor[id]
}

// Hands returns the bare-hands weapon.
//
// Precondition: the registry was built by Load or had HandsID registered.
func (r *Registry) Hands() *WeaponDef {
	return r.weapons[HandsID]
}

// AllWeapons returns every weapon sorted by id.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TileNames lists every tile referenced by registered weapons.
func (r *Registry) TileNames() []string {
	var names []string
	for _, w := range r.AllWeapons() {
		names = append(names, w.TileNames()...)
	}
	return names
}

type gearFile struct {
	Weapons []*WeaponDef `yaml:"weapons"`
	Armor   []*ArmorDef  `yaml:"armor"`
}

// LoadBytes registers every weapon and armour piece in a YAML document.
func (r *Registry) LoadBytes(data []byte) error {
	var f gearFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing gear YAML: %w", err)
	}
	for _, w := range f.Weapons {
		if err := r.RegisterWeapon(w); err != nil {
			return err
		}
	}
	for _, a := range f.Armor {
		if err := r.RegisterArmor(a); err != nil {
			return err
		}
	}
	return nil
}

// Load reads all *.yaml files from dir into a new Registry.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a Registry holding the hands weapon, or the first error.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("inventory: cannot read directory %q: %w", dir, err)
	}
	r := NewRegistry()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("inventory: cannot read file %q: %w", path, err)
		}
		if err := r.LoadBytes(data); err != nil {
			return nil, fmt.Errorf("inventory: %q: %w", path, err)
		}
	}
	if r.Hands() == nil {
		return nil, fmt.Errorf("inventory: no %q weapon defined in %q", HandsID, dir)
	}
	return r, nil
}
