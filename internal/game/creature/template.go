// Package creature provides the creature catalog and live creature instances.
package creature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

// Template ids the population rules single out.
const (
	GuardID  = 10
	PirateID = 18
	RogueID  = 39
)

// DefaultDefense is the hit threshold used when a template leaves defense unset.
const DefaultDefense = 128

// Alignment decides reputation consequences of fighting a creature.
type Alignment string

const (
	Evil    Alignment = "evil"
	Good    Alignment = "good"
	Neutral Alignment = "neutral"
)

// Template is an immutable creature archetype loaded from YAML.
type Template struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	// Tile is the tile name drawn for this creature; it is unique per catalog.
	Tile string `yaml:"tile"`
	// Leader is the template id this creature follows. Zero means itself.
	Leader        int       `yaml:"leader"`
	BaseHP        int       `yaml:"base_hp"`
	EncounterSize int       `yaml:"encounter_size"`
	Alignment     Alignment `yaml:"alignment"`
	Defense       int       `yaml:"defense"`
	Offense       int       `yaml:"offense"`
	Damage        string    `yaml:"damage"`
	// XP is awarded to the party member who lands the killing blow.
	XP int `yaml:"xp"`

	LeavesChest          bool `yaml:"leaves_chest"`
	PirateShip           bool `yaml:"pirate_ship"`
	Ranged               bool `yaml:"ranged"`
	RandomRanged         bool `yaml:"random_ranged"`
	AttackThroughObjects bool `yaml:"attack_through_objects"`
	CastsSleep           bool `yaml:"casts_sleep"`
	Stationary           bool `yaml:"stationary"`
	// LeavesTile marks ranged attackers whose hit tile stays on the ground.
	LeavesTile bool `yaml:"leaves_tile"`

	HitTile  string `yaml:"hit_tile"`
	MissTile string `yaml:"miss_tile"`
	// RangedTiles is the pool a random-ranged attacker draws its hit tile from.
	RangedTiles []string    `yaml:"ranged_tiles"`
	Resists     tile.Effect `yaml:"resists"`
	AIDomain    string      `yaml:"ai_domain"`
	Chest       *ChestLoot  `yaml:"chest"`

	damage dice.Expression
}

// IsEvil reports whether killing this creature is virtuous.
func (t *Template) IsEvil() bool { return t.Alignment == Evil }

// IsGood reports whether fleeing this creature is virtuous.
func (t *Template) IsGood() bool { return t.Alignment == Good }

// HasLeader reports whether the template follows a different template.
func (t *Template) HasLeader() bool { return t.Leader != t.ID }

// DamageExpr returns the parsed natural-attack damage.
func (t *Template) DamageExpr() dice.Expression { return t.damage }

// Validate checks the template invariants and fills defaults.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID >= 1, Name and Tile are non-empty,
// BaseHP >= 1, EncounterSize >= 0, Alignment is known, and Damage parses.
// On success Leader, Defense, HitTile, MissTile and Alignment are defaulted.
func (t *Template) Validate() error {
	if t.ID < 1 {
		return fmt.Errorf("creature template: id must be >= 1, got %d", t.ID)
	}
	if t.Name == "" {
		return fmt.Errorf("creature template %d: name must not be empty", t.ID)
	}
	if t.Tile == "" {
		return fmt.Errorf("creature template %q: tile must not be empty", t.Name)
	}
	if t.BaseHP < 1 {
		return fmt.Errorf("creature template %q: base_hp must be >= 1", t.Name)
	}
	if t.EncounterSize < 0 {
		return fmt.Errorf("creature template %q: encounter_size must be >= 0", t.Name)
	}
	if t.XP < 0 {
		return fmt.Errorf("creature template %q: xp must be >= 0", t.Name)
	}
	switch t.Alignment {
	case "":
		t.Alignment = Evil
	case Evil, Good, Neutral:
	default:
		return fmt.Errorf("creature template %q: unknown alignment %q", t.Name, t.Alignment)
	}
	if t.Damage == "" {
		t.Damage = "1d4"
	}
	expr, err := dice.Parse(t.Damage)
	if err != nil {
		return fmt.Errorf("creature template %q: %w", t.Name, err)
	}
	t.damage = expr
	if t.RandomRanged && len(t.RangedTiles) == 0 {
		return fmt.Errorf("creature template %q: random_ranged requires ranged_tiles", t.Name)
	}
	if t.Chest != nil {
		if err := t.Chest.Validate(); err != nil {
			return fmt.Errorf("creature template %q: %w", t.Name, err)
		}
	}
	if t.Leader == 0 {
		t.Leader = t.ID
	}
	if t.Defense == 0 {
		t.Defense = DefaultDefense
	}
	if t.HitTile == "" {
		t.HitTile = tile.HitFlash
	}
	if t.MissTile == "" {
		t.MissTile = tile.MissFlash
	}
	return nil
}

// TileNames lists every tile the template refers to.
func (t *Template) TileNames() []string {
	names := append([]string{t.Tile, t.HitTile, t.MissTile}, t.RangedTiles...)
	return names
}

// LoadTemplatesFromBytes parses a YAML document holding a list of templates
// under the top-level "creatures" key.
//
// Postcondition: Returns validated templates or the first error.
func LoadTemplatesFromBytes(data []byte) ([]*Template, error) {
	var doc struct {
		Creatures []*Template `yaml:"creatures"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing creature YAML: %w", err)
	}
	for _, t := range doc.Creatures {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Creatures, nil
}

// LoadTemplates reads all *.yaml files in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		loaded, err := LoadTemplatesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, loaded...)
	}
	return templates, nil
}
