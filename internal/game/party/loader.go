package party

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

type yamlMember struct {
	Name   string `yaml:"name"`
	Class  string `yaml:"class"`
	Str    int    `yaml:"str"`
	Dex    int    `yaml:"dex"`
	HP     int    `yaml:"hp"`
	MaxHP  int    `yaml:"max_hp"`
	XP     int    `yaml:"xp"`
	Weapon string `yaml:"weapon"`
	Armor  string `yaml:"armor"`
	Status string `yaml:"status"`
}

type yamlParty struct {
	Food    int            `yaml:"food"`
	Gold    int            `yaml:"gold"`
	Karma   map[string]int `yaml:"karma"`
	Stock   map[string]int `yaml:"stock"`
	Members []yamlMember   `yaml:"members"`
}

// LoadFromBytes builds a Party from a YAML roster, resolving gear in reg.
//
// Precondition: reg holds the hands weapon; logger must be non-nil.
// Postcondition: Returns a Party with 1..MaxMembers members whose weapons and
// armour resolve, or an error naming the first problem.
func LoadFromBytes(data []byte, reg *inventory.Registry, logger *zap.Logger) (*Party, error) {
	var yp yamlParty
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return nil, fmt.Errorf("parsing party YAML: %w", err)
	}
	if len(yp.Members) == 0 || len(yp.Members) > MaxMembers {
		return nil, fmt.Errorf("party must have 1-%d members, got %d", MaxMembers, len(yp.Members))
	}

	p := &Party{
		food:   yp.Food,
		gold:   yp.Gold,
		stock:  make(map[string]int, len(yp.Stock)),
		active: -1,
		gear:   reg,
		logger: logger,
	}
	for v := range p.karma {
		p.karma[v] = 50
	}
	for name, val := range yp.Karma {
		v, err := ParseVirtue(name)
		if err != nil {
			return nil, err
		}
		p.karma[v] = min(max(val, 0), KarmaCap)
	}
	for id, n := range yp.Stock {
		if reg.Weapon(id) == nil {
			return nil, fmt.Errorf("party stock names unknown weapon %q", id)
		}
		p.stock[id] = n
	}

	for i, ym := range yp.Members {
		m, err := buildMember(ym, reg)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		if m.weapon.ID != inventory.HandsID && p.stock[m.weapon.ID] < 1 {
			p.stock[m.weapon.ID] = 1
		}
		p.members = append(p.members, m)
	}
	p.EndTurn()
	return p, nil
}

func buildMember(ym yamlMember, reg *inventory.Registry) (*Member, error) {
	if ym.Name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if ym.MaxHP < 1 {
		return nil, fmt.Errorf("%s: max_hp must be >= 1", ym.Name)
	}
	m := &Member{
		Name:  ym.Name,
		Class: ym.Class,
		Str:   ym.Str,
		Dex:   ym.Dex,
		HP:    ym.HP,
		MaxHP: ym.MaxHP,
		XP:    ym.XP,
	}
	if m.HP == 0 {
		m.HP = m.MaxHP
	}
	weaponID := ym.Weapon
	if weaponID == "" {
		weaponID = inventory.HandsID
	}
	m.weapon = reg.Weapon(weaponID)
	if m.weapon == nil {
		return nil, fmt.Errorf("%s: unknown weapon %q", ym.Name, weaponID)
	}
	if ym.Armor != "" {
		m.armor = reg.Armor(ym.Armor)
		if m.armor == nil {
			return nil, fmt.Errorf("%s: unknown armor %q", ym.Name, ym.Armor)
		}
	}
	if ym.Status != "" {
		s, err := condition.ParseStatus(ym.Status)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ym.Name, err)
		}
		m.status = s
	}
	return m, nil
}

// Load reads a party roster file.
func Load(path string, reg *inventory.Registry, logger *zap.Logger) (*Party, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading party %s: %w", path, err)
	}
	return LoadFromBytes(data, reg, logger)
}
