package inventory

import "fmt"

// ArmorDef defines a worn armour piece. Defense lowers a creature's chance to hit.
type ArmorDef struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Defense int    `yaml:"defense"`
}

// Validate reports an error if the ArmorDef is missing required fields.
//
// Postcondition: Returns nil iff ID and Name are set and 0 <= Defense <= 255.
func (a *ArmorDef) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("armor: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("armor %q: name must not be empty", a.ID)
	}
	if a.Defense < 0 || a.Defense > 255 {
		return fmt.Errorf("armor %q: defense must be 0-255, got %d", a.ID, a.Defense)
	}
	return nil
}
