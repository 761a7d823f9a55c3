// Package inventory provides the item catalog and the equipment resolver that
// folds carried item bonuses into a character's stats.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rarity constants for ItemDef.Rarity.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Slot constants for ItemDef.Slot.
const (
	SlotWeapon    = "weapon"
	SlotArmor     = "armor"
	SlotHelmet    = "helmet"
	SlotBoots     = "boots"
	SlotAccessory = "accessory"
)

var validRarities = map[string]bool{
	RarityCommon:    true,
	RarityUncommon:  true,
	RarityRare:      true,
	RarityEpic:      true,
	RarityLegendary: true,
}

var validSlots = map[string]bool{
	SlotWeapon:    true,
	SlotArmor:     true,
	SlotHelmet:    true,
	SlotBoots:     true,
	SlotAccessory: true,
}

// StatBonuses is the partial stat block an item grants. Zero fields grant nothing.
type StatBonuses struct {
	Strength     int `yaml:"strength"`
	Vitality     int `yaml:"vitality"`
	Dexterity    int `yaml:"dexterity"`
	Luck         int `yaml:"luck"`
	Intelligence int `yaml:"intelligence"`
	Focus        int `yaml:"focus"`
	HP           int `yaml:"hp"`
}

// Add returns the field-wise sum of b and o.
func (b StatBonuses) Add(o StatBonuses) StatBonuses {
	return StatBonuses{
		Strength:     b.Strength + o.Strength,
		Vitality:     b.Vitality + o.Vitality,
		Dexterity:    b.Dexterity + o.Dexterity,
		Luck:         b.Luck + o.Luck,
		Intelligence: b.Intelligence + o.Intelligence,
		Focus:        b.Focus + o.Focus,
		HP:           b.HP + o.HP,
	}
}

// ItemDef defines the static properties of a catalog item loaded from YAML.
type ItemDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Rarity      string      `yaml:"rarity"`
	Slot        string      `yaml:"slot"`
	Stats       StatBonuses `yaml:"stats"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validRarities[d.Rarity] {
		errs = append(errs, fmt.Errorf("Rarity must be one of common, uncommon, rare, epic, legendary; got %q", d.Rarity))
	}
	if !validSlots[d.Slot] {
		errs = append(errs, fmt.Errorf("Slot must be one of weapon, armor, helmet, boots, accessory; got %q", d.Slot))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// itemFile is the on-disk shape: either a single item or a list under "items".
type itemFile struct {
	ItemDef `yaml:",inline"`
	Items   []ItemDef `yaml:"items"`
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as one
// ItemDef or an "items" list, validates them, and returns the collected slice
// sorted by ID.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var f itemFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		defs := f.Items
		if len(defs) == 0 {
			defs = []ItemDef{f.ItemDef}
		}
		for i := range defs {
			d := defs[i]
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
			}
			items = append(items, &d)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
