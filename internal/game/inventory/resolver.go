package inventory

import "github.com/cory-johannsen/pixelarena/internal/game/character"

// TotalBonuses sums the bonuses of every id in ids that cat can resolve.
// Unknown ids contribute nothing. Duplicated ids count once per occurrence.
//
// Postcondition: the result does not depend on the order of ids.
func TotalBonuses(ids []string, cat Catalog) StatBonuses {
	var total StatBonuses
	if cat == nil {
		return total
	}
	for _, id := range ids {
		d, ok := cat.Item(id)
		if !ok {
			continue
		}
		total = total.Add(d.Stats)
	}
	return total
}

// ApplyEquipment returns the effective character used for a fight: c with the
// summed item bonuses added to each raw stat, and the HP bonus added to both HP
// and MaxHP. HP is clamped to the new MaxHP.
//
// Precondition: c is a hydrated character.
// Postcondition: c is not modified; applying to the same inventory in any order
// yields identical results.
func ApplyEquipment(c character.Character, cat Catalog) character.Character {
	b := TotalBonuses(c.Inventory, cat)
	out := c.Clone()
	out.Stats = c.Stats.Add(character.Stats{
		Strength:     b.Strength,
		Vitality:     b.Vitality,
		Dexterity:    b.Dexterity,
		Luck:         b.Luck,
		Intelligence: b.Intelligence,
		Focus:        b.Focus,
	})
	out.MaxHP = c.MaxHP + b.HP
	out.HP = c.HP + b.HP
	if out.HP > out.MaxHP {
		out.HP = out.MaxHP
	}
	return out
}
