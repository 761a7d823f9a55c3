package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/pixelarena/internal/game/inventory"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestItemDef_Validate(t *testing.T) {
	d := swordDef()
	assert.NoError(t, d.Validate())

	bad := &inventory.ItemDef{}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID must not be empty")
	assert.Contains(t, err.Error(), "Rarity")
	assert.Contains(t, err.Error(), "Slot")
}

func TestLoadItems_SingleAndListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sword.yaml", `
id: iron_sword
name: Iron Sword
rarity: common
slot: weapon
stats:
  strength: 3
`)
	writeFile(t, dir, "armor.yml", `
items:
  - id: leather_vest
    name: Leather Vest
    rarity: common
    slot: armor
    stats:
      vitality: 2
      hp: 15
  - id: lucky_charm
    name: Lucky Charm
    rarity: rare
    slot: accessory
    stats:
      luck: 4
`)
	writeFile(t, dir, "README.txt", "ignored")

	items, err := inventory.LoadItems(dir)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "iron_sword", items[0].ID)
	assert.Equal(t, "leather_vest", items[1].ID)
	assert.Equal(t, 15, items[1].Stats.HP)
	assert.Equal(t, 4, items[2].Stats.Luck)
}

func TestLoadItems_InvalidItem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "id: x\nname: X\nrarity: mythic\nslot: weapon\n")
	_, err := inventory.LoadItems(dir)
	assert.Error(t, err)
}

func TestLoadItems_MissingDir(t *testing.T) {
	_, err := inventory.LoadItems("/nonexistent/items")
	assert.Error(t, err)
}

func TestLoadRegistry_Duplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "id: x\nname: X\nrarity: common\nslot: weapon\n")
	writeFile(t, dir, "b.yaml", "id: x\nname: X2\nrarity: common\nslot: boots\n")
	_, err := inventory.LoadRegistry(dir)
	assert.Error(t, err)
}
