// Package namegen generates display names for generated fighters. Uniqueness is
// scoped to an explicit Registry supplied by the caller; there is no global
// record of names already handed out.
package namegen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

var (
	prefixes = []string{
		"Pix", "Bit", "Byte", "Glitch", "Vox", "Nib", "Chip", "Sprite",
		"Dot", "Blip", "Zap", "Rex", "Kilo", "Mega", "Tile", "Quad",
	}
	suffixes = []string{
		"zor", "ling", "bane", "fist", "wick", "mancer", "blade", "heart",
		"spark", "shard", "fang", "borne", "crest", "strike", "vale", "wyn",
	}
)

// maxAttempts bounds how many fresh draws Generate makes before falling back
// to a numbered suffix.
const maxAttempts = 32

// Registry tracks the names taken within one scope (a session, a batch of bots,
// a single request). All methods are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	taken map[string]bool
}

// NewRegistry returns an empty Registry, optionally pre-seeded with names
// already in use.
//
// Postcondition: Taken(n) is true for every n in existing.
func NewRegistry(existing ...string) *Registry {
	r := &Registry{taken: make(map[string]bool, len(existing))}
	for _, n := range existing {
		r.taken[normalize(n)] = true
	}
	return r
}

// Taken reports whether name has been claimed in this registry.
func (r *Registry) Taken(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taken[normalize(name)]
}

// Claim reserves name.
//
// Postcondition: Returns false iff name was already claimed.
func (r *Registry) Claim(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := normalize(name)
	if r.taken[key] {
		return false
	}
	r.taken[key] = true
	return true
}

// Release frees name for reuse.
func (r *Registry) Release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.taken, normalize(name))
}

// Len returns the number of claimed names.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.taken)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func pick(src dice.Source, list []string) string {
	i := int(src.Float64() * float64(len(list)))
	if i >= len(list) {
		i = len(list) - 1
	}
	return list[i]
}

// Generate draws a prefix+suffix name from src that is unused in reg and claims it.
// After maxAttempts collisions a numeric suffix is appended until a free name is found.
//
// Precondition: src and reg must be non-nil.
// Postcondition: the returned name is claimed in reg and was not claimed before.
func Generate(src dice.Source, reg *Registry) string {
	var name string
	for i := 0; i < maxAttempts; i++ {
		name = pick(src, prefixes) + pick(src, suffixes)
		if reg.Claim(name) {
			return name
		}
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%d", name, n)
		if reg.Claim(candidate) {
			return candidate
		}
	}
}
