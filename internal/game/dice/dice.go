// Package dice provides the randomness abstraction shared by the pixel arena
// combat and progression engines.
package dice

// Source is the uniform randomness provider for every stochastic decision in a
// fight: initiative, hit, crit, magic surge, damage variance and focus surge.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	//
	// Postcondition: 0 <= v < 1.
	Float64() float64
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func() float64

// Float64 calls f.
func (f SourceFunc) Float64() float64 { return f() }

// Percent reports whether a fresh draw from src lands below pct, where pct is
// expressed on a 0-100 scale.
//
// Postcondition: consumes exactly one draw from src.
func Percent(src Source, pct float64) bool {
	return src.Float64()*100 < pct
}
