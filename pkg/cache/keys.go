package cache

// Keyer builds cache keys. Every key hashes all inputs that influence the
// cached value, so a change of fluid, solver tolerance or cost parameter
// never returns a stale entry.
type Keyer interface {
	// SolveKey identifies one network solve.
	SolveKey(networkHash string, diameter float64, opts SolveKeyOpts) string

	// SweepKey identifies a complete diameter sweep.
	SweepKey(networkHash string, opts SweepKeyOpts) string

	// ArtifactKey identifies a rendered output of a cached result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// SolveKeyOpts holds the non-network inputs of a solve.
type SolveKeyOpts struct {
	SolverHash string `json:"solver"`
}

// SweepKeyOpts holds the non-network inputs of a sweep.
type SweepKeyOpts struct {
	Grid       []float64 `json:"grid"`
	CostHash   string    `json:"cost"`
	SolverHash string    `json:"solver"`
}

// ArtifactKeyOpts holds the rendering inputs of an artifact.
type ArtifactKeyOpts struct {
	Kind     string `json:"kind"`   // "network" or "chart"
	Format   string `json:"format"` // "svg", "dot"
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer generates keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey generates a key for a single solve.
func (DefaultKeyer) SolveKey(networkHash string, diameter float64, opts SolveKeyOpts) string {
	return hashKey("solve", networkHash, diameter, opts)
}

// SweepKey generates a key for a sweep.
func (DefaultKeyer) SweepKey(networkHash string, opts SweepKeyOpts) string {
	return hashKey("sweep", networkHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
