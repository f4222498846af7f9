package network

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/pipeflow/pkg/errors"
)

// maxTopologyCondition bounds the condition number of the linearized,
// row-equilibrated equation system of a well-posed topology.
const maxTopologyCondition = 1e12

// Section is one pipe section. Its Index is its position in the flow vector.
type Section struct {
	Index  int     `json:"index" toml:"index" yaml:"index"`
	Label  string  `json:"label" toml:"label" yaml:"label"`
	From   string  `json:"from" toml:"from" yaml:"from"`
	To     string  `json:"to" toml:"to" yaml:"to"`
	Length float64 `json:"length" toml:"length" yaml:"length"` // m
}

// Junction is a mass balance over the sections entering and leaving a node.
// DemandFactor scales the boundary demand withdrawn at the node.
type Junction struct {
	Node         string  `json:"node" toml:"node" yaml:"node"`
	In           []int   `json:"in" toml:"in" yaml:"in"`
	Out          []int   `json:"out" toml:"out" yaml:"out"`
	DemandFactor float64 `json:"demand_factor" toml:"demand_factor" yaml:"demand_factor"`
}

// Loop is an energy balance: the pressure lost along Forward equals the
// pressure lost along Reverse.
type Loop struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Forward []int  `json:"forward" toml:"forward" yaml:"forward"`
	Reverse []int  `json:"reverse" toml:"reverse" yaml:"reverse"`
}

// GuessRule assigns the initial guess of one section. With no From sections
// the guess is Scale·demand, otherwise Scale·Σ guess[From]. Rules run in
// order, so From may only name sections assigned by earlier rules.
type GuessRule struct {
	Section int     `json:"section" toml:"section" yaml:"section"`
	From    []int   `json:"from,omitempty" toml:"from" yaml:"from,omitempty"`
	Scale   float64 `json:"scale" toml:"scale" yaml:"scale"`
}

// Topology is the static structure of a network.
type Topology struct {
	Sections  []Section   `json:"sections" toml:"sections" yaml:"sections"`
	Junctions []Junction  `json:"junctions" toml:"junctions" yaml:"junctions"`
	Loops     []Loop      `json:"loops" toml:"loops" yaml:"loops"`
	Guess     []GuessRule `json:"guess" toml:"guess" yaml:"guess"`
}

// DefaultTopology returns the seven-junction, three-loop distribution network:
// a trunk from the pump (node 0) feeds node 1, which splits through nodes 2
// and 4 towards the demand nodes 3, 5, 6 and 7.
func DefaultTopology() Topology {
	section := func(i int, from, to string, length float64) Section {
		return Section{Index: i, Label: "Pipe " + from + to, From: from, To: to, Length: length}
	}
	return Topology{
		Sections: []Section{
			section(0, "0", "1", 230),
			section(1, "1", "2", 460),
			section(2, "1", "4", 585),
			section(3, "2", "3", 460),
			section(4, "2", "4", 380),
			section(5, "3", "5", 380),
			section(6, "4", "5", 460),
			section(7, "4", "6", 380),
			section(8, "5", "7", 380),
			section(9, "6", "7", 460),
		},
		Junctions: []Junction{
			{Node: "1", In: []int{0}, Out: []int{1, 2}},
			{Node: "2", In: []int{1}, Out: []int{3, 4}},
			{Node: "3", In: []int{3}, Out: []int{5}, DemandFactor: 1},
			{Node: "4", In: []int{2, 4}, Out: []int{6, 7}},
			{Node: "5", In: []int{5, 6}, Out: []int{8}, DemandFactor: 1},
			{Node: "6", In: []int{7}, Out: []int{9}, DemandFactor: 1},
			{Node: "7", In: []int{8, 9}, DemandFactor: 1},
		},
		Loops: []Loop{
			{Name: "1-2-4", Forward: []int{1, 4}, Reverse: []int{2}},
			{Name: "2-3-5-4", Forward: []int{3, 5}, Reverse: []int{4, 6}},
			{Name: "4-5-7-6", Forward: []int{6, 8}, Reverse: []int{7, 9}},
		},
		Guess: []GuessRule{
			{Section: 0, Scale: 4},
			{Section: 1, From: []int{0}, Scale: 0.5},
			{Section: 2, From: []int{0}, Scale: 0.5},
			{Section: 3, From: []int{1}, Scale: 0.5},
			{Section: 4, From: []int{1}, Scale: 0.5},
			{Section: 5, From: []int{3}, Scale: 1},
			{Section: 6, From: []int{2, 4}, Scale: 0.5},
			{Section: 7, From: []int{2, 4}, Scale: 0.5},
			{Section: 8, From: []int{5, 6}, Scale: 1},
			{Section: 9, From: []int{7}, Scale: 1},
		},
	}
}

// WithLengths returns a copy of t with section lengths replaced.
// len(lengths) must equal the number of sections.
func (t Topology) WithLengths(lengths []float64) (Topology, error) {
	if len(lengths) != len(t.Sections) {
		return Topology{}, errors.New(errors.ErrCodeInvalidInput,
			"got %d lengths for %d sections", len(lengths), len(t.Sections))
	}
	c := t.Clone()
	for i := range c.Sections {
		c.Sections[i].Length = lengths[i]
	}
	return c, nil
}

// Lengths returns the section lengths in index order.
func (t Topology) Lengths() []float64 {
	out := make([]float64, len(t.Sections))
	for i, s := range t.Sections {
		out[i] = s.Length
	}
	return out
}

// TotalLength returns the summed length of all sections.
func (t Topology) TotalLength() float64 {
	return floats.Sum(t.Lengths())
}

// Clone returns a deep copy of t.
func (t Topology) Clone() Topology {
	c := Topology{
		Sections:  append([]Section(nil), t.Sections...),
		Junctions: make([]Junction, len(t.Junctions)),
		Loops:     make([]Loop, len(t.Loops)),
		Guess:     make([]GuessRule, len(t.Guess)),
	}
	for i, j := range t.Junctions {
		j.In = append([]int(nil), j.In...)
		j.Out = append([]int(nil), j.Out...)
		c.Junctions[i] = j
	}
	for i, l := range t.Loops {
		l.Forward = append([]int(nil), l.Forward...)
		l.Reverse = append([]int(nil), l.Reverse...)
		c.Loops[i] = l
	}
	for i, g := range t.Guess {
		g.From = append([]int(nil), g.From...)
		c.Guess[i] = g
	}
	return c
}

// Validate checks that t describes a well-posed equation system:
// sections indexed by position with positive lengths, in-range references,
// one equation per unknown, a guess rule for every section, and a
// linearized system that is not singular.
func (t Topology) Validate() error {
	n := len(t.Sections)
	if n == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "topology has no sections")
	}
	for i, s := range t.Sections {
		if s.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "section %q has index %d at position %d", s.Label, s.Index, i)
		}
		if err := errors.ValidatePositive(fmt.Sprintf("length of section %d", i), s.Length); err != nil {
			return err
		}
	}

	inRange := func(what string, idx []int) error {
		for _, k := range idx {
			if k < 0 || k >= n {
				return errors.New(errors.ErrCodeInvalidInput, "%s references section %d (have %d)", what, k, n)
			}
		}
		return nil
	}
	for _, j := range t.Junctions {
		if len(j.In)+len(j.Out) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "junction %s has no sections", j.Node)
		}
		if err := inRange("junction "+j.Node, append(append([]int(nil), j.In...), j.Out...)); err != nil {
			return err
		}
	}
	for _, l := range t.Loops {
		if len(l.Forward)+len(l.Reverse) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "loop %s has no sections", l.Name)
		}
		if err := inRange("loop "+l.Name, append(append([]int(nil), l.Forward...), l.Reverse...)); err != nil {
			return err
		}
	}

	if eqs := len(t.Junctions) + len(t.Loops); eqs != n {
		return errors.New(errors.ErrCodeDegenerateTopology,
			"%d junctions + %d loops = %d equations for %d unknown flows", len(t.Junctions), len(t.Loops), eqs, n)
	}

	if err := t.validateGuess(); err != nil {
		return err
	}
	return t.checkRank()
}

func (t Topology) validateGuess() error {
	n := len(t.Sections)
	assigned := make([]bool, n)
	for _, g := range t.Guess {
		if g.Section < 0 || g.Section >= n {
			return errors.New(errors.ErrCodeInvalidInput, "guess rule references section %d (have %d)", g.Section, n)
		}
		if assigned[g.Section] {
			return errors.New(errors.ErrCodeInvalidInput, "section %d has more than one guess rule", g.Section)
		}
		for _, k := range g.From {
			if k < 0 || k >= n || !assigned[k] {
				return errors.New(errors.ErrCodeInvalidInput,
					"guess for section %d uses section %d before it is assigned", g.Section, k)
			}
		}
		assigned[g.Section] = true
	}
	for i, ok := range assigned {
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "section %d has no guess rule", i)
		}
	}
	return nil
}

// checkRank factorizes the system linearized around uniform flow, with each
// loop term weighted by its section length. A singular result means the
// equations are dependent whatever the starting point.
func (t Topology) checkRank() error {
	n := len(t.Sections)
	a := mat.NewDense(n, n, nil)
	row := 0
	for _, j := range t.Junctions {
		for _, k := range j.In {
			a.Set(row, k, a.At(row, k)+1)
		}
		for _, k := range j.Out {
			a.Set(row, k, a.At(row, k)-1)
		}
		row++
	}
	for _, l := range t.Loops {
		for _, k := range l.Forward {
			a.Set(row, k, a.At(row, k)+t.Sections[k].Length)
		}
		for _, k := range l.Reverse {
			a.Set(row, k, a.At(row, k)-t.Sections[k].Length)
		}
		row++
	}

	for i := 0; i < n; i++ {
		r := a.RawRowView(i)
		m := floats.Norm(r, 1)
		if m == 0 {
			return errors.New(errors.ErrCodeDegenerateTopology, "equation %d has no net terms", i)
		}
		floats.Scale(1/m, r)
	}

	var lu mat.LU
	lu.Factorize(a)
	if cond := lu.Cond(); !(cond <= maxTopologyCondition) {
		return errors.New(errors.ErrCodeDegenerateTopology,
			"equations are not independent (condition number %.3g)", cond)
	}
	return nil
}
