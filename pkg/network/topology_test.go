package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pipeflow/pkg/errors"
)

func TestDefaultTopology(t *testing.T) {
	topo := DefaultTopology()
	require.NoError(t, topo.Validate())

	assert.Len(t, topo.Sections, 10)
	assert.Len(t, topo.Junctions, 7)
	assert.Len(t, topo.Loops, 3)
	assert.Equal(t, []float64{230, 460, 585, 460, 380, 380, 460, 380, 380, 460}, topo.Lengths())
	assert.Equal(t, 4175.0, topo.TotalLength())
	assert.Equal(t, "Pipe 01", topo.Sections[0].Label)
	assert.Equal(t, "Pipe 67", topo.Sections[9].Label)
}

func TestTopologyValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Topology)
		code   errors.Code
	}{
		{
			name:   "no sections",
			mutate: func(t *Topology) { *t = Topology{} },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "misplaced index",
			mutate: func(t *Topology) { t.Sections[3].Index = 7 },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "zero length",
			mutate: func(t *Topology) { t.Sections[2].Length = 0 },
			code:   errors.ErrCodeDomain,
		},
		{
			name:   "negative length",
			mutate: func(t *Topology) { t.Sections[5].Length = -380 },
			code:   errors.ErrCodeDomain,
		},
		{
			name:   "junction out of range",
			mutate: func(t *Topology) { t.Junctions[0].Out = []int{1, 12} },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "empty loop",
			mutate: func(t *Topology) { t.Loops[1] = Loop{Name: "empty"} },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "missing loop",
			mutate: func(t *Topology) { t.Loops = t.Loops[:2] },
			code:   errors.ErrCodeDegenerateTopology,
		},
		{
			name:   "duplicated loop",
			mutate: func(t *Topology) { t.Loops[2] = t.Loops[0] },
			code:   errors.ErrCodeDegenerateTopology,
		},
		{
			name: "dependent junction",
			mutate: func(t *Topology) {
				// Node 2 balance stated twice.
				t.Junctions[6] = Junction{Node: "2'", In: []int{1}, Out: []int{3, 4}}
			},
			code: errors.ErrCodeDegenerateTopology,
		},
		{
			name:   "missing guess rule",
			mutate: func(t *Topology) { t.Guess = t.Guess[:9] },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "guess uses later section",
			mutate: func(t *Topology) { t.Guess[1].From = []int{5} },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "duplicate guess rule",
			mutate: func(t *Topology) { t.Guess[9].Section = 8 },
			code:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := DefaultTopology()
			tt.mutate(&topo)
			err := topo.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestTopologyWithLengths(t *testing.T) {
	topo := DefaultTopology()
	lengths := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got, err := topo.WithLengths(lengths)
	require.NoError(t, err)
	assert.Equal(t, lengths, got.Lengths())
	assert.Equal(t, 230.0, topo.Sections[0].Length, "receiver must not change")

	_, err = topo.WithLengths([]float64{1, 2})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestTopologyClone(t *testing.T) {
	topo := DefaultTopology()
	c := topo.Clone()
	c.Junctions[0].Out[0] = 9
	c.Loops[0].Forward[0] = 9
	c.Guess[1].From[0] = 9
	c.Sections[0].Length = 1

	assert.Equal(t, 1, topo.Junctions[0].Out[0])
	assert.Equal(t, 1, topo.Loops[0].Forward[0])
	assert.Equal(t, 0, topo.Guess[1].From[0])
	assert.Equal(t, 230.0, topo.Sections[0].Length)
}
