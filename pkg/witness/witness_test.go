package witness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/compute"
	"github.com/corsetlang/corset/pkg/corset"
)

// TestBuildPadsBySpilling checks a column read under a shift of -1 forces
// one leading padding row, repeating the column's own first value (spec.md
// §6's default padding rule).
func TestBuildPadsBySpilling(t *testing.T) {
	cs := corset.NewColumnSet()
	a := cs.Add(corset.Column{Handle: corset.NewHandle("m", "a"), Magma: corset.Integer, Kind: corset.KindAtomic})

	shifted := corset.NewColumnNode(a, corset.KindAtomic, corset.Integer, corset.BaseDec).Shifted(-1)
	constraint := corset.NewVanishes(corset.NewHandle("m", "c"), nil, shifted)

	schema := &corset.CompiledSchema{Columns: cs, Constraints: []corset.Constraint{constraint}}

	tr := compute.NewTrace(schema)
	tr.SetColumn(a.Id(), []corset.FieldElement{bls12377.NewElement(5), bls12377.NewElement(6), bls12377.NewElement(7)})

	file, err := Build(schema, tr)
	require.NoError(t, err)
	require.Len(t, file.Columns, 1)

	col := file.Columns[0]
	assert.Equal(t, "m", col.Module)
	assert.Equal(t, "a", col.Name)
	require.Len(t, col.Values, 4)
	assert.Equal(t, bls12377.NewElement(5).HexString(), col.Values[0], "padding repeats the first value")
	assert.Equal(t, bls12377.NewElement(5).HexString(), col.Values[1])
	assert.Equal(t, bls12377.NewElement(6).HexString(), col.Values[2])
	assert.Equal(t, bls12377.NewElement(7).HexString(), col.Values[3])
}

// TestBuildPadsSortingEqColumnWithOne checks the sorting-constraints Eq
// column pads with 1 rather than repeating its first computed value (spec.md
// §6).
func TestBuildPadsSortingEqColumnWithOne(t *testing.T) {
	cs := corset.NewColumnSet()
	sorted := cs.Add(corset.Column{Handle: corset.NewHandle("m", "sorted"), Magma: corset.Integer, Kind: corset.KindAtomic})
	eq := cs.Add(corset.Column{Handle: corset.NewHandle("m", "eq"), Magma: corset.Boolean, Kind: corset.KindPhantom})
	delta := cs.Add(corset.Column{Handle: corset.NewHandle("m", "delta"), Magma: corset.Integer, Kind: corset.KindPhantom})

	var deltaBytes [16]corset.Handle

	shifted := corset.NewColumnNode(sorted, corset.KindAtomic, corset.Integer, corset.BaseDec).Shifted(-1)
	constraint := corset.NewVanishes(corset.NewHandle("m", "c"), nil, shifted)

	cs.Computations = append(cs.Computations, corset.NewSortingConstraints(
		nil, eq, delta, deltaBytes, []bool{true}, []corset.Handle{sorted}, []corset.Handle{sorted},
	))

	schema := &corset.CompiledSchema{Columns: cs, Constraints: []corset.Constraint{constraint}}

	tr := compute.NewTrace(schema)
	tr.SetColumn(sorted.Id(), []corset.FieldElement{bls12377.NewElement(1), bls12377.NewElement(2)})
	tr.SetColumn(eq.Id(), []corset.FieldElement{bls12377.NewElement(1), bls12377.Zero()})
	tr.SetColumn(delta.Id(), []corset.FieldElement{bls12377.Zero(), bls12377.NewElement(1)})

	file, err := Build(schema, tr)
	require.NoError(t, err)

	var eqCol Column
	for _, c := range file.Columns {
		if c.Name == "eq" {
			eqCol = c
		}
	}

	require.NotEmpty(t, eqCol.Values)
	assert.Equal(t, bls12377.One().HexString(), eqCol.Values[0])
}
