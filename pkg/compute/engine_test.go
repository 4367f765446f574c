package compute

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/corset"
)

func v(n uint64) corset.FieldElement { return bls12377.NewElement(n) }

func newSchema() *corset.CompiledSchema {
	return &corset.CompiledSchema{Columns: corset.NewColumnSet()}
}

func addAtomic(cs *corset.ColumnSet, module, name string) corset.Handle {
	return cs.Add(corset.Column{Handle: corset.NewHandle(module, name), Magma: corset.Integer, Kind: corset.KindAtomic})
}

// TestComputeCompositeSumsDependencies exercises the add row interpreter
// through a registered Composite computation (spec.md §4.6).
func TestComputeCompositeSumsDependencies(t *testing.T) {
	schema := newSchema()
	a := addAtomic(schema.Columns, "m", "a")
	b := addAtomic(schema.Columns, "m", "b")
	c := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "c"), Magma: corset.Integer, Kind: corset.KindComposite})

	exp := corset.NewFuncall("add", []corset.Node{
		corset.NewColumnNode(a, corset.KindAtomic, corset.Integer, corset.BaseDec),
		corset.NewColumnNode(b, corset.KindAtomic, corset.Integer, corset.BaseDec),
	}, corset.NewScalar(corset.Integer))

	schema.Columns.Computations = append(schema.Columns.Computations, corset.NewComposite(c, exp))

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		"m": {"a": []corset.FieldElement{v(1), v(2), v(3)}, "b": []corset.FieldElement{v(10), v(20), v(30)}},
	})
	require.NoError(t, err)

	got := tr.Column(c.Id())
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(v(11)))
	assert.True(t, got[1].Equal(v(22)))
	assert.True(t, got[2].Equal(v(33)))
}

// TestComputeInterleavedRoundRobins checks row k*i+j == from[j][i] (spec.md
// §8 property 7).
func TestComputeInterleavedRoundRobins(t *testing.T) {
	schema := newSchema()
	x := addAtomic(schema.Columns, "m", "x")
	y := addAtomic(schema.Columns, "m", "y")
	target := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "xy"), Magma: corset.Integer, Kind: corset.KindInterleaved})

	schema.Columns.Computations = append(schema.Columns.Computations, corset.NewInterleaved(target, []corset.Handle{x, y}))

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		"m": {"x": []corset.FieldElement{v(1), v(2)}, "y": []corset.FieldElement{v(9), v(8)}},
	})
	require.NoError(t, err)

	got := tr.Column(target.Id())
	require.Len(t, got, 4)
	assert.True(t, got[0].Equal(v(1)))
	assert.True(t, got[1].Equal(v(9)))
	assert.True(t, got[2].Equal(v(2)))
	assert.True(t, got[3].Equal(v(8)))
}

// TestComputeSortedOrdersAscending checks a single ascending (sign=true) key
// column is sorted into its "to" column in ascending order.
func TestComputeSortedOrdersAscending(t *testing.T) {
	schema := newSchema()
	from := addAtomic(schema.Columns, "m", "key")
	to := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "key-sorted"), Magma: corset.Integer, Kind: corset.KindPhantom})

	schema.Columns.Computations = append(schema.Columns.Computations,
		corset.NewSorted([]corset.Handle{from}, []corset.Handle{to}, []bool{true}))

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		"m": {"key": []corset.FieldElement{v(3), v(1), v(2)}},
	})
	require.NoError(t, err)

	got := tr.Column(to.Id())
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(v(1)))
	assert.True(t, got[1].Equal(v(2)))
	assert.True(t, got[2].Equal(v(3)))
}

// TestComputeCyclicFromCountsRowIndexModulo checks target[row] = row mod
// Modulo, independent of any data in the "froms" columns (spec.md §4.6).
func TestComputeCyclicFromCountsRowIndexModulo(t *testing.T) {
	schema := newSchema()
	counter := addAtomic(schema.Columns, "m", "counter")
	target := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "cyc"), Magma: corset.Integer, Kind: corset.KindPhantom})

	schema.Columns.Computations = append(schema.Columns.Computations,
		corset.NewCyclicFrom(target, []corset.Handle{counter}, 3))

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		// "counter"'s own values are irrelevant to the cyclic column; only its
		// length (>= Modulo) matters.
		"m": {"counter": []corset.FieldElement{v(99), v(99), v(99), v(99), v(99)}},
	})
	require.NoError(t, err)

	got := tr.Column(target.Id())
	require.Len(t, got, 5)
	assert.True(t, got[0].Equal(v(0)))
	assert.True(t, got[1].Equal(v(1)))
	assert.True(t, got[2].Equal(v(2)))
	assert.True(t, got[3].Equal(v(0)))
	assert.True(t, got[4].Equal(v(1)))
}

// TestComputeSortingConstraintsMarksDivergence checks the Eq/@_l/Delta
// invariant (spec.md §8 property 9): Eq[i] + sum(@_l[i]) == 1, and row 0 is
// trivially equal.
func TestComputeSortingConstraintsMarksDivergence(t *testing.T) {
	schema := newSchema()
	sortedCol := addAtomic(schema.Columns, "m", "sorted")
	at := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "at-0"), Magma: corset.Boolean, Kind: corset.KindPhantom})
	eq := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "eq"), Magma: corset.Boolean, Kind: corset.KindPhantom})
	delta := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "delta"), Magma: corset.Integer, Kind: corset.KindPhantom})

	var deltaBytes [16]corset.Handle
	for i := range deltaBytes {
		deltaBytes[i] = schema.Columns.Add(corset.Column{
			Handle: corset.NewHandle("m", fmt.Sprintf("delta-byte-%d", i)), Magma: corset.Byte, Kind: corset.KindPhantom,
		})
	}

	comp := corset.NewSortingConstraints(
		[]corset.Handle{at}, eq, delta, deltaBytes, []bool{true},
		[]corset.Handle{sortedCol}, []corset.Handle{sortedCol},
	)
	schema.Columns.Computations = append(schema.Columns.Computations, comp)

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		"m": {"sorted": []corset.FieldElement{v(1), v(1), v(5)}},
	})
	require.NoError(t, err)

	eqVals := tr.Column(eq.Id())
	atVals := tr.Column(at.Id())
	deltaVals := tr.Column(delta.Id())

	require.Len(t, eqVals, 3)
	assert.True(t, eqVals[0].Equal(v(1)))
	assert.True(t, eqVals[1].Equal(v(1)), "row 1 repeats row 0's key")
	assert.True(t, eqVals[2].IsZero(), "row 2 diverges from row 1")
	assert.True(t, atVals[0].IsZero())
	assert.True(t, atVals[1].IsZero())
	assert.True(t, atVals[2].Equal(v(1)))
	assert.True(t, deltaVals[2].Equal(v(4)))
}

// TestComputeSortingConstraintsNegatesDescendingDelta checks a descending
// (sign=false) key's divergence produces a small negated delta instead of
// the unsigned forward difference wrapping near the field modulus (spec.md
// §8 Property 9).
func TestComputeSortingConstraintsNegatesDescendingDelta(t *testing.T) {
	schema := newSchema()
	sortedCol := addAtomic(schema.Columns, "m", "sorted")
	at := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "at-0"), Magma: corset.Boolean, Kind: corset.KindPhantom})
	eq := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "eq"), Magma: corset.Boolean, Kind: corset.KindPhantom})
	delta := schema.Columns.Add(corset.Column{Handle: corset.NewHandle("m", "delta"), Magma: corset.Integer, Kind: corset.KindPhantom})

	var deltaBytes [16]corset.Handle
	for i := range deltaBytes {
		deltaBytes[i] = schema.Columns.Add(corset.Column{
			Handle: corset.NewHandle("m", fmt.Sprintf("desc-delta-byte-%d", i)), Magma: corset.Byte, Kind: corset.KindPhantom,
		})
	}

	comp := corset.NewSortingConstraints(
		[]corset.Handle{at}, eq, delta, deltaBytes, []bool{false},
		[]corset.Handle{sortedCol}, []corset.Handle{sortedCol},
	)
	schema.Columns.Computations = append(schema.Columns.Computations, comp)

	engine := NewEngine(schema)
	tr, err := engine.ComputeAll(RawColumns{
		"m": {"sorted": []corset.FieldElement{v(9), v(5)}},
	})
	require.NoError(t, err)

	deltaVals := tr.Column(delta.Id())
	require.Len(t, deltaVals, 2)
	assert.True(t, deltaVals[1].Equal(v(4)), "descending divergence 9->5 negates to a small positive delta, not (5-9) wrapped")
}

// TestIngestAtomicRejectsEmptyColumn checks an atomic column with no
// supplied values surfaces a RuntimeError rather than panicking.
func TestIngestAtomicRejectsEmptyColumn(t *testing.T) {
	schema := newSchema()
	addAtomic(schema.Columns, "m", "a")

	engine := NewEngine(schema)
	_, err := engine.ComputeAll(RawColumns{"m": {}})
	require.Error(t, err)

	var rerr *RuntimeError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindEmptyColumn, rerr.Kind)
}
