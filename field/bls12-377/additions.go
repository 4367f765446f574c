package bls12_377

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/corsetlang/corset/field"
)

// Confirms Element actually satisfies the generic field.Element contract
// (the embedded fr.Element alone does not, since its Bytes() returns a fixed
// array rather than a slice).
var _ field.Element[Element] = Element{}

// Zero returns the additive identity of this field.
func Zero() Element {
	return Element{new(fr.Element)}
}

// One returns the multiplicative identity of this field.
func One() Element {
	res := fr.NewElement(1)
	return Element{&res}
}

// NewElement constructs a field element from a raw uint64.
func NewElement(v uint64) Element {
	res := fr.NewElement(v)
	return Element{&res}
}

// NewElementFromBigInt reduces an arbitrary big.Int into the field, wrapping
// negative values around the modulus in the usual way.
func NewElementFromBigInt(v *big.Int) Element {
	var res fr.Element
	res.SetBigInt(v)

	return Element{&res}
}

// IsZero checks whether this element is the additive identity.
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// Neg computes the additive inverse of x.
func (x Element) Neg() Element {
	return Element{new(fr.Element).Neg(x.Element)}
}

// Equal checks two field elements for equality.
func (x Element) Equal(y Element) bool {
	return x.Element.Equal(y.Element)
}

// Bytes returns the big-endian, 32-byte canonical encoding of x, satisfying
// field.Element's Bytes() []byte (the promoted fr.Element.Bytes() returns a
// fixed-size array, which does not by itself satisfy the interface).
func (x Element) Bytes() []byte {
	raw := x.Element.Bytes()
	return raw[:]
}

// AddBytes adds a big-endian encoded value to x.
func (x Element) AddBytes(y []byte) Element {
	var addend big.Int

	addend.SetBytes(y)

	return x.Add(NewElementFromBigInt(&addend))
}

// BigInt returns the canonical (reduced, non-negative) big.Int value of x.
func (x Element) BigInt() *big.Int {
	var out big.Int
	return x.Element.BigInt(&out)
}

// HexString returns the "0x"-prefixed canonical hex representation of x, with
// leading zeros stripped (but at least one digit retained).
func (x Element) HexString() string {
	return "0x" + x.BigInt().Text(16)
}
