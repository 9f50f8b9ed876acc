package colgen

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/hashstructure"

	"github.com/katalvlaran/colgen/event"
)

// Kind tags a column as real or artificial.
type Kind uint8

const (
	// Real columns come from pricing, warm starts or inheritance.
	Real Kind = iota
	// Volatile columns are artificial placeholders with prohibitive cost.
	// They exist only for the node that created them.
	Volatile
)

func (k Kind) String() string {
	if k == Volatile {
		return "volatile"
	}

	return "real"
}

// Keyer lets a payload or inequality supply its own identity. Without it the
// identity is a structural hash (see StructKey).
type Keyer interface {
	Key() string
}

// Column is one variable of the master problem. Everything except Value is
// fixed at construction.
type Column[T any] struct {
	Pricing PricingProblem
	Kind    Kind
	Creator string
	Payload T

	// Value is written by the last master solve.
	Value float64

	key string
}

// NewColumn returns a real column.
func NewColumn[T any](pp PricingProblem, payload T, creator string) *Column[T] {
	return newColumn(pp, Real, payload, creator)
}

// NewVolatileColumn returns an artificial column.
func NewVolatileColumn[T any](pp PricingProblem, payload T, creator string) *Column[T] {
	return newColumn(pp, Volatile, payload, creator)
}

func newColumn[T any](pp PricingProblem, kind Kind, payload T, creator string) *Column[T] {
	return &Column[T]{
		Pricing: pp,
		Kind:    kind,
		Creator: creator,
		Payload: payload,
		key:     StructKey(payload) + "/" + kind.String(),
	}
}

// IsVolatile reports Kind == Volatile.
func (c *Column[T]) IsVolatile() bool { return c.Kind == Volatile }

// Key identifies the column by payload and kind.
func (c *Column[T]) Key() string { return c.key }

func (c *Column[T]) String() string {
	return fmt.Sprintf("%s[%s %v]=%.6g", pricingName(c.Pricing), c.Kind, c.Payload, c.Value)
}

// Info returns an event snapshot of the column.
func (c *Column[T]) Info() event.ColumnInfo {
	return event.ColumnInfo{
		Pricing:  pricingName(c.Pricing),
		Creator:  c.Creator,
		Key:      c.key,
		Volatile: c.IsVolatile(),
		Payload:  fmt.Sprint(c.Payload),
	}
}

func pricingName(pp PricingProblem) string {
	if pp == nil {
		return "<nil>"
	}

	return pp.Name()
}

// StructKey returns an identity for v: v.Key() when v is a Keyer, otherwise
// a structural hash of v. Struct fields tagged `hash:"set"` are hashed as
// unordered sets and fields tagged `hash:"ignore"` are skipped.
func StructKey(v interface{}) string {
	if k, ok := v.(Keyer); ok {
		return k.Key()
	}
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}

	return strconv.FormatUint(h, 16)
}

// Inequality is a valid cut for the master problem. Implementations are
// immutable; Key identifies the cut by its defining structure.
type Inequality interface {
	Key() string
	// Separator names the generator that produced the cut.
	Separator() string
}

// CutInfo returns an event snapshot of ineq.
func CutInfo(ineq Inequality) event.CutInfo {
	return event.CutInfo{Separator: ineq.Separator(), Key: ineq.Key(), Text: fmt.Sprint(ineq)}
}
