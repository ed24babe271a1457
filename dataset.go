package evalcore

import (
	"fmt"

	"github.com/dchest/siphash"
)

// datasetSeed keys the siphash used by [VariableHash]. It is fixed so
// that hashing a column name is deterministic across runs and across
// concurrent evaluations of the same dataset: given identical inputs,
// both primal and Jacobian outputs are bitwise reproducible.
const datasetSeed0, datasetSeed1 uint64 = 0x65766c636f726500, 0x646174617365740a

// VariableHash derives the stable 64-bit identity assigned to a
// Variable node's Hash field, from a dataset column name. Grounded on
// how Sneller's zion package (ion/zion/hash.go) buckets column symbols
// with a keyed siphash rather than a content hash: the keyed hash is
// cheap, has no adversarial-input pathology, and is stable across
// process restarts given the fixed seed above.
func VariableHash(column string) uint64 {
	return siphash.Hash(datasetSeed0, datasetSeed1, []byte(column))
}

// Range is a half-open row interval [Start, End) into a [Dataset]. Every
// column access the interpreter makes is contiguous within this range.
type Range struct {
	Start, End int
}

// Size returns End - Start.
func (r Range) Size() int { return r.End - r.Start }

// Validate reports whether the range is well-formed (Start <= End).
func (r Range) Validate() error {
	if r.End < r.Start {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Dataset is a column-oriented numeric table indexed by variable hash.
// Implementations must return a contiguous view for any hash/range
// combination that occurs in a validated tree; an unknown hash is a
// contract violation.
type Dataset interface {
	// Column returns the values of the named variable over [r.Start,
	// r.End), or ok=false if hash is not known to the dataset.
	Column(hash uint64, r Range) (col []float64, ok bool)

	// Len is the number of rows in the dataset's backing columns. It
	// bounds the ranges callers may request.
	Len() int
}

// ColumnStore is the straightforward in-memory [Dataset]: one
// contiguous []float64 per named variable, looked up by
// [VariableHash]. It is the reference implementation external
// producers (dataset I/O is out of scope for this
// core) are expected to either use directly or mimic.
type ColumnStore struct {
	rows    int
	columns map[uint64][]float64
}

// NewColumnStore builds a ColumnStore with rows rows and no columns.
func NewColumnStore(rows int) *ColumnStore {
	return &ColumnStore{rows: rows, columns: make(map[uint64][]float64)}
}

// AddColumn registers a named variable. len(values) must equal the
// store's row count.
func (c *ColumnStore) AddColumn(name string, values []float64) error {
	if len(values) != c.rows {
		return fmt.Errorf("evalcore: column %q has %d rows, store has %d", name, len(values), c.rows)
	}
	c.columns[VariableHash(name)] = values
	return nil
}

// Column implements [Dataset].
func (c *ColumnStore) Column(hash uint64, r Range) (col []float64, ok bool) {
	full, ok := c.columns[hash]
	if !ok {
		return nil, false
	}
	if r.Start < 0 || r.End > len(full) || r.Start > r.End {
		return nil, false
	}
	return full[r.Start:r.End], true
}

// Len implements [Dataset].
func (c *ColumnStore) Len() int { return c.rows }
