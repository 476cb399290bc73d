package classify

import (
	"strconv"

	"github.com/opal-lang/varspec/core/verrors"
)

// Capabilities describes what data the run loaded. Column tokens that need
// data the run does not have are rejected.
type Capabilities struct {
	HasGEX       bool   // gene expression data present
	HasFB        bool   // feature barcode data present
	InternalRun  bool   // internal run; unlocks the "type" column
	CellTypes    []bool // per dataset: cell type annotation found
	DatasetCount int
	TopFBMatrix  bool // top feature barcode matrix was generated
	ChainBound   ChainBound
}

// AnyCellTypes reports whether any dataset carries cell type annotation.
func (c Capabilities) AnyCellTypes() bool {
	for _, ok := range c.CellTypes {
		if ok {
			return true
		}
	}
	return false
}

// ChainBound limits the chain index of chain-indexed parseable columns.
// The zero value is a bound of 0, which admits no index; use Unbounded for
// "max".
type ChainBound struct {
	Max       int
	Unbounded bool
}

// Unbounded admits every chain index.
var Unbounded = ChainBound{Unbounded: true}

// ParseChainBound parses "max" or a positive integer.
func ParseChainBound(s string) (ChainBound, error) {
	if s == "max" {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return ChainBound{}, verrors.New(verrors.StructuralMismatch,
			"The only allowed values for PCHAINS are a positive integer and max.")
	}
	return ChainBound{Max: n}, nil
}

// Allows reports whether the chain index k is in range.
func (b ChainBound) Allows(k int) bool {
	return b.Unbounded || (k >= 1 && k <= b.Max)
}

// String returns the textual form used on the command line.
func (b ChainBound) String() string {
	if b.Unbounded {
		return "max"
	}
	return strconv.Itoa(b.Max)
}

// Batch is the state threaded through one validation batch. The nd<k>
// directive may appear once per batch; the first occurrence in iteration
// order wins.
//
// A Batch belongs to a single caller and must not be shared between
// goroutines or reused across batches.
type Batch struct {
	ndUsed  bool
	ndToken string
}

// NewBatch returns fresh per-batch state.
func NewBatch() *Batch {
	return &Batch{}
}

// NDToken returns the nd<k> token accepted in this batch, if any.
func (b *Batch) NDToken() string {
	return b.ndToken
}
