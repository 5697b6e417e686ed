package repository

// Operator is a comparison understood by the evaluator.
type Operator string

const (
	OpEq    Operator = "="
	OpNotEq Operator = "<>"
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpLike  Operator = "LIKE"
	OpIn    Operator = "IN"
)

// Criterion is an inert, storage-agnostic filter node. Leaves compare one
// column against a value; junctions combine children with AND/OR. A Criterion
// never executes anything; the evaluator translates the tree for the
// backend at hand.
type Criterion interface {
	criterionNode()
}

// Predicate compares a column against a value.
type Predicate struct {
	Column string
	Op     Operator
	Value  any
}

func (Predicate) criterionNode() {}

// NullPredicate tests a column for NULL / NOT NULL.
type NullPredicate struct {
	Column  string
	IsNull  bool
}

func (NullPredicate) criterionNode() {}

// Junction combines child criteria with AND (default) or OR.
type Junction struct {
	Or    bool
	Parts []Criterion
}

func (Junction) criterionNode() {}

func Eq(column string, value any) Criterion    { return Predicate{column, OpEq, value} }
func NotEq(column string, value any) Criterion { return Predicate{column, OpNotEq, value} }
func Gt(column string, value any) Criterion    { return Predicate{column, OpGt, value} }
func Gte(column string, value any) Criterion   { return Predicate{column, OpGte, value} }
func Lt(column string, value any) Criterion    { return Predicate{column, OpLt, value} }
func Lte(column string, value any) Criterion   { return Predicate{column, OpLte, value} }

// Like matches with the backend's LIKE semantics; the caller supplies the
// wildcards.
func Like(column string, pattern string) Criterion { return Predicate{column, OpLike, pattern} }

// In matches a column against a set of values.
func In(column string, values any) Criterion { return Predicate{column, OpIn, values} }

func IsNull(column string) Criterion  { return NullPredicate{column, true} }
func NotNull(column string) Criterion { return NullPredicate{column, false} }

// And combines criteria conjunctively. Nil parts are skipped, so optional
// filters can be passed straight through.
func And(parts ...Criterion) Criterion { return Junction{Parts: compact(parts)} }

// Or combines criteria disjunctively.
func Or(parts ...Criterion) Criterion { return Junction{Or: true, Parts: compact(parts)} }

func compact(parts []Criterion) []Criterion {
	out := make([]Criterion, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
