package repository

// Specification describes what to read without saying how: an optional filter
// criterion, eager-load include paths, at most one ordering key and optional
// paging. It is inert data: construction is declarative and evaluation
// belongs to the evaluator. Concrete specifications are built once and passed
// to repositories.
type Specification struct {
	criteria    Criterion
	includes    []string
	orderColumn string
	orderDesc   bool
	ordered     bool
	skip        int
	take        int
	paged       bool
}

// NewSpecification builds a specification around a filter criterion; nil
// means unfiltered.
func NewSpecification(criteria Criterion) *Specification {
	return &Specification{criteria: criteria}
}

// Include adds eager-load paths. Dotted paths descend through relations,
// e.g. "InvoiceHistories.ToStatus".
func (s *Specification) Include(paths ...string) *Specification {
	s.includes = append(s.includes, paths...)
	return s
}

// OrderBy sets ascending ordering on a column. A specification carries at
// most one ordering key; the last call wins.
func (s *Specification) OrderBy(column string) *Specification {
	s.orderColumn, s.orderDesc, s.ordered = column, false, true
	return s
}

// OrderByDescending sets descending ordering on a column.
func (s *Specification) OrderByDescending(column string) *Specification {
	s.orderColumn, s.orderDesc, s.ordered = column, true, true
	return s
}

// Paginate enables paging with the given skip/take pair.
func (s *Specification) Paginate(skip, take int) *Specification {
	s.skip, s.take, s.paged = skip, take, true
	return s
}

func (s *Specification) Criteria() Criterion { return s.criteria }
func (s *Specification) Includes() []string  { return s.includes }

func (s *Specification) Order() (column string, desc bool, ok bool) {
	return s.orderColumn, s.orderDesc, s.ordered
}

func (s *Specification) Paging() (skip, take int, ok bool) {
	return s.skip, s.take, s.paged
}
