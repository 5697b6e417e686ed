package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplySpecification translates a specification onto a base query handle in a
// fixed order: filter, then includes, then ordering, then paging. Paging
// after ordering keeps page contents deterministic. With countOnly set, only
// the filter is applied; includes, ordering and paging are irrelevant to a
// count and skipped.
func ApplySpecification(db *gorm.DB, spec *Specification, countOnly bool) *gorm.DB {
	query := applyCriterion(db, spec.Criteria())

	if countOnly {
		return query
	}

	for _, path := range spec.Includes() {
		query = query.Preload(path)
	}

	if column, desc, ok := spec.Order(); ok {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   desc,
		})
	}

	if skip, take, ok := spec.Paging(); ok {
		query = query.Offset(skip).Limit(take)
	}

	return query
}

func applyCriterion(db *gorm.DB, criterion Criterion) *gorm.DB {
	if criterion == nil {
		return db
	}
	sql, args := buildCriterion(criterion)
	if sql == "" {
		return db
	}
	return db.Where(sql, args...)
}

// buildCriterion renders a criterion tree into a SQL fragment with
// placeholder arguments.
func buildCriterion(criterion Criterion) (string, []any) {
	switch node := criterion.(type) {
	case Predicate:
		return fmt.Sprintf("%s %s ?", node.Column, node.Op), []any{node.Value}
	case NullPredicate:
		if node.IsNull {
			return node.Column + " IS NULL", nil
		}
		return node.Column + " IS NOT NULL", nil
	case Junction:
		parts := make([]string, 0, len(node.Parts))
		var args []any
		for _, child := range node.Parts {
			sql, childArgs := buildCriterion(child)
			if sql == "" {
				continue
			}
			parts = append(parts, "("+sql+")")
			args = append(args, childArgs...)
		}
		if len(parts) == 0 {
			return "", nil
		}
		sep := " AND "
		if node.Or {
			sep = " OR "
		}
		return strings.Join(parts, sep), args
	}
	return "", nil
}
