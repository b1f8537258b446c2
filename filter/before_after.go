package filter

import (
	"time"

	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// BeforeAfter ANDs a time-range predicate: column <= Before (when set)
// and/or column >= After (when set). Either bound may be nil to omit it.
type BeforeAfter struct {
	Column string
	Before *time.Time
	After  *time.Time
}

func NewBeforeAfter(column string, before, after *time.Time) BeforeAfter {
	return BeforeAfter{Column: column, Before: before, After: after}
}

func (f BeforeAfter) AppendToStatement(sql *statement.SQL) (*statement.SQL, error) {
	var predicate *astfacade.Expression
	if f.Before != nil {
		predicate = astfacade.LE(astfacade.Column(f.Column), astfacade.Placeholder("?"))
	}
	if f.After != nil {
		after := astfacade.GE(astfacade.Column(f.Column), astfacade.Placeholder("?"))
		if predicate == nil {
			predicate = after
		} else {
			predicate = astfacade.AND(predicate, after)
		}
	}
	if predicate == nil {
		return sql, nil
	}
	return appendWherePredicate(sql, predicate)
}

func (f BeforeAfter) ExtractParameters() ([]parameter.TypedParameter, map[string]parameter.TypedParameter) {
	var params []parameter.TypedParameter
	if f.Before != nil {
		params = append(params, parameter.New(*f.Before))
	}
	if f.After != nil {
		params = append(params, parameter.New(*f.After))
	}
	return params, nil
}

func (f BeforeAfter) Fingerprint() []byte {
	b, a := "-", "-"
	if f.Before != nil {
		b = f.Before.Format(time.RFC3339Nano)
	}
	if f.After != nil {
		a = f.After.Format(time.RFC3339Nano)
	}
	return fingerprintOf("before_after", f.Column, b, a)
}
