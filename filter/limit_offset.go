package filter

import (
	"strconv"

	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// LimitOffset appends LIMIT/OFFSET clauses. Either bound may be omitted
// (nil) to add only one of the two.
type LimitOffset struct {
	Limit  *int
	Offset *int
}

// NewLimitOffset constructs a LimitOffset filter; pass -1 for a bound to
// omit it.
func NewLimitOffset(limit, offset int) LimitOffset {
	f := LimitOffset{}
	if limit >= 0 {
		f.Limit = &limit
	}
	if offset >= 0 {
		f.Offset = &offset
	}
	return f
}

func (f LimitOffset) AppendToStatement(sql *statement.SQL) (*statement.SQL, error) {
	next := sql
	var err error
	if f.Limit != nil {
		next, err = appendClause(next, astfacade.Clause("LIMIT", astfacade.Raw(strconv.Itoa(*f.Limit))))
		if err != nil {
			return nil, err
		}
	}
	if f.Offset != nil {
		next, err = appendClause(next, astfacade.Clause("OFFSET", astfacade.Raw(strconv.Itoa(*f.Offset))))
		if err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (f LimitOffset) ExtractParameters() ([]parameter.TypedParameter, map[string]parameter.TypedParameter) {
	return nil, nil
}

func (f LimitOffset) Fingerprint() []byte {
	l, o := "-", "-"
	if f.Limit != nil {
		l = strconv.Itoa(*f.Limit)
	}
	if f.Offset != nil {
		o = strconv.Itoa(*f.Offset)
	}
	return fingerprintOf("limit_offset", l, o)
}
