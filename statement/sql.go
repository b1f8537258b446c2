package statement

import (
	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
)

// OperationKind distinguishes how a SQL statement is dispatched.
type OperationKind int

const (
	// Single executes once and, if it returns rows, extracts them.
	Single OperationKind = iota
	// Many executes once per parameter set in a batch; rowcount only.
	Many
	// Script splits on statement boundaries (or compiles with Static
	// style) and executes each piece in order.
	Script
)

func (k OperationKind) String() string {
	switch k {
	case Single:
		return "single"
	case Many:
		return "many"
	case Script:
		return "script"
	default:
		return "unknown"
	}
}

// namedParam preserves insertion order for named parameters — a plain Go
// map would not — mirroring the "insertion-ordered mapping" invariant on
// SQL.named_parameters.
type namedParam struct {
	Name  string
	Value parameter.TypedParameter
}

// StatementFilter is a composable predicate/modifier that appends clauses
// and parameters to a SQL object immutably. Implemented by the filter
// package; declared here (not there) so statement does not depend on it.
type StatementFilter interface {
	AppendToStatement(sql *SQL) (*SQL, error)
	ExtractParameters() (positional []parameter.TypedParameter, named map[string]parameter.TypedParameter)
	Fingerprint() []byte
}

// SQL is the user-facing immutable statement handle. Modifier methods
// return new instances; the zero value's slices/maps are never mutated in
// place once the object has been returned to a caller.
type SQL struct {
	RawText    string
	Expression *astfacade.Expression // lazily populated by the processor

	Positional []parameter.TypedParameter
	named      []namedParam

	Filters []StatementFilter
	Config  StatementConfig

	OperationKind OperationKind
	ManyParams    [][]parameter.TypedParameter // used when OperationKind == Many

	processedState *CompiledSQL
	processedStyle parameter.Style
}

// New constructs a SQL object from raw text.
func New(text string, cfg StatementConfig) *SQL {
	return &SQL{RawText: text, Config: cfg}
}

// NewFromExpression constructs a SQL object from a pre-built AST, the path
// the query builder uses.
func NewFromExpression(expr *astfacade.Expression, cfg StatementConfig) *SQL {
	return &SQL{Expression: expr, Config: cfg}
}

// clone returns a shallow copy with independently-owned slices, so a
// modifier can append without mutating the receiver's backing arrays.
func (s *SQL) clone() *SQL {
	next := *s
	next.Positional = append([]parameter.TypedParameter(nil), s.Positional...)
	next.named = append([]namedParam(nil), s.named...)
	next.Filters = append([]StatementFilter(nil), s.Filters...)
	next.processedState = nil // a modified statement must recompile
	return &next
}

// WithPositionalParam returns a new SQL with v appended to the positional
// parameter list.
func (s *SQL) WithPositionalParam(v parameter.TypedParameter) *SQL {
	next := s.clone()
	next.Positional = append(next.Positional, v)
	return next
}

// WithNamedParam returns a new SQL with (name, v) added to the named
// parameter map, preserving insertion order; re-setting an existing name
// overwrites its value in place without changing its position.
func (s *SQL) WithNamedParam(name string, v parameter.TypedParameter) *SQL {
	next := s.clone()
	for i, np := range next.named {
		if np.Name == name {
			next.named[i].Value = v
			return next
		}
	}
	next.named = append(next.named, namedParam{Name: name, Value: v})
	return next
}

// NamedParams returns the named parameters in insertion order.
func (s *SQL) NamedParams() []string {
	names := make([]string, len(s.named))
	for i, np := range s.named {
		names[i] = np.Name
	}
	return names
}

// NamedParam looks up a named parameter by name.
func (s *SQL) NamedParam(name string) (parameter.TypedParameter, bool) {
	for _, np := range s.named {
		if np.Name == name {
			return np.Value, true
		}
	}
	return parameter.TypedParameter{}, false
}

// WithFilter returns a new SQL with f appended to the filter chain and
// f's own parameters merged in, applying f.AppendToStatement to fold its
// AST clauses in immutably.
func (s *SQL) WithFilter(f StatementFilter) (*SQL, error) {
	next := s.clone()
	next.Filters = append(next.Filters, f)
	applied, err := f.AppendToStatement(next)
	if err != nil {
		return nil, err
	}
	positional, named := f.ExtractParameters()
	applied = applied.clone()
	applied.Positional = append(applied.Positional, positional...)
	for name, v := range named {
		found := false
		for i, np := range applied.named {
			if np.Name == name {
				applied.named[i].Value = v
				found = true
				break
			}
		}
		if !found {
			applied.named = append(applied.named, namedParam{Name: name, Value: v})
		}
	}
	return applied, nil
}

// AsMany returns a new SQL configured for batch execution over paramSets.
func (s *SQL) AsMany(paramSets [][]parameter.TypedParameter) *SQL {
	next := s.clone()
	next.OperationKind = Many
	next.ManyParams = paramSets
	return next
}

// AsScript returns a new SQL configured for script execution.
func (s *SQL) AsScript() *SQL {
	next := s.clone()
	next.OperationKind = Script
	return next
}

// Copy returns an independent, equal SQL instance.
func (s *SQL) Copy() *SQL { return s.clone() }

// IsScript, IsMany, ReturnsRows are cheap introspection helpers.
func (s *SQL) IsScript() bool { return s.OperationKind == Script }
func (s *SQL) IsMany() bool   { return s.OperationKind == Many }

// ReturnsRows heuristically reports whether this statement is expected to
// return rows: a SELECT or EXPLAIN, or — on a dialect whose capability table
// reports FeatureReturning — any statement with an explicit RETURNING clause.
// The RETURNING check needs a parsed Expression: for a statement holding
// only raw text, ReturnsRows reports whether the first non-blank character
// is an S, and a RETURNING clause in that text is not detected.
// Adapters may override via special-case handling; this is a best-effort
// default consulted before a round trip, not authoritative after one (the
// driver's own result shape always wins at execution time).
func (s *SQL) ReturnsRows() bool {
	if s.Expression == nil {
		return looksLikeSelect(s.RawText)
	}
	if s.Expression.Op == "SELECT" || s.Expression.Op == "EXPLAIN" {
		return true
	}
	if !sqlspec.Supports(s.Config.Dialect, sqlspec.FeatureReturning) {
		return false
	}
	for _, clause := range s.Expression.Children {
		if clause.Name == "RETURNING" {
			return true
		}
	}
	return false
}

func looksLikeSelect(text string) bool {
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return r == 'S' || r == 's'
	}
	return false
}

// FiltersFingerprint hashes the fields a cache key needs beyond the statement
// text/config fingerprint: filters and their parameters, since two SQL
// objects with identical text but different WithFilter chains must not
// collide in the compiled cache.
func (s *SQL) FiltersFingerprint() uint64 {
	h := xxhash.New()
	for _, f := range s.Filters {
		h.Write(f.Fingerprint())
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Compile resolves this statement to a CompiledSQL, per §4.4's compilation
// algorithm: reuse processedState when the target style matches, otherwise
// delegate to Config.Processor (which itself consults the multi-tier
// cache) and cache the result.
func (s *SQL) Compile(targetStyle ...parameter.Style) (*CompiledSQL, error) {
	style := s.Config.ParameterConfig.DefaultStyle
	if len(targetStyle) > 0 {
		style = targetStyle[0]
	}
	if s.processedState != nil && s.processedStyle == style {
		return s.processedState, nil
	}
	compiled, err := s.Config.Processor.Compile(s, style)
	if err != nil {
		return nil, err
	}
	s.processedState = compiled
	s.processedStyle = style
	return compiled, nil
}

// CompiledSQL is the value-type contract between the engine and driver
// adapters: final text, normalized parameter vector, the style it was
// rendered in, and free-form metadata pipeline steps attached.
type CompiledSQL struct {
	SQL            string
	Parameters     []parameter.TypedParameter
	ParameterStyle parameter.Style
	Metadata       map[string]any
}

// SQLTransformContext is mutable only during one pipeline invocation. A
// step may replace Current, append/remove Parameters, or set a Metadata
// key; it must never mutate Original.
type SQLTransformContext struct {
	Current    *astfacade.Expression
	Original   *astfacade.Expression
	Parameters []parameter.TypedParameter
	Dialect    string
	Metadata   map[string]any
	Config     StatementConfig
}

// WithMetadata returns a shallow copy of ctx with key set to value. Later
// steps assigning the same key overwrite the earlier value, per §4.5's
// tie-break rule.
func (ctx *SQLTransformContext) WithMetadata(key string, value any) *SQLTransformContext {
	next := *ctx
	next.Metadata = make(map[string]any, len(ctx.Metadata)+1)
	for k, v := range ctx.Metadata {
		next.Metadata[k] = v
	}
	next.Metadata[key] = value
	return &next
}
