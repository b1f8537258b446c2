package pipeline

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// ValidateOptions configures the optional, config-gated checks in §4.5.3.
// The two required checks (placeholder/parameter count parity, forbidden
// identifier characters) always run when the step is enabled at all.
type ValidateOptions struct {
	DetectTautologies     bool
	ForbiddenFunctions    []string
	DetectUnionInjection  bool
	// CELRules are additional predicate checks expressed in CEL,
	// evaluated against each KindComparison node's {left, right, op}
	// variables; a rule firing true raises a ValidationError named after
	// it. This is the validation-step predicate evaluator named in the
	// domain stack.
	CELRules []CELRule
}

// CELRule names a compiled CEL program used as a custom validation guard.
type CELRule struct {
	Name       string
	Expression string
}

// NewValidateStep builds the validate_step. Required checks always run;
// optional checks run only when their option is set.
func NewValidateStep(opts ValidateOptions) (statement.Step, error) {
	programs, err := compileCELRules(opts.CELRules)
	if err != nil {
		return statement.Step{}, err
	}

	return statement.Step{
		Name: "validate",
		Fn: func(ctx *statement.SQLTransformContext) (*statement.SQLTransformContext, error) {
			if ctx.Current == nil {
				return ctx, nil
			}

			if err := checkForbiddenIdentifierChars(ctx.Current); err != nil {
				return nil, err
			}
			if err := checkPlaceholderParameterParity(ctx.Current, len(ctx.Parameters)); err != nil {
				return nil, err
			}

			if opts.DetectTautologies {
				if err := checkTautologies(ctx.Current); err != nil {
					return nil, err
				}
			}
			if len(opts.ForbiddenFunctions) > 0 {
				if err := checkForbiddenFunctions(ctx.Current, opts.ForbiddenFunctions); err != nil {
					return nil, err
				}
			}
			if opts.DetectUnionInjection {
				if err := checkUnionInjection(ctx.Current); err != nil {
					return nil, err
				}
			}
			if len(programs) > 0 {
				if err := checkCELRules(ctx.Current, programs); err != nil {
					return nil, err
				}
			}

			return ctx, nil
		},
	}, nil
}

func checkForbiddenIdentifierChars(expr *astfacade.Expression) error {
	for node := range astfacade.FindAll(expr, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindColumn || e.Kind == astfacade.KindTable }) {
		for _, r := range node.Name {
			if r == ';' || r == '\x00' {
				return &sqlspec.ValidationError{Kind: "forbidden_identifier", Message: fmt.Sprintf("identifier %q contains a forbidden character", node.Name)}
			}
		}
	}
	return nil
}

// checkPlaceholderParameterParity enforces the one required check that
// isn't purely identifier-based: after literal parameterization every
// placeholder node must have a corresponding parameter value. Named and
// numbered styles may reference the same parameter more than once, so a
// placeholder count below the parameter count is fine; a placeholder count
// above it can never be satisfied and is always an error.
func checkPlaceholderParameterParity(expr *astfacade.Expression, paramCount int) error {
	placeholders := 0
	for range astfacade.FindAll(expr, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindPlaceholder }) {
		placeholders++
	}
	if placeholders > paramCount {
		return &sqlspec.ValidationError{Kind: "parameter_count_mismatch", Message: fmt.Sprintf("statement references %d placeholders but only %d parameters were supplied", placeholders, paramCount)}
	}
	return nil
}

// checkTautologies flags EQ(literal, literal) comparisons with identical
// values — the precision this implements resolves the open question in
// Design Notes in favor of the narrower reading (literal EQ pairs only,
// not full constant-folded subtrees); see DESIGN.md.
func checkTautologies(expr *astfacade.Expression) error {
	for node := range astfacade.FindAll(expr, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindComparison && e.Op == "=" }) {
		left, right := node.Children[0], node.Children[1]
		if left.Kind == astfacade.KindLiteral && right.Kind == astfacade.KindLiteral && left.Literal == right.Literal {
			return &sqlspec.ValidationError{Kind: "tautology", Message: fmt.Sprintf("tautological comparison: %s = %s", left.Literal, right.Literal)}
		}
	}
	return nil
}

func checkForbiddenFunctions(expr *astfacade.Expression, forbidden []string) error {
	for node := range astfacade.FindAll(expr, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindRaw }) {
		for _, fn := range forbidden {
			if containsFold(node.Raw, fn) {
				return &sqlspec.ValidationError{Kind: "forbidden_function", Message: fmt.Sprintf("use of forbidden function %q", fn)}
			}
		}
	}
	return nil
}

// checkUnionInjection applies a conservative heuristic aimed at the
// "... UNION SELECT ... WHERE 1=1" injection shape: a literal tautology in
// any top-level WHERE clause of the statement is reported as
// union_injection. It does not look for a UNION keyword, so a statement
// without UNION is flagged as well. This
// resolves the open question on UNION-injection heuristics narrowly, the
// same way checkTautologies does for plain tautologies.
func checkUnionInjection(expr *astfacade.Expression) error {
	if expr.Kind != astfacade.KindStatement {
		return nil
	}
	for _, clause := range expr.Children {
		if clause.Name != "WHERE" {
			continue
		}
		for _, child := range clause.Children {
			if err := checkTautologies(child); err != nil {
				return &sqlspec.ValidationError{Kind: "union_injection", Message: "UNION-adjacent clause contains a tautological predicate"}
			}
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	hl, nl := len(haystack), len(needle)
	for i := 0; i+nl <= hl; i++ {
		if equalFoldASCIIBytes(haystack[i:i+nl], needle) {
			return true
		}
	}
	return false
}

func equalFoldASCIIBytes(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func compileCELRules(rules []CELRule) ([]compiledCELRule, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("op", cel.StringType),
		cel.Variable("left", cel.StringType),
		cel.Variable("right", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline: creating CEL environment: %w", err)
	}

	out := make([]compiledCELRule, 0, len(rules))
	for _, rule := range rules {
		ast, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("pipeline: compiling CEL rule %q: %w", rule.Name, issues.Err())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("pipeline: building CEL program %q: %w", rule.Name, err)
		}
		out = append(out, compiledCELRule{name: rule.Name, program: program})
	}
	return out, nil
}

type compiledCELRule struct {
	name    string
	program cel.Program
}

func checkCELRules(expr *astfacade.Expression, rules []compiledCELRule) error {
	for node := range astfacade.FindAll(expr, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindComparison }) {
		if len(node.Children) != 2 {
			continue
		}
		vars := map[string]any{
			"op":    node.Op,
			"left":  literalOrName(node.Children[0]),
			"right": literalOrName(node.Children[1]),
		}
		for _, rule := range rules {
			out, _, err := rule.program.Eval(vars)
			if err != nil {
				continue
			}
			if b, ok := out.Value().(bool); ok && b {
				return &sqlspec.ValidationError{Kind: "cel_rule", Message: fmt.Sprintf("validation rule %q rejected the statement", rule.name)}
			}
		}
	}
	return nil
}

func literalOrName(e *astfacade.Expression) string {
	if e.Kind == astfacade.KindLiteral {
		return e.Literal
	}
	return e.Name
}
