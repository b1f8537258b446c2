// Package pipeline implements the ordered AST-over-AST transformers the SQL
// processor runs: literal parameterization, optimization, and validation.
// Each step is a pure function taking a SQLTransformContext and returning
// an updated one, per §4.3/§4.5.
package pipeline

import (
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// ParameterizeLiterals replaces every literal node not already a
// placeholder with a placeholder, appending its value to the parameter
// vector in source order so that downstream style conversion can
// correctly renumber (§4.5.2). It is a no-op on a statement already
// containing only placeholders, since FindAll(KindLiteral) then finds
// nothing — property 5 in §8.
var ParameterizeLiterals = statement.Step{
	Name: "parameterize_literals",
	Fn:   parameterizeLiterals,
}

func parameterizeLiterals(ctx *statement.SQLTransformContext) (*statement.SQLTransformContext, error) {
	if ctx.Current == nil {
		return ctx, nil
	}

	params := append([]parameter.TypedParameter(nil), ctx.Parameters...)
	placeholderIndex := len(params)

	next := astfacade.Transform(ctx.Current, func(e *astfacade.Expression) *astfacade.Expression {
		if e.Kind != astfacade.KindLiteral {
			return e
		}
		placeholderIndex++
		val := literalToValue(e.Literal)
		params = append(params, parameter.TypedParameter{Value: val})
		return astfacade.Placeholder("?")
	})

	updated := *ctx
	updated.Current = next
	updated.Parameters = params
	return &updated, nil
}

func literalToValue(text string) parameter.Value {
	switch text {
	case "true", "TRUE", "True":
		return parameter.BoolValue(true)
	case "false", "FALSE", "False":
		return parameter.BoolValue(false)
	case "null", "NULL", "Null":
		return parameter.NullValue{}
	}
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') {
		return parameter.TextValue(text[1 : len(text)-1])
	}
	if isNumeric(text) {
		return parameter.TextValue(text) // preserve exact lexical form; numerics stay text unless a coercion is registered for the text kind
	}
	return parameter.TextValue(text)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	return true
}
