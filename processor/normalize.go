package processor

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// normalizeParameters implements §4.5 step 1: "construct an initial
// parameter vector by interleaving positional and named parameters in
// placeholder order". Filter-contributed parameters are already folded
// into sql.Positional/NamedParam by the time Compile is called, since
// SQL.WithFilter appends them immediately in filter order (statement/sql.go),
// so no separate filter pass is needed here.
//
// Positional-style placeholders are satisfied in order from sql.Positional;
// named-style placeholders are looked up by name. A placeholder count that
// disagrees with the number of values available to satisfy it is a
// ParameterCountMismatchError.
func normalizeParameters(sql *statement.SQL, text string) ([]parameter.TypedParameter, []parameter.Placeholder, error) {
	placeholders, styles, err := parameter.Scan(text, sql.Config.ParameterConfig.AllowMixedStyles)
	if err != nil {
		return nil, nil, &sqlspec.MixedStylesError{Styles: styleNames(styles)}
	}

	if len(placeholders) == 0 {
		return nil, placeholders, nil
	}

	params := make([]parameter.TypedParameter, 0, len(placeholders))
	positionalIdx := 0
	for _, ph := range placeholders {
		if ph.Style.IsNamed() {
			v, ok := sql.NamedParam(ph.Name)
			if !ok {
				return nil, nil, &sqlspec.ParameterCountMismatchError{Expected: len(placeholders), Actual: positionalIdx + len(sql.NamedParams())}
			}
			params = append(params, v)
			continue
		}

		if positionalIdx >= len(sql.Positional) {
			return nil, nil, &sqlspec.ParameterCountMismatchError{Expected: len(placeholders), Actual: len(sql.Positional)}
		}
		params = append(params, sql.Positional[positionalIdx])
		positionalIdx++
	}

	return params, placeholders, nil
}
