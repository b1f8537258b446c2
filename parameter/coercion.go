package parameter

import "fmt"

// Coerce applies cfg.TypeCoercionMap elementwise to params, in order. A
// parameter whose Value.Kind() has no registered coercion function passes
// through unchanged. The returned error, when non-nil, carries the 0-based
// index of the first parameter that failed to coerce.
func Coerce(params []TypedParameter, cfg StyleConfig) ([]TypedParameter, int, error) {
	out := make([]TypedParameter, len(params))
	for i, p := range params {
		fn, ok := cfg.TypeCoercionMap[p.Value.Kind()]
		if !ok {
			out[i] = p
			continue
		}
		coerced, err := fn(p)
		if err != nil {
			return nil, i, fmt.Errorf("parameter: coercion failed for parameter %d (%s): %w", i, p.Value.Kind(), err)
		}
		out[i] = coerced
	}
	return out, -1, nil
}
