package sqlspec

// Capabilities defines which SQL features are supported by each dialect.
// statement.DefaultStatementConfig, SQL.ReturnsRows, and filter.Search
// consult this table instead of special-casing dialect names inline.
var Capabilities = map[Dialect]map[Feature]bool{
	DialectPostgres: {
		FeatureConcat:               true,
		FeatureConcatOperator:       true,
		FeatureConcatFunction:       true,
		FeatureJSON:                 true,
		FeatureArray:                true,
		FeatureReturning:            true,
		FeatureNumericPlaceholders:  true,
		FeatureNativeListExpansion:  true,
		FeatureILike:                true,
	},
	DialectMySQL: {
		FeatureConcat:               true,
		FeatureConcatOperator:       false,
		FeatureConcatFunction:       true,
		FeatureJSON:                 true,
		FeatureArray:                false,
		FeatureReturning:            false,
		FeatureNumericPlaceholders:  false,
		FeatureNativeListExpansion:  false,
		FeatureILike:                false,
	},
	DialectMariaDB: {
		FeatureConcat:               true,
		FeatureConcatOperator:       false,
		FeatureConcatFunction:       true,
		FeatureJSON:                 true,
		FeatureArray:                false,
		FeatureReturning:            true,
		FeatureNumericPlaceholders:  false,
		FeatureNativeListExpansion:  false,
		FeatureILike:                false,
	},
	DialectSQLite: {
		FeatureConcat:               true,
		FeatureConcatOperator:       true,
		FeatureConcatFunction:       false,
		FeatureJSON:                 false,
		FeatureArray:                false,
		FeatureReturning:            true,
		FeatureNumericPlaceholders:  false,
		FeatureNativeListExpansion:  false,
		FeatureILike:                false,
	},
	DialectOracle: {
		FeatureConcat:               true,
		FeatureConcatOperator:       true,
		FeatureConcatFunction:       false,
		FeatureJSON:                 true,
		FeatureArray:                false,
		FeatureReturning:            true,
		FeatureNumericPlaceholders:  false,
		FeatureNativeListExpansion:  false,
		FeatureILike:                false,
	},
	DialectMSSQL: {
		FeatureConcat:               true,
		FeatureConcatOperator:       false,
		FeatureConcatFunction:       false,
		FeatureJSON:                 true,
		FeatureArray:                false,
		FeatureReturning:            false,
		FeatureNumericPlaceholders:  false,
		FeatureNativeListExpansion:  false,
		FeatureILike:                false,
	},
	DialectGeneric: {
		FeatureConcat:              true,
		FeatureConcatOperator:      false,
		FeatureConcatFunction:      false,
		FeatureJSON:                false,
		FeatureArray:               false,
		FeatureReturning:           false,
		FeatureNumericPlaceholders: false,
		FeatureNativeListExpansion: false,
		FeatureILike:               false,
	},
}

// Supports reports whether dialect d is known to support feature f. Unknown
// dialects report false for every feature rather than panicking.
func Supports(d Dialect, f Feature) bool {
	features, ok := Capabilities[d]
	if !ok {
		return false
	}
	return features[f]
}
