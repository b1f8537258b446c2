// Package sqlspec provides the dialect registry, capability table, and error
// taxonomy shared by every subpackage of the statement-processing engine.
//
// Capabilities (in capabilities.go) is consulted by the statement and
// filter packages instead of special-casing dialect names inline: default
// StatementConfig construction derives HasNativeListExpansion from
// FeatureNativeListExpansion, SQL.ReturnsRows gates its RETURNING-clause
// check on FeatureReturning, and the Search filter gates ILIKE on
// FeatureILike.
package sqlspec

// Dialect represents a supported database dialect. This type is shared
// across all packages so that parsing, generation, parameter styling, and
// validation all agree on a single vocabulary.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
	DialectMariaDB  Dialect = "mariadb"
	DialectOracle   Dialect = "oracle"
	DialectMSSQL    Dialect = "mssql"
	DialectGeneric  Dialect = "generic"
)

// Feature represents a DB-specific feature flag, looked up in Capabilities
// by the statement and filter packages when deciding how to render a
// construct.
type Feature int

const (
	FeatureConcat         Feature = iota + 1 // string concatenation of any form
	FeatureConcatOperator                    // ||
	FeatureConcatFunction                    // CONCAT()
	FeatureJSON                              // JSON operators/functions
	FeatureArray                              // native ARRAY type
	FeatureReturning                         // RETURNING clause
	FeatureNumericPlaceholders               // $1, $2, ... placeholders
	FeatureNativeListExpansion                // driver accepts a slice bound to one placeholder
	FeatureILike                              // case-insensitive ILIKE operator
)
