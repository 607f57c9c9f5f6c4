// Package reader loads tables for the query executor.
//
// A table is a named set of rows, each row a map from column name to a
// string value. Two loaders are provided:
//
//   - FileLoader reads <dir>/<table>.csv, falling back to
//     <dir>/<table>.parquet when no CSV file exists
//   - ObjectLoader reads <prefix><table>.csv from an S3-compatible bucket
//
// # Basic Usage
//
//	loader := reader.NewFileLoader("testdata")
//	rows, err := loader.Load(ctx, "student")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both loaders satisfy query.Loader:
//
//	exec := query.NewExecutor(reader.NewFileLoader("testdata"))
//
// # CSV Files
//
// The first record is the header. Every following record must have the
// same number of fields; a mismatch fails the whole load. Values are kept
// exactly as written.
//
// # Parquet Files
//
// Parquet columns are rendered to strings so they compare like CSV cells.
// Null values stay nil. Use Describe to list a table's columns and types
// without reading its rows.
//
// # Errors
//
// Every failure is a *LoadError naming the table. Missing tables unwrap
// to ErrTableNotFound and rejected names to ErrInvalidTableName.
package reader
