// Package cli implements the bookseed command line: seed, schema, show and
// version. Commands resolve connection settings from flags, the environment
// and bookseed.yaml, then delegate to a bookseed.Seeder.
package cli
