// Package dataset defines the rows bookseed inserts.
//
// A dataset is a YAML document with four lists: publishers, authors, books
// and book_authors. Rows refer to each other by 1-based position within their
// list, so a file never depends on the surrogate ids a database hands out.
// The default dataset is embedded in the binary; Load reads a replacement
// from disk. Validate checks the column limits of the schema and every
// reference before any row is sent to the database.
package dataset
