// Package schema owns the DDL of the four seeded tables.
//
// The statements live in an embedded schema.sql and are split into one
// statement per table so a failure names the table that could not be created.
// Every statement is CREATE TABLE IF NOT EXISTS: Ensure never alters or drops
// an existing table.
package schema
