// Package postgres implements the lesson, shared excerpt and profile stores
// on PostgreSQL through database/sql and the pgx driver. Lesson plans are
// stored as JSONB; every lesson statement filters on the owner.
//
// Schema changes live in the migrations subpackage and are applied with goose.
package postgres
