// Package database provides connection pool management for the Postgres
// warehouse.
//
// A single pool is acquired at run start, shared by the loader and the
// checkpoint store, and released on every exit path.
package database
