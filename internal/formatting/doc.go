// Package formatting renders the descriptor table and bootstrap reports as
// terminal tables.
package formatting
