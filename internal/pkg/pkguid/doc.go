// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the StringID / NumberID interfaces:
//   - String IDs are UUIDv7 (sessions, correlation IDs, event IDs).
//   - Numeric IDs are Snowflake IDs (aggregation runs), sortable by time.
package pkguid
