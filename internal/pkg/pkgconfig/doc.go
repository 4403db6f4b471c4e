// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface so it stays easy to test and
// does not care whether a value came from the YAML file, the process
// environment, or a local .env file.
package pkgconfig
