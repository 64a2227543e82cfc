// Package version holds the client version string.
package version

// Version is the current quickfile client version.
const Version = "0.1.0"
