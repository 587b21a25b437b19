// Package preflight verifies the runtime environment before work starts:
// engine binaries on PATH and writable working directories. The doctor
// command surfaces these results to the user.
package preflight
