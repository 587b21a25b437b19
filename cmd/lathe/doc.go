// Command lathe is the CLI for the media processing toolkit: single-file
// operations, concurrent batches, run history, and environment checks.
package main
