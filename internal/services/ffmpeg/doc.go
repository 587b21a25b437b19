// Package ffmpeg wraps invocation of the external media engine.
//
// The engine is treated as an opaque process with a defined contract: an
// ordered argument list in, separately captured stdout and stderr out, exit
// code zero meaning success regardless of stderr content. The package owns
// timeout enforcement (killing the whole child process group on expiry),
// failure classification, and the fallback chain executor that tries an
// ordered list of degraded-but-likely-to-succeed alternatives.
package ffmpeg
