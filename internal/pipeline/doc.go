// Package pipeline implements the analyze-then-transform workflows: silence
// removal, scene splitting, loudness normalization, motion stabilization, and
// the single-pass convert and trim operations. Each workflow probes the
// input, runs an analysis pass whose diagnostic output is parsed into a
// transform plan, then renders and executes the plan against the engine.
package pipeline
