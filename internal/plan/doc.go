// Package plan reduces diagnostic events into transform plans.
//
// A plan is either a timeline partition into keep/drop segments (silence
// removal, scene splitting) or a set of numeric correction parameters
// (loudness normalization). Plans are built once per job, are immutable after
// construction, and are the only thing the apply stage needs besides the
// input path.
package plan
