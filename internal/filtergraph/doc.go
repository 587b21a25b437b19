// Package filtergraph renders transform plans into engine invocations.
//
// Filter stages are held as typed descriptors and serialized to the engine's
// filter-string grammar in one place, so quoting and separator escaping live
// here instead of being scattered across call sites.
package filtergraph
