// Package probe inspects media containers through ffprobe's JSON interface
// and reduces the result to the properties the transform pipelines need.
package probe
