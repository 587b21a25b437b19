// Package batch fans independent processing jobs out to a bounded worker
// pool. Concurrency is capped because each job spawns its own engine
// processes; the bound limits total system load, not goroutines.
package batch
