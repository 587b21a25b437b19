// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with
//     the stage and operation that produced them.
//   - Classification of which failures may advance a fallback chain versus
//     aborting the job outright.
//   - Context helpers that stamp job IDs, stage names, and input paths for
//     logging.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, fallback policy) stays uniform.
package services
