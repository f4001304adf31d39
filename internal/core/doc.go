// Package core turns rows of the traffic analyser's log files into database
// records.
//
// This package holds all of the import logic and knows nothing about the
// command line. It can be driven by the CLI, by tests, or by another tool
// without modification.
//
// # Architecture
//
//   - Formats: each input layout is registered via [Register] with its column
//     specs and a [ParseFunc]. The concrete layouts live in core/formats.
//   - Timestamp resolution: log lines carry no year; [ResolveLogTimestamp]
//     picks the most recent year that does not put the entry in the future.
//   - Release resolution: [ReleaseResolver] maps (package, version code) to a
//     release id and remembers only the last key it resolved.
//   - Importer: [Importer.Run] reads one file in order, inside one database
//     transaction, and returns an [ImportResult] tally.
//
// # Error Handling
//
// A row either parses into a record, is skipped, or aborts the run:
//
//   - Skipped rows come back as a [RowResult] with Skip set. They are logged
//     with the full row and processing continues.
//   - Any returned error aborts the file: wrong column count
//     ([ErrColumnCount]), unknown release ([ErrReleaseNotFound]), missing input
//     ([ErrInputNotFound]) and database failures.
//
// [MapError] turns either kind into a coded message for operators.
package core
