// Package executor drives workflow runs.
//
// A Controller orders a workflow's nodes (package dag), then runs them one at
// a time: it resolves each node's arguments from the outputs recorded so far
// (package resolver), executes the script in blocking mode (package runner),
// records the NodeOutput, and appends a human-readable account to the run
// log. The first non-zero exit code stops the run.
//
// Start returns immediately. The run executes on its own goroutine and
// reports progress by publishing immutable Snapshots to the configured
// Observers; the latest snapshot is also available from the Run handle.
// Runs are independent of each other and of single-script runs started with
// RunScript.
//
// A run ends in exactly one terminal state: succeeded, failed,
// cycle-rejected or cancelled. Errors never escape a run; they are reported
// through the snapshot's State, Error and Log fields.
package executor
