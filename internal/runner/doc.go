// Package runner launches scripts and captures their output.
//
// A Runtime knows how to turn a script and its arguments into a process
// invocation, and optionally how to prepare the script first (the compiled
// kind builds its artifact on demand). Executor dispatches on the script's
// runtime kind and runs every invocation through the same capture routine,
// so the three kinds differ only in argument construction and build step.
//
// Executor.Run blocks until the process exits. Executor.Stream does the same
// while pushing output chunks to a Sink as they arrive. Both return the same
// Result for the same process behavior.
//
// Failures never surface as Go errors. A process that cannot be started
// yields exit code -1 with the reason in Stderr; a failed build yields the
// build's exit code and output.
package runner
