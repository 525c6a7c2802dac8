// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It binds
// flags into the application's settings and dispatches to the App.
package cli
