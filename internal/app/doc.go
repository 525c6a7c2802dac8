// Package app contains the core application logic. It turns Settings into a
// wired App (logger, script registry, workflow store, runner, controller and
// observers) and exposes the operations the CLI needs, decoupled from any
// specific entrypoint.
package app
