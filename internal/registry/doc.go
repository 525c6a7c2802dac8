// Package registry holds the scripts available to the engine.
//
// The Registry interface is the read-only view the execution controller
// depends on: it lists scripts and looks them up by id. Memory is the
// in-process implementation the application fills from loaded definitions;
// it also keeps the script groups used for listing.
//
// The engine never mutates a registry. Lookups of ids that are gone are
// expected and handled by the caller.
package registry
