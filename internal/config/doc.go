// Package config defines the format-agnostic definitions model (scripts,
// script groups and workflows) and the Loader interface that fills it.
//
// Concrete loaders live in their own packages; internal/hcl is the one the
// binary uses. The registry and the workflow store are populated from a
// Definitions value and never see the source format.
package config
