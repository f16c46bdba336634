// Package cli defines the Cobra command tree for the appforge CLI. Each file
// registers one top-level command (app, specs, config, version) with the root
// command. Commands delegate to internal packages for the extension model and
// only handle flag parsing, settings, logging setup and output formatting.
package cli
