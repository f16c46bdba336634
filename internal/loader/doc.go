// Package loader builds an app.App from a project directory.
//
// Loading reads the app configuration, discovers extension configuration
// files below the configured extension directories, resolves each of them
// concurrently against the specification registries, and collects the
// resulting instances back in discovery order. Problems with individual
// extensions are recorded in the App's load errors; only app-level problems
// abort the load.
package loader
