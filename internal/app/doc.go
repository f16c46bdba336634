// Package app holds the App aggregate: one project's configuration, its
// resolved extension instances grouped by category, its webs, and the
// non-fatal errors collected while loading it.
//
// An App is built fresh for every command and never persisted. It only
// changes through explicit operations such as UpdateDependencies.
package app
