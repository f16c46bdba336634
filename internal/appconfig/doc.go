// Package appconfig handles parsing and validation of the app configuration
// file (appforge.app.toml) and of web configuration files
// (appforge.web.toml). Both are validated against embedded JSON schemas
// before they are decoded into typed structs.
package appconfig
