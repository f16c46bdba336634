// Package deps reads a project's Node.js dependency state: the declared
// dependencies in package.json, the package manager in use, whether the
// project uses workspaces, and whether a declared dependency satisfies the
// version range an extension requires.
package deps
