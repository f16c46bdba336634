// Package specifications declares the extension specifications the tool
// knows about locally. Each kind lives in its own file; All returns them in
// registration order.
package specifications
