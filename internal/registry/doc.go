// Package registry resolves the declared `type` of an extension
// configuration to its specification. There is one Registry per extension
// category; Set groups the three.
//
// Local specifications are fixed at construction and read-only afterwards, so
// lookups may run concurrently without locking. When a remote catalog is
// configured its metadata is fetched once per process and merged onto the
// matching local specification; the local schema and deploy transform always
// win. A failing catalog never hides local specifications.
package registry
