// Package client wires the collection tracker runtime: configuration,
// remote adapter, offline cache, snapshot storage, the collection store
// and the identification pipeline, bound into a single process
// lifecycle.
package client
