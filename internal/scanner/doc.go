// Package scanner runs the card identification loop: it periodically
// captures a frame, submits it to the identification service, filters
// near-duplicate results through a time-bounded window and keeps the
// accepted results in a working list until the user commits them into
// the collection.
package scanner
