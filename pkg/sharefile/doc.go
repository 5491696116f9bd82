// Package sharefile defines the remote document-store model shared by the
// filesystem adapter and every client implementation.
//
// A ShareFile account is a tree of typed items (files and folders). Each item
// carries an opaque identifier, a leaf name, an optional parent reference and a
// sparse bag of capability flags describing what the authenticated user may do
// with it. This package only models those items and the collaborator contract
// used to fetch and mutate them:
//
//   - Item, Kind, Capability: the remote node snapshot
//   - Client: the operations a remote implementation must provide
//   - ErrItemNotFound: the structurally-missing outcome of a lookup
//
// Implementations live in subpackages:
//   - pkg/sharefile/rest    - the ShareFile v3 REST API
//   - pkg/sharefile/sandbox - a local emulated account (development, tests)
package sharefile
