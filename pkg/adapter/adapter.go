// Package adapter exposes a capability-gated ShareFile account as a
// path-addressed filesystem.
//
// Every public operation follows the same pipeline:
//
//  1. Path resolution: logical path -> remote item (prefix applied, root normalized)
//  2. Access gate: the item's (or its parent folder's) capability flags are checked
//  3. Remote call through the sharefile.Client collaborator
//  4. Normalization of the resulting item into a Metadata record
//
// Paths that do not resolve and operations the remote system does not permit
// both yield ErrNotFound, so callers cannot tell them apart. Failures raised
// by the client (transport, authentication, server faults) are returned as
// *RemoteError.
//
// The adapter holds no remote state between calls: each operation works on
// freshly fetched item snapshots. It is safe for concurrent use as long as
// the client is; overlapping operations on the same path are not coordinated.
package adapter

import (
	"strings"
	"time"

	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/mimetype"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// DefaultHomeFolderLabel is the directory name collapsed to "" in
// Metadata.Dirname. Listing the root returns children below the home folder,
// whose entries carry this label as their first path component.
const DefaultHomeFolderLabel = "Personal Folders"

// Adapter is the path-addressed view over a sharefile.Client.
type Adapter struct {
	client     sharefile.Client
	prefix     string
	returnItem bool
	homeLabel  string
	mime       mimetype.Guesser
	metrics    metrics.AdapterMetrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPrefix scopes every logical path below prefix on the remote store.
func WithPrefix(prefix string) Option {
	return func(a *Adapter) {
		a.prefix = normalizePrefix(prefix)
	}
}

// WithReturnItem attaches the raw remote item to every Metadata result.
func WithReturnItem(enabled bool) Option {
	return func(a *Adapter) {
		a.returnItem = enabled
	}
}

// WithHomeFolderLabel overrides DefaultHomeFolderLabel.
func WithHomeFolderLabel(label string) Option {
	return func(a *Adapter) {
		a.homeLabel = label
	}
}

// WithMimeGuesser replaces the default content-then-extension guesser.
func WithMimeGuesser(g mimetype.Guesser) Option {
	return func(a *Adapter) {
		if g != nil {
			a.mime = g
		}
	}
}

// WithMetrics records per-operation outcomes and latencies.
func WithMetrics(m metrics.AdapterMetrics) Option {
	return func(a *Adapter) {
		if m != nil {
			a.metrics = m
		}
	}
}

// New creates an Adapter over client.
func New(client sharefile.Client, opts ...Option) *Adapter {
	a := &Adapter{
		client:    client,
		homeLabel: DefaultHomeFolderLabel,
		mime:      mimetype.Default,
		metrics:   metrics.NewNoopAdapterMetrics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Client returns the remote collaborator the adapter was built with.
func (a *Adapter) Client() sharefile.Client {
	return a.client
}

// Prefix returns the configured path prefix ("" when unscoped).
func (a *Adapter) Prefix() string {
	return a.prefix
}

// normalizePrefix strips trailing separators and appends exactly one.
func normalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimRight(prefix, `\/`) + "/"
}

// applyPrefix joins the prefix and a logical path.
func (a *Adapter) applyPrefix(path string) string {
	return a.prefix + strings.TrimLeft(path, `\/`)
}

// finish records the operation outcome and shapes the returned error: nil,
// ErrNotFound, or a *RemoteError.
func (a *Adapter) finish(op, path string, start time.Time, err error) error {
	err = classify(op, path, err)

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case IsNotFound(err):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
	}
	a.metrics.RecordOperation(op, outcome, time.Since(start))

	return err
}
