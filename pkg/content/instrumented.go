package content

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/marmos91/sharefs/pkg/metrics"
)

// Instrument wraps store so every call is recorded in m. The returned store
// forwards Close when the wrapped one implements io.Closer.
func Instrument(store Store, m metrics.StoreMetrics) Store {
	if m == nil {
		return store
	}
	return &instrumentedStore{inner: store, metrics: m}
}

type instrumentedStore struct {
	inner   Store
	metrics metrics.StoreMetrics
}

func (s *instrumentedStore) record(op string, start time.Time, err error) {
	s.metrics.RecordOperation(op, outcome(err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrContentNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func (s *instrumentedStore) ReadContent(ctx context.Context, id ContentID) (io.ReadCloser, error) {
	start := time.Now()
	rc, err := s.inner.ReadContent(ctx, id)
	s.record("read", start, err)
	if err != nil {
		return nil, err
	}
	return &countingReader{ReadCloser: rc, metrics: s.metrics}, nil
}

func (s *instrumentedStore) WriteContent(ctx context.Context, id ContentID, data []byte) error {
	start := time.Now()
	err := s.inner.WriteContent(ctx, id, data)
	s.record("write", start, err)
	if err == nil {
		s.metrics.RecordBytes("write", int64(len(data)))
	}
	return err
}

func (s *instrumentedStore) WriteFrom(ctx context.Context, id ContentID, r io.Reader) (int64, error) {
	start := time.Now()
	n, err := s.inner.WriteFrom(ctx, id, r)
	s.record("write_from", start, err)
	s.metrics.RecordBytes("write", n)
	return n, err
}

func (s *instrumentedStore) Delete(ctx context.Context, id ContentID) error {
	start := time.Now()
	err := s.inner.Delete(ctx, id)
	s.record("delete", start, err)
	return err
}

func (s *instrumentedStore) ContentExists(ctx context.Context, id ContentID) (bool, error) {
	start := time.Now()
	ok, err := s.inner.ContentExists(ctx, id)
	s.record("exists", start, err)
	return ok, err
}

func (s *instrumentedStore) Close() error {
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// countingReader reports bytes as they are consumed, so partial reads of a
// large blob are still accounted for.
type countingReader struct {
	io.ReadCloser
	metrics metrics.StoreMetrics
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	r.metrics.RecordBytes("read", int64(n))
	return n, err
}
