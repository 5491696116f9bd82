package itemstore

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Instrument wraps store so every call is recorded in m.
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
	outcome := metrics.OutcomeOK
	if errors.Is(err, ErrNotFound) {
		outcome = metrics.OutcomeNotFound
	} else if err != nil {
		outcome = metrics.OutcomeError
	}
	s.metrics.RecordOperation(op, outcome, time.Since(start))
}

func (s *instrumentedStore) GetItem(ctx context.Context, id string) (*sharefile.Item, error) {
	start := time.Now()
	item, err := s.inner.GetItem(ctx, id)
	s.record("get", start, err)
	return item, err
}

func (s *instrumentedStore) PutItem(ctx context.Context, item *sharefile.Item) error {
	start := time.Now()
	err := s.inner.PutItem(ctx, item)
	s.record("put", start, err)
	return err
}

func (s *instrumentedStore) DeleteItem(ctx context.Context, id string) error {
	start := time.Now()
	err := s.inner.DeleteItem(ctx, id)
	s.record("delete", start, err)
	return err
}

func (s *instrumentedStore) ListChildren(ctx context.Context, parentID string) ([]*sharefile.Item, error) {
	start := time.Now()
	children, err := s.inner.ListChildren(ctx, parentID)
	s.record("list_children", start, err)
	return children, err
}

func (s *instrumentedStore) Close() error {
	return s.inner.Close()
}
