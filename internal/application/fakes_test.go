package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/battleroid/dwms/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var jan1 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// fakeSource serves canned inventories; a repository mapped to an error
// fails its fetch, and a repository listed in block waits for the deadline.
type fakeSource struct {
	healthErr error
	inventory map[string][]domain.SnapshotRecord
	errs      map[string]error
	block     map[string]bool
}

func (f *fakeSource) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeSource) ListSnapshots(ctx context.Context, repository string) ([]domain.SnapshotRecord, error) {
	if f.block[repository] {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
	}
	if err, ok := f.errs[repository]; ok {
		return nil, err
	}
	return f.inventory[repository], nil
}

type fakeFactory struct {
	mu      sync.Mutex
	sources map[string]*fakeSource
	calls   []string
}

func (f *fakeFactory) ForCluster(c domain.ClusterConfig) (domain.SnapshotSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c.ID())
	src, ok := f.sources[c.ID()]
	if !ok {
		return nil, errors.New("no such cluster")
	}
	return src, nil
}

type recordingSink struct {
	name string
	err  error
	got  []domain.Dispatch
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Dispatch(_ context.Context, d domain.Dispatch) error {
	s.got = append(s.got, d)
	return s.err
}

func cluster(name string, repos map[string][]string) domain.ClusterConfig {
	rc := make(map[string]domain.RepositoryConfig, len(repos))
	for repo, pats := range repos {
		rc[repo] = domain.RepositoryConfig{Patterns: pats}
	}
	return domain.ClusterConfig{Endpoint: name, Repositories: rc}
}

func success(ids ...string) []domain.SnapshotRecord {
	out := make([]domain.SnapshotRecord, len(ids))
	for i, id := range ids {
		out[i] = domain.SnapshotRecord{ID: id, Status: domain.SnapshotSuccess}
	}
	return out
}
