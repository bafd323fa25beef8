// Package elasticsearch implements the snapshot inventory source against the
// Elasticsearch cat snapshots and cluster health APIs.
package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/battleroid/dwms/internal/domain"
)

// Factory builds one Client per configured cluster.
type Factory struct {
	// Transport overrides the HTTP transport of every client. Nil uses the
	// library default.
	Transport http.RoundTripper
}

// NewFactory creates a Factory using the default transport.
func NewFactory() *Factory { return &Factory{} }

// ForCluster implements domain.SourceFactory.
func (f *Factory) ForCluster(c domain.ClusterConfig) (domain.SnapshotSource, error) {
	client, err := es.NewClient(es.Config{
		Addresses: []string{c.Address()},
		Username:  c.Settings.Username,
		Password:  c.Settings.Password,
		Transport: f.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client for %s: %w", c.Address(), err)
	}
	return &Client{es: client, address: c.Address()}, nil
}

// Client implements domain.SnapshotSource for a single cluster.
type Client struct {
	es      *es.Client
	address string
}

// Health calls the cluster health API. Any successful answer counts as
// reachable, whatever the cluster colour.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return c.transportError(ctx, "cluster health", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return c.statusError("cluster health", res)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

type catSnapshot struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListSnapshots returns every snapshot held in repository.
func (c *Client) ListSnapshots(ctx context.Context, repository string) ([]domain.SnapshotRecord, error) {
	op := "cat snapshots " + repository
	res, err := c.es.Cat.Snapshots(
		c.es.Cat.Snapshots.WithContext(ctx),
		c.es.Cat.Snapshots.WithRepository(repository),
		c.es.Cat.Snapshots.WithFormat("json"),
		c.es.Cat.Snapshots.WithH("id", "status"),
	)
	if err != nil {
		return nil, c.transportError(ctx, op, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, c.statusError(op, res)
	}

	var rows []catSnapshot
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		if ctx.Err() != nil {
			return nil, c.transportError(ctx, op, err)
		}
		return nil, &UpstreamError{Op: op, Address: c.address, Kind: domain.ErrBadResponse, Err: err}
	}

	out := make([]domain.SnapshotRecord, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			return nil, &UpstreamError{Op: op, Address: c.address, Kind: domain.ErrBadResponse, Err: errors.New("snapshot without id")}
		}
		out = append(out, domain.SnapshotRecord{ID: r.ID, Status: r.Status})
	}
	return out, nil
}

func (c *Client) transportError(ctx context.Context, op string, err error) error {
	kind := domain.ErrTransport
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout()) {
		kind = domain.ErrTimeout
	}
	return &UpstreamError{Op: op, Address: c.address, Kind: kind, Err: err}
}

func (c *Client) statusError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return &UpstreamError{
		Op:      op,
		Address: c.address,
		Status:  res.StatusCode,
		Kind:    domain.ErrUpstreamStatus,
		Err:     fmt.Errorf("%s", body),
	}
}
