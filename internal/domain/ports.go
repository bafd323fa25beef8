package domain

import "context"

// SnapshotSource is a connection to one cluster's snapshot API.
type SnapshotSource interface {
	// Health returns nil when the cluster is reachable and accepts our credentials.
	Health(ctx context.Context) error
	// ListSnapshots returns the raw inventory of a repository.
	ListSnapshots(ctx context.Context, repository string) ([]SnapshotRecord, error)
}

// SourceFactory builds a SnapshotSource for a configured cluster.
type SourceFactory interface {
	ForCluster(cluster ClusterConfig) (SnapshotSource, error)
}

// Sink is an alerting channel that receives the grouped run results.
type Sink interface {
	Name() string
	Dispatch(ctx context.Context, d Dispatch) error
}

// ConfigLoader reads and validates the run configuration.
type ConfigLoader interface {
	Load(path string) (Config, error)
}

// RevisionReader resolves the version-control revision of a config file.
type RevisionReader interface {
	Revision(path string) (string, error)
}
