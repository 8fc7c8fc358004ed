package worker

import "context"

// Ingester reloads the dataset. Declared here so jobs do not import the
// services package.
type Ingester interface {
	Ingest(ctx context.Context, sampleSize int, seed int64) error
}

// IngestJob replaces the stored dataset with a fresh sample of the CSV.
type IngestJob struct {
	Ingester   Ingester
	SampleSize int
	Seed       int64
}

func (j *IngestJob) Name() string { return "ingest_dataset" }

func (j *IngestJob) Run(ctx context.Context) error {
	return j.Ingester.Ingest(ctx, j.SampleSize, j.Seed)
}
