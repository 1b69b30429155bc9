package model

import "time"

// Run records one completed pipeline invocation in the run history store.
// Envelope carries the full JSON result emitted by the pipeline.
type Run struct {
	CreatedAt      time.Time
	ID             string
	Source         string
	Status         string
	Envelope       []byte
	TotalRecords   int
	TotalCustomers int
	DroppedRecords int
	ProcessingTime time.Duration
}
