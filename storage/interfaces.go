package storage

import "sneaker-arbitrage/models"

// JoinedWriter persists the merged market+retail table.
type JoinedWriter interface {
	WriteJoined(rows []models.JoinedRecord) error
	Close() error
}

// OpportunityWriter is the interface any scored-record sink must satisfy.
type OpportunityWriter interface {
	WriteScored(rows []models.ScoredRecord) error
	Close() error
}
