package health

import (
	"context"
	"time"
)

type EntityType string

const (
	EntityConfigDocument EntityType = "config_document"
	EntityPendingQueue   EntityType = "pending_queue"
	EntityValkey         EntityType = "valkey"
)

type Status string

const (
	StatusOk      Status = "OK"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN"
)

type HealthRecord struct {
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Status      Status     `json:"status"`
	LastMessage string     `json:"last_message"`
	LastChecked time.Time  `json:"last_checked"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// Pinger is satisfied by the valkey client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IHealthUsecase interface {
	CheckAll(ctx context.Context) ([]HealthRecord, error)
	GetStatus(ctx context.Context) ([]HealthRecord, error)
}
