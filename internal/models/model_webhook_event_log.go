package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
	WebhookEventLogStatusIgnored      WebhookEventLogStatus = "ignored"
)

// WebhookEventLog records every inbound provider delivery with its raw
// payload. There is no deduplication at this layer; redelivered events show
// up as repeated provider_event_id rows, which is how redeliveries stay
// observable.
type WebhookEventLog struct {
	ID              string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider        string                `gorm:"column:provider;type:varchar(32);not null;index:idx_provider_event,priority:1" json:"provider"`
	ProviderEventID string                `gorm:"column:provider_event_id;type:varchar(128);index:idx_provider_event,priority:2" json:"provider_event_id"`
	EventType       string                `gorm:"column:event_type;type:varchar(128)" json:"event_type"`
	UserID          *string               `gorm:"column:user_id;type:varchar(64)" json:"user_id"`
	TraceID         string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Payload         datatypes.JSON        `gorm:"column:payload;type:jsonb" json:"payload"`
	Result          *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status          WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string { return "webhook_event_log" }
