package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// DeadLetterEvent holds a normalized event whose forward to the backend
// user-service failed. The provider already got its 200 by then, so this
// table is the only durable trace; the retry worker drains it.
type DeadLetterEvent struct {
	ID            string                                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider      string                                       `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	Event         datatypes.JSONType[*types.SubscriptionEvent] `gorm:"column:event;type:jsonb;not null" json:"event"`
	LastError     string                                       `gorm:"column:last_error;type:text" json:"last_error"`
	Attempts      int                                          `gorm:"column:attempts;not null;default:0" json:"attempts"`
	NextAttemptAt time.Time                                    `gorm:"column:next_attempt_at;index" json:"next_attempt_at"`
	DeliveredAt   *time.Time                                   `gorm:"column:delivered_at;default:null" json:"delivered_at"`
	CreatedAt     time.Time                                    `json:"created_at"`
	UpdatedAt     time.Time                                    `json:"updated_at"`
}

func (DeadLetterEvent) TableName() string { return "dead_letter_event" }

// Exhausted reports whether the event has used up its retry budget.
func (e *DeadLetterEvent) Exhausted(maxAttempts int) bool {
	return maxAttempts > 0 && e.Attempts >= maxAttempts
}
