package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is the mutation audit trail. One row per committed gateway
// write, payload holds the entity state that was written.
type Event struct {
	ID      int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor   string         `gorm:"index" json:"actor"`
	Action  string         `json:"action"` // create, update, delete
	Entity  string         `gorm:"index" json:"entity"`
	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	At      time.Time      `gorm:"index" json:"at"`
}

func (Event) TableName() string {
	return "sys_events"
}

// Tables lists every model for schema migration, in dependency order.
var Tables = []interface{}{
	&User{},
	&UserBadge{},
	&Category{},
	&Product{},
	&Location{},
	&Purpose{},
	&Registration{},
	&Event{},
}
