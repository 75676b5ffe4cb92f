package entities

import "time"

// StateEntry is one key of the durable key-value table.
type StateEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey;size:128" json:"key"`
	Payload   []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StateEntry) TableName() string { return "state_entries" }
