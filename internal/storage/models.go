package storage

import "time"

// Entry is one key-value row. The game gallery lives in a single entry.
type Entry struct {
	Name      string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (Entry) TableName() string { return "kv_entries" }

// Stats represents aggregate counts for the health endpoint.
type Stats struct {
	Entries int64 `json:"entries"`
	Bytes   int64 `json:"bytes"`
}
