package model

import "time"

// SessionScopeModel mirrors the 'session_scopes' table: one row per live scope.
type SessionScopeModel struct {
	Scope     string    `gorm:"type:varchar(64);primaryKey"`
	TouchedAt time.Time `gorm:"not null;index:idx_session_scopes_touched_at"`
}

// TableName explicitly sets the table name for GORM.
func (SessionScopeModel) TableName() string {
	return "session_scopes"
}

// SessionEntryModel mirrors the 'session_entries' table. Value holds the JSON
// document stored under EntryKey.
type SessionEntryModel struct {
	Scope    string `gorm:"type:varchar(64);primaryKey"`
	EntryKey string `gorm:"type:varchar(64);primaryKey"`
	Value    []byte `gorm:"type:bytea;not null"`
}

// TableName explicitly sets the table name for GORM.
func (SessionEntryModel) TableName() string {
	return "session_entries"
}

// All lists the models to migrate, in dependency order.
func All() []any {
	return []any{&SessionScopeModel{}, &SessionEntryModel{}}
}
