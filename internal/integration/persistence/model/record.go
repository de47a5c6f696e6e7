// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
)

// RecordModel is one mirrored accounting document. Every sync writes a full
// new generation of a resource under a bumped sync version; readers only see
// the version registered in sync_states.
type RecordModel struct {
	ID          uint            `gorm:"primaryKey"`
	Resource    string          `gorm:"type:varchar(40);not null;index:idx_records_resource_version"`
	ExternalID  string          `gorm:"type:varchar(40);not null"`
	Date        *time.Time      `gorm:"type:date;index"`
	SyncVersion int64           `gorm:"not null;index:idx_records_resource_version"`
	Payload     json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the RecordModel.
func (RecordModel) TableName() string {
	return "records"
}

// ToStoredDocument converts a RecordModel to an adapter.StoredDocument.
func (m *RecordModel) ToStoredDocument() adapter.StoredDocument {
	doc := adapter.StoredDocument{
		ExternalID: m.ExternalID,
		Payload:    m.Payload,
	}
	if m.Date != nil {
		doc.Date = *m.Date
	}
	return doc
}

// RecordFromStoredDocument creates a RecordModel for one document at a sync
// version.
func RecordFromStoredDocument(resource string, version int64, doc adapter.StoredDocument) *RecordModel {
	m := &RecordModel{
		Resource:    resource,
		ExternalID:  doc.ExternalID,
		SyncVersion: version,
		Payload:     doc.Payload,
	}
	if !doc.Date.IsZero() {
		date := doc.Date
		m.Date = &date
	}
	return m
}

// SyncStateModel tracks the current sync version per resource. The report
// cache key is derived from these versions.
type SyncStateModel struct {
	Resource  string    `gorm:"primaryKey;type:varchar(40)"`
	Version   int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the SyncStateModel.
func (SyncStateModel) TableName() string {
	return "sync_states"
}
