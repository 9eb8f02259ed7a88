package storage

import "time"

// GORM models for the registry tables. The composite unique index on
// (schema_metadata_id, version) is what realizes the atomic
// append-if-version-absent primitive: a losing concurrent writer gets a
// duplicate-key error, surfaced as ErrVersionConflict.

type schemaMetadataModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"uniqueIndex;size:255;not null"`
	Type          string `gorm:"size:64;not null"`
	Description   string `gorm:"type:text"`
	Compatibility string `gorm:"size:16;not null"`
	Evolve        bool
	CreatedAt     time.Time
}

func (schemaMetadataModel) TableName() string { return "schema_metadata" }

type schemaVersionModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	SchemaMetadataID int64  `gorm:"uniqueIndex:idx_metadata_version;index:idx_metadata_fingerprint;not null"`
	Version          int    `gorm:"uniqueIndex:idx_metadata_version;not null"`
	SchemaText       string `gorm:"type:text;not null"`
	Fingerprint      string `gorm:"index:idx_metadata_fingerprint;size:64;not null"`
	Description      string `gorm:"type:text"`
	CreatedAt        time.Time
}

func (schemaVersionModel) TableName() string { return "schema_versions" }

type serDesModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	ClassName   string `gorm:"size:255;not null"`
	FileID      string `gorm:"size:64;not null"`
	Role        string `gorm:"size:16;not null"`
	CreatedAt   time.Time
}

func (serDesModel) TableName() string { return "serdes_info" }

type schemaSerDesMappingModel struct {
	SchemaMetadataID int64 `gorm:"primaryKey;autoIncrement:false"`
	SerDesID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt        time.Time
}

func (schemaSerDesMappingModel) TableName() string { return "schema_serdes_mapping" }

func (m *schemaMetadataModel) toRecord() *MetadataRecord {
	return &MetadataRecord{
		ID:            m.ID,
		Name:          m.Name,
		Type:          m.Type,
		Description:   m.Description,
		Compatibility: m.Compatibility,
		Evolve:        m.Evolve,
		CreatedAt:     m.CreatedAt,
	}
}

func (m *schemaVersionModel) toRecord() *VersionRecord {
	return &VersionRecord{
		SchemaMetadataID: m.SchemaMetadataID,
		Version:          m.Version,
		SchemaText:       m.SchemaText,
		Fingerprint:      m.Fingerprint,
		Description:      m.Description,
		CreatedAt:        m.CreatedAt,
	}
}

func (m *serDesModel) toRecord() *SerDesRecord {
	return &SerDesRecord{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ClassName:   m.ClassName,
		FileID:      m.FileID,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
}
