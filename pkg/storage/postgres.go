package storage

import (
	"context"
	"errors"
	"fmt"
)

// CreateMetadata persists rec and returns the database-assigned id.
func (s *PostgresStore) CreateMetadata(ctx context.Context, rec *MetadataRecord) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model := schemaMetadataModel{
		Name:          rec.Name,
		Type:          rec.Type,
		Description:   rec.Description,
		Compatibility: rec.Compatibility,
		Evolve:        rec.Evolve,
		CreatedAt:     rec.CreatedAt,
	}

	if err := s.client.WithContext(ctx).Create(&model).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, ErrAlreadyExists) {
			return 0, fmt.Errorf("%w: metadata %q", ErrAlreadyExists, rec.Name)
		}
		return 0, err
	}

	return model.ID, nil
}

func (s *PostgresStore) GetMetadataByID(ctx context.Context, id int64) (*MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model schemaMetadataModel
	err := s.client.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: metadata id %d", ErrNotFound, id)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

func (s *PostgresStore) GetMetadataByName(ctx context.Context, name string) (*MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model schemaMetadataModel
	err := s.client.WithContext(ctx).First(&model, "name = ?", name).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: metadata %q", ErrNotFound, name)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

// AppendVersion inserts the ledger entry. The unique index on
// (schema_metadata_id, version) turns a lost race into ErrVersionConflict.
func (s *PostgresStore) AppendVersion(ctx context.Context, rec *VersionRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model := schemaVersionModel{
		SchemaMetadataID: rec.SchemaMetadataID,
		Version:          rec.Version,
		SchemaText:       rec.SchemaText,
		Fingerprint:      rec.Fingerprint,
		Description:      rec.Description,
		CreatedAt:        rec.CreatedAt,
	}

	if err := s.client.WithContext(ctx).Create(&model).Error; err != nil {
		if err = translateError(err); errors.Is(err, ErrAlreadyExists) {
			return fmt.Errorf("%w: metadata id %d version %d",
				ErrVersionConflict, rec.SchemaMetadataID, rec.Version)
		}
		return err
	}

	return nil
}

func (s *PostgresStore) GetVersion(ctx context.Context, metadataID int64, version int) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model schemaVersionModel
	err := s.client.WithContext(ctx).
		First(&model, "schema_metadata_id = ? AND version = ?", metadataID, version).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: metadata id %d version %d", ErrNotFound, metadataID, version)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

func (s *PostgresStore) GetLatestVersion(ctx context.Context, metadataID int64) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model schemaVersionModel
	err := s.client.WithContext(ctx).
		Where("schema_metadata_id = ?", metadataID).
		Order("version DESC").
		First(&model).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: metadata id %d has no versions", ErrNotFound, metadataID)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

func (s *PostgresStore) ListVersions(ctx context.Context, metadataID int64) ([]VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var models []schemaVersionModel
	err := s.client.WithContext(ctx).
		Where("schema_metadata_id = ?", metadataID).
		Order("version ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]VersionRecord, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toRecord())
	}
	return out, nil
}

func (s *PostgresStore) FindByFingerprint(ctx context.Context, metadataID int64, fingerprint string) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model schemaVersionModel
	err := s.client.WithContext(ctx).
		First(&model, "schema_metadata_id = ? AND fingerprint = ?", metadataID, fingerprint).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no version with fingerprint %s", ErrNotFound, fingerprint)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

func (s *PostgresStore) ListAllVersions(ctx context.Context) ([]VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var models []schemaVersionModel
	err := s.client.WithContext(ctx).
		Order("schema_metadata_id ASC, version ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]VersionRecord, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toRecord())
	}
	return out, nil
}

func (s *PostgresStore) CreateSerDes(ctx context.Context, rec *SerDesRecord) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model := serDesModel{
		Name:        rec.Name,
		Description: rec.Description,
		ClassName:   rec.ClassName,
		FileID:      rec.FileID,
		Role:        rec.Role,
		CreatedAt:   rec.CreatedAt,
	}

	if err := s.client.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, translateError(err)
	}

	return model.ID, nil
}

func (s *PostgresStore) GetSerDes(ctx context.Context, id int64) (*SerDesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var model serDesModel
	err := s.client.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: serdes id %d", ErrNotFound, id)
		}
		return nil, err
	}

	return model.toRecord(), nil
}

// MapSerDes inserts the association edge; re-mapping an existing pair is a
// no-op thanks to the composite primary key.
func (s *PostgresStore) MapSerDes(ctx context.Context, metadataID, serDesID int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model := schemaSerDesMappingModel{
		SchemaMetadataID: metadataID,
		SerDesID:         serDesID,
	}

	if err := s.client.WithContext(ctx).Create(&model).Error; err != nil {
		if err = translateError(err); errors.Is(err, ErrAlreadyExists) {
			return nil
		}
		return err
	}

	return nil
}

func (s *PostgresStore) ListSerDes(ctx context.Context, metadataID int64, role string) ([]SerDesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var models []serDesModel
	err := s.client.WithContext(ctx).
		Joins("JOIN schema_serdes_mapping ON schema_serdes_mapping.ser_des_id = serdes_info.id").
		Where("schema_serdes_mapping.schema_metadata_id = ? AND serdes_info.role = ?", metadataID, role).
		Order("serdes_info.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]SerDesRecord, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toRecord())
	}
	return out, nil
}
