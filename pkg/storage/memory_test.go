package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateMetadata(ctx, &MetadataRecord{
		Name:          "telemetry.device",
		Type:          "record",
		Compatibility: "BACKWARD",
		Evolve:        true,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	byID, err := store.GetMetadataByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "telemetry.device", byID.Name)
	assert.False(t, byID.CreatedAt.IsZero())

	byName, err := store.GetMetadataByName(ctx, "telemetry.device")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	_, err = store.CreateMetadata(ctx, &MetadataRecord{Name: "telemetry.device"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = store.GetMetadataByID(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAppendVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateMetadata(ctx, &MetadataRecord{Name: "telemetry.device", Type: "record"})
	require.NoError(t, err)

	require.NoError(t, store.AppendVersion(ctx, &VersionRecord{
		SchemaMetadataID: id,
		Version:          1,
		SchemaText:       `{"name": "Device", "fields": []}`,
		Fingerprint:      "aa",
	}))

	// Same slot again must lose.
	err = store.AppendVersion(ctx, &VersionRecord{
		SchemaMetadataID: id,
		Version:          1,
		SchemaText:       `{"name": "Other", "fields": []}`,
		Fingerprint:      "bb",
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Unknown metadata id is NotFound, not a conflict.
	err = store.AppendVersion(ctx, &VersionRecord{SchemaMetadataID: id + 1, Version: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreVersionQueries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateMetadata(ctx, &MetadataRecord{Name: "telemetry.device", Type: "record"})
	require.NoError(t, err)

	// Ledger is empty: list yields an empty slice, latest is NotFound.
	versions, err := store.ListVersions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = store.GetLatestVersion(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	for v := 1; v <= 3; v++ {
		require.NoError(t, store.AppendVersion(ctx, &VersionRecord{
			SchemaMetadataID: id,
			Version:          v,
			SchemaText:       "schema",
			Fingerprint:      string(rune('a' + v)),
		}))
	}

	versions, err = store.ListVersions(ctx, id)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i, rec := range versions {
		assert.Equal(t, i+1, rec.Version)
	}

	latest, err := store.GetLatestVersion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)

	found, err := store.FindByFingerprint(ctx, id, string(rune('a'+2)))
	require.NoError(t, err)
	assert.Equal(t, 2, found.Version)

	_, err = store.FindByFingerprint(ctx, id, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetVersion(ctx, id, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSerDesMapping(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	metadataID, err := store.CreateMetadata(ctx, &MetadataRecord{Name: "telemetry.device", Type: "record"})
	require.NoError(t, err)

	serializerID, err := store.CreateSerDes(ctx, &SerDesRecord{
		Name:      "device serializer",
		ClassName: "com.arcstream.DeviceSerializer",
		FileID:    "abc",
		Role:      RoleSerializer,
	})
	require.NoError(t, err)

	deserializerID, err := store.CreateSerDes(ctx, &SerDesRecord{
		Name:      "device deserializer",
		ClassName: "com.arcstream.DeviceDeserializer",
		FileID:    "abc",
		Role:      RoleDeserializer,
	})
	require.NoError(t, err)

	require.NoError(t, store.MapSerDes(ctx, metadataID, serializerID))
	require.NoError(t, store.MapSerDes(ctx, metadataID, deserializerID))
	// Idempotent edge insert.
	require.NoError(t, store.MapSerDes(ctx, metadataID, serializerID))

	serializers, err := store.ListSerDes(ctx, metadataID, RoleSerializer)
	require.NoError(t, err)
	require.Len(t, serializers, 1)
	assert.Equal(t, serializerID, serializers[0].ID)

	deserializers, err := store.ListSerDes(ctx, metadataID, RoleDeserializer)
	require.NoError(t, err)
	require.Len(t, deserializers, 1)
	assert.Equal(t, deserializerID, deserializers[0].ID)

	assert.ErrorIs(t, store.MapSerDes(ctx, metadataID+1, serializerID), ErrNotFound)
	assert.ErrorIs(t, store.MapSerDes(ctx, metadataID, serializerID+100), ErrNotFound)
}
