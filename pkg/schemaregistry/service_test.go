package schemaregistry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcstream/schema-registry/pkg/blobstore"
	"github.com/arcstream/schema-registry/pkg/compat"
	"github.com/arcstream/schema-registry/pkg/logger"
	"github.com/arcstream/schema-registry/pkg/serdes"
	"github.com/arcstream/schema-registry/pkg/storage"
)

const (
	orderV1 = `{"name":"Order","fields":[{"name":"id","type":"long"},{"name":"amount","type":"double"}]}`

	// Adds an optional field; compatible with orderV1 in both directions.
	orderV2 = `{"name":"Order","fields":[{"name":"id","type":"long"},{"name":"amount","type":"double"},{"name":"note","type":"string","optional":true}]}`

	// Adds a mandatory field; a reader on this schema cannot read orderV1 data.
	orderMandatory = `{"name":"Order","fields":[{"name":"id","type":"long"},{"name":"amount","type":"double"},{"name":"customer","type":"string"}]}`
)

type testSerializer struct{ initialized bool }

func (s *testSerializer) Init(map[string]interface{}) error { s.initialized = true; return nil }
func (s *testSerializer) Serialize(input interface{}) ([]byte, error) {
	return []byte("payload"), nil
}
func (s *testSerializer) Close() error { return nil }

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()

	blobs := blobstore.NewMemoryStore()
	loader := serdes.NewFactoryLoader()
	loader.Register("com.example.TestSerializer", func() interface{} { return &testSerializer{} })
	log := logger.NewNop()

	return NewService(
		storage.NewMemoryStore(),
		compat.NewProviders(compat.NewRecordProvider()),
		blobs,
		serdes.NewInstantiator(blobs, loader, log),
		log,
		opts...,
	)
}

func registerMetadata(t *testing.T, svc *Service, name string, policy Compatibility) SchemaMetadata {
	t.Helper()

	md, err := svc.RegisterSchemaMetadata(context.Background(), SchemaMetadata{
		Name:          name,
		Type:          TypeRecord,
		Compatibility: policy,
		Evolve:        true,
	})
	require.NoError(t, err)
	return md
}

func TestRegisterSchemaMetadata(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	md, err := svc.RegisterSchemaMetadata(ctx, SchemaMetadata{
		Name: "orders-value",
		Type: TypeRecord,
	})
	require.NoError(t, err)
	assert.NotZero(t, md.ID)
	assert.Equal(t, DefaultCompatibility, md.Compatibility, "empty policy defaults to BACKWARD")

	again, err := svc.RegisterSchemaMetadata(ctx, SchemaMetadata{
		Name:          "orders-value",
		Type:          TypeRecord,
		Compatibility: CompatibilityBackward,
	})
	require.NoError(t, err)
	assert.Equal(t, md.ID, again.ID, "identical re-registration returns the stored record")

	_, err = svc.RegisterSchemaMetadata(ctx, SchemaMetadata{
		Name:          "orders-value",
		Type:          TypeRecord,
		Compatibility: CompatibilityForward,
	})
	require.ErrorIs(t, err, ErrMetadataConflict)

	byName, err := svc.GetSchemaMetadataByName(ctx, "orders-value")
	require.NoError(t, err)
	assert.Equal(t, md.ID, byName.ID)

	_, err = svc.GetSchemaMetadataByName(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistrationIdempotentOnContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	first, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "initial")
	require.NoError(t, err)
	assert.Equal(t, SchemaKey{SchemaMetadataID: md.ID, Version: 1}, first)

	second, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "retry")
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical text reuses the existing key")

	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1, "no duplicate ledger entry for identical text")
}

func TestMonotonicVersions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	texts := []string{orderV1, orderV2,
		`{"name":"Order","fields":[{"name":"id","type":"long"},{"name":"amount","type":"double"},{"name":"note","type":"string","optional":true},{"name":"region","type":"string","default":"eu"}]}`,
	}
	for i, text := range texts {
		key, err := svc.AddVersionedSchema(ctx, md.ID, text, "")
		require.NoError(t, err)
		assert.Equal(t, i+1, key.Version)
	}

	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	require.Len(t, versions, len(texts))
	for i, version := range versions {
		assert.Equal(t, i+1, version.Key.Version, "versions are gap-free and ascending")
		assert.Equal(t, Fingerprint(texts[i]), version.Fingerprint)
	}

	latest, err := svc.GetLatestSchema(ctx, md.ID)
	require.NoError(t, err)
	assert.Equal(t, len(texts), latest.Key.Version)
}

func TestBackwardCompatibilityGate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	_, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "")
	require.NoError(t, err)

	_, err = svc.AddVersionedSchema(ctx, md.ID, orderMandatory, "")
	require.ErrorIs(t, err, ErrIncompatibleSchema)

	var incompatible *IncompatibleSchemaError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, md.ID, incompatible.SchemaMetadataID)
	assert.Equal(t, 1, incompatible.Version)
	assert.Equal(t, compat.DirectionBackward, incompatible.Direction)

	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1, "rejected registration leaves the ledger untouched")
}

func TestForwardCompatibilityGate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityForward)

	_, err := svc.AddVersionedSchema(ctx, md.ID, orderMandatory, "")
	require.NoError(t, err, "first version is accepted unconditionally")

	// Dropping the mandatory field: old readers still require it.
	_, err = svc.AddVersionedSchema(ctx, md.ID, orderV1, "")
	require.ErrorIs(t, err, ErrIncompatibleSchema)

	var incompatible *IncompatibleSchemaError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, compat.DirectionForward, incompatible.Direction)
}

func TestFullPolicyChecksEveryVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "devices-value", CompatibilityFull)

	v1 := `{"name":"Device","fields":[{"name":"id","type":"long"}]}`
	v2 := `{"name":"Device","fields":[{"name":"id","type":"long"},{"name":"region","type":"string","default":"eu"}]}`
	// Compatible with v2 in both directions but unable to read v1 data.
	candidate := `{"name":"Device","fields":[{"name":"id","type":"long"},{"name":"region","type":"string"}]}`

	_, err := svc.AddVersionedSchema(ctx, md.ID, v1, "")
	require.NoError(t, err)
	_, err = svc.AddVersionedSchema(ctx, md.ID, v2, "")
	require.NoError(t, err)

	_, err = svc.AddVersionedSchema(ctx, md.ID, candidate, "")
	require.ErrorIs(t, err, ErrIncompatibleSchema)

	var incompatible *IncompatibleSchemaError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, 1, incompatible.Version, "FULL evaluates against every version, not just the previous")
}

func TestNonePolicyAcceptsAnything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "free-form", CompatibilityNone)

	_, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "")
	require.NoError(t, err)
	key, err := svc.AddVersionedSchema(ctx, md.ID, `{"name":"Unrelated","fields":[{"name":"x","type":"boolean"}]}`, "")
	require.NoError(t, err)
	assert.Equal(t, 2, key.Version)
}

func TestEvolveDisabled(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	md, err := svc.RegisterSchemaMetadata(ctx, SchemaMetadata{
		Name:          "frozen",
		Type:          TypeRecord,
		Compatibility: CompatibilityNone,
		Evolve:        false,
	})
	require.NoError(t, err)

	key, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, key.Version)

	// Identical text still resolves to the existing version.
	again, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "")
	require.NoError(t, err)
	assert.Equal(t, key, again)

	_, err = svc.AddVersionedSchema(ctx, md.ID, orderV2, "")
	require.ErrorIs(t, err, ErrIncompatibleSchema)
}

func TestInvalidSchemaRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityNone)

	_, err := svc.AddVersionedSchema(ctx, md.ID, `{"fields": []}`, "")
	require.ErrorIs(t, err, ErrInvalidSchema)

	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRegisterSchemaGetOrCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	metadata := SchemaMetadata{
		Name:          "clicks-value",
		Type:          TypeRecord,
		Compatibility: CompatibilityBackward,
		Evolve:        true,
	}

	key, err := svc.RegisterSchema(ctx, metadata, orderV1, "initial")
	require.NoError(t, err)
	assert.Equal(t, 1, key.Version)

	// Same call again: metadata is reused, version is reused.
	again, err := svc.RegisterSchema(ctx, metadata, orderV1, "retry")
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestVersionLookups(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	key, err := svc.AddVersionedSchema(ctx, md.ID, orderV1, "initial")
	require.NoError(t, err)

	version, err := svc.GetSchema(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, orderV1, version.SchemaText)
	assert.Equal(t, "initial", version.Description)

	_, err = svc.GetSchema(ctx, SchemaKey{SchemaMetadataID: md.ID, Version: 99})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetLatestSchema(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)

	latest, err := svc.GetLatestSchemaByName(ctx, "orders-value")
	require.NoError(t, err)
	assert.Equal(t, key, latest.Key)
}

func TestGetAllVersionsEmptyLedger(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	// Existing metadata with zero versions: empty slice, not an error.
	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	// Unknown metadata id: NotFound.
	_, err = svc.GetAllVersions(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetLatestSchema(ctx, md.ID)
	require.ErrorIs(t, err, ErrNotFound, "latest on an empty ledger is NotFound")
}

func TestNameKeyedDelegation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	key, err := svc.AddVersionedSchemaByName(ctx, "orders-value", orderV1, "")
	require.NoError(t, err)
	assert.Equal(t, md.ID, key.SchemaMetadataID)

	versions, err := svc.GetAllVersionsByName(ctx, "orders-value")
	require.NoError(t, err)
	require.Len(t, versions, 1)

	_, err = svc.AddVersionedSchemaByName(ctx, "missing", orderV1, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAllSchemas(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	orders := registerMetadata(t, svc, "orders-value", CompatibilityBackward)
	clicks := registerMetadata(t, svc, "clicks-value", CompatibilityNone)

	_, err := svc.AddVersionedSchema(ctx, orders.ID, orderV1, "")
	require.NoError(t, err)
	_, err = svc.AddVersionedSchema(ctx, orders.ID, orderV2, "")
	require.NoError(t, err)
	_, err = svc.AddVersionedSchema(ctx, clicks.ID, `{"name":"Click","fields":[{"name":"url","type":"string"}]}`, "")
	require.NoError(t, err)

	all, err := svc.ListAllSchemas(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1].Key, all[i].Key
		ordered := prev.SchemaMetadataID < cur.SchemaMetadataID ||
			(prev.SchemaMetadataID == cur.SchemaMetadataID && prev.Version < cur.Version)
		assert.True(t, ordered, "entries ordered by metadata id then version")
	}
}

func TestIsCompatibleWithAllVersions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "devices-value", CompatibilityNone)

	// Empty ledger: everything is compatible.
	ok, err := svc.IsCompatibleWithAllVersions(ctx, md.ID, orderV1)
	require.NoError(t, err)
	assert.True(t, ok)

	v1 := `{"name":"Device","fields":[{"name":"id","type":"long"}]}`
	v2 := `{"name":"Device","fields":[{"name":"id","type":"long"},{"name":"region","type":"string","default":"eu"}]}`
	_, err = svc.AddVersionedSchema(ctx, md.ID, v1, "")
	require.NoError(t, err)
	_, err = svc.AddVersionedSchema(ctx, md.ID, v2, "")
	require.NoError(t, err)

	ok, err = svc.IsCompatibleWithAllVersions(ctx, md.ID,
		`{"name":"Device","fields":[{"name":"id","type":"long"},{"name":"vendor","type":"string","optional":true}]}`)
	require.NoError(t, err)
	assert.True(t, ok)

	// Readable against v2 but not v1: probe fails regardless of the NONE policy.
	ok, err = svc.IsCompatibleWithAllVersions(ctx, md.ID,
		`{"name":"Device","fields":[{"name":"id","type":"long"},{"name":"region","type":"string"}]}`)
	require.NoError(t, err)
	assert.False(t, ok)

	// The probe never mutates the ledger.
	versions, err := svc.GetAllVersions(ctx, md.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	_, err = svc.IsCompatibleWithAllVersions(ctx, 9999, orderV1)
	require.ErrorIs(t, err, ErrNotFound)

	ok, err = svc.IsCompatibleWithAllVersionsByName(ctx, "devices-value", v2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlobRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	content := []byte("serializer-archive")
	fileID, err := svc.UploadFile(ctx, bytes.NewReader(content))
	require.NoError(t, err)

	reader, err := svc.DownloadFile(ctx, fileID)
	require.NoError(t, err)
	defer reader.Close()

	downloaded, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)

	_, err = svc.DownloadFile(ctx, "missing-file")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSerDesRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	fileID, err := svc.UploadFile(ctx, bytes.NewReader([]byte("archive")))
	require.NoError(t, err)

	serDesID, err := svc.AddSerializer(ctx, serdes.SerDesInfo{
		Name:      "test-serializer",
		ClassName: "com.example.TestSerializer",
		FileID:    fileID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MapSchemaWithSerDes(ctx, md.ID, serDesID))
	// Re-mapping the same pair is a no-op.
	require.NoError(t, svc.MapSchemaWithSerDes(ctx, md.ID, serDesID))

	serializers, err := svc.GetSerializers(ctx, md.ID)
	require.NoError(t, err)
	require.Len(t, serializers, 1)
	assert.Equal(t, "test-serializer", serializers[0].Name)
	assert.Equal(t, serdes.RoleSerializer, serializers[0].Role)

	deserializers, err := svc.GetDeserializers(ctx, md.ID)
	require.NoError(t, err)
	assert.Empty(t, deserializers)

	instance, err := svc.CreateSerializerInstance(ctx, serDesID)
	require.NoError(t, err)
	require.NoError(t, instance.Init(nil))
	payload, err := instance.Serialize(map[string]interface{}{"id": 1})
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	require.NoError(t, instance.Close())
}

func TestSerDesNotFoundPaths(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	md := registerMetadata(t, svc, "orders-value", CompatibilityBackward)

	err := svc.MapSchemaWithSerDes(ctx, md.ID, 9999)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.MapSchemaWithSerDes(ctx, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.MapSchemaWithSerDesByName(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetSerializers(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSerDesMissingArchive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Descriptor points at a file id that was never uploaded.
	serDesID, err := svc.AddSerializer(ctx, serdes.SerDesInfo{
		Name:      "broken",
		ClassName: "com.example.TestSerializer",
		FileID:    "0000000000000000000000000000000000000000000000000000000000000000",
	})
	require.NoError(t, err)

	_, err = svc.CreateSerializerInstance(ctx, serDesID)
	require.ErrorIs(t, err, ErrNotFound)
	require.False(t, errors.Is(err, ErrInstantiation))

	_, err = svc.CreateSerializerInstance(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWrongRoleInstance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fileID, err := svc.UploadFile(ctx, bytes.NewReader([]byte("archive")))
	require.NoError(t, err)

	serDesID, err := svc.AddSerializer(ctx, serdes.SerDesInfo{
		Name:      "ser-only",
		ClassName: "com.example.TestSerializer",
		FileID:    fileID,
	})
	require.NoError(t, err)

	_, err = svc.CreateDeserializerInstance(ctx, serDesID)
	require.ErrorIs(t, err, serdes.ErrWrongRole)
}
