package schemaregistry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/arcstream/schema-registry/pkg/blobstore"
	"github.com/arcstream/schema-registry/pkg/compat"
	"github.com/arcstream/schema-registry/pkg/serdes"
	"github.com/arcstream/schema-registry/pkg/storage"
)

// maxAppendAttempts bounds the optimistic retry loop when a concurrent writer
// from another process takes the version slot first. The in-process keyed
// mutex makes retries rare; they only happen across processes sharing one
// database.
const maxAppendAttempts = 5

// Registration outcomes reported to metrics.
const (
	outcomeCreated      = "created"
	outcomeReused       = "reused"
	outcomeInvalid      = "invalid"
	outcomeIncompatible = "incompatible"
	outcomeError        = "error"
)

// Service implements Registry on top of a storage backend, a blob store, a
// compatibility provider registry and a serde instantiator. Notifier, Metrics
// and Tracer are optional collaborators; a nil value disables the concern.
type Service struct {
	store        storage.Store
	providers    *compat.Providers
	blobs        blobstore.Store
	instantiator *serdes.Instantiator
	logger       Logger
	notifier     Notifier
	metrics      Metrics
	tracer       Tracer
	locks        *keyedMutex
}

// Option configures optional collaborators on the service.
type Option func(*Service)

// WithNotifier attaches a lifecycle event notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics attaches domain metrics.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer attaches a span source.
func WithTracer(t Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService wires a registry service from its collaborators.
func NewService(
	store storage.Store,
	providers *compat.Providers,
	blobs blobstore.Store,
	instantiator *serdes.Instantiator,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:        store,
		providers:    providers,
		blobs:        blobs,
		instantiator: instantiator,
		logger:       logger,
		locks:        newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Registry = (*Service)(nil)

// RegisterSchemaMetadata creates or returns the metadata record for
// metadata.Name. An empty compatibility policy defaults to BACKWARD.
func (s *Service) RegisterSchemaMetadata(ctx context.Context, metadata SchemaMetadata) (SchemaMetadata, error) {
	ctx, span := s.startSpan(ctx, "registry.RegisterSchemaMetadata")
	var err error
	defer func() { endSpan(span, err) }()

	if metadata.Name == "" {
		err = errors.New("schema metadata name must not be empty")
		return SchemaMetadata{}, err
	}
	if metadata.Type == "" {
		err = errors.New("schema metadata type must not be empty")
		return SchemaMetadata{}, err
	}
	if metadata.Compatibility == "" {
		metadata.Compatibility = DefaultCompatibility
	}
	if !metadata.Compatibility.valid() {
		err = fmt.Errorf("unknown compatibility policy %q", metadata.Compatibility)
		return SchemaMetadata{}, err
	}

	existing, getErr := s.store.GetMetadataByName(ctx, metadata.Name)
	if getErr == nil {
		if err = matchMetadata(metadataFromRecord(existing), metadata); err != nil {
			return SchemaMetadata{}, err
		}
		return metadataFromRecord(existing), nil
	}
	if !errors.Is(getErr, storage.ErrNotFound) {
		err = fmt.Errorf("resolving metadata %q: %w", metadata.Name, getErr)
		return SchemaMetadata{}, err
	}

	rec := &storage.MetadataRecord{
		Name:          metadata.Name,
		Type:          metadata.Type,
		Description:   metadata.Description,
		Compatibility: string(metadata.Compatibility),
		Evolve:        metadata.Evolve,
		CreatedAt:     time.Now().UTC(),
	}

	id, createErr := s.store.CreateMetadata(ctx, rec)
	if createErr != nil {
		// Lost a create race: re-read the winner and compare content.
		if errors.Is(createErr, storage.ErrAlreadyExists) {
			existing, getErr = s.store.GetMetadataByName(ctx, metadata.Name)
			if getErr != nil {
				err = fmt.Errorf("resolving metadata %q after create conflict: %w", metadata.Name, getErr)
				return SchemaMetadata{}, err
			}
			if err = matchMetadata(metadataFromRecord(existing), metadata); err != nil {
				return SchemaMetadata{}, err
			}
			return metadataFromRecord(existing), nil
		}
		err = fmt.Errorf("creating metadata %q: %w", metadata.Name, createErr)
		return SchemaMetadata{}, err
	}
	rec.ID = id

	created := metadataFromRecord(rec)
	s.logger.Info("registered schema metadata", nil, map[string]interface{}{
		"metadata_id": created.ID,
		"name":        created.Name,
		"type":        created.Type,
	})
	s.notifyMetadataCreated(ctx, created)

	return created, nil
}

// GetSchemaMetadata resolves metadata by id.
func (s *Service) GetSchemaMetadata(ctx context.Context, metadataID int64) (SchemaMetadata, error) {
	rec, err := s.store.GetMetadataByID(ctx, metadataID)
	if err != nil {
		return SchemaMetadata{}, s.translateStorage(err, fmt.Sprintf("metadata %d", metadataID))
	}
	return metadataFromRecord(rec), nil
}

// GetSchemaMetadataByName resolves metadata by name.
func (s *Service) GetSchemaMetadataByName(ctx context.Context, name string) (SchemaMetadata, error) {
	rec, err := s.store.GetMetadataByName(ctx, name)
	if err != nil {
		return SchemaMetadata{}, s.translateStorage(err, fmt.Sprintf("metadata %q", name))
	}
	return metadataFromRecord(rec), nil
}

// RegisterSchema is the get-or-create registration path.
func (s *Service) RegisterSchema(ctx context.Context, metadata SchemaMetadata, schemaText, description string) (SchemaKey, error) {
	md, err := s.RegisterSchemaMetadata(ctx, metadata)
	if err != nil {
		return SchemaKey{}, err
	}
	return s.registerOrReuse(ctx, md, schemaText, description)
}

// AddVersionedSchema registers schemaText against existing metadata.
func (s *Service) AddVersionedSchema(ctx context.Context, metadataID int64, schemaText, description string) (SchemaKey, error) {
	md, err := s.GetSchemaMetadata(ctx, metadataID)
	if err != nil {
		return SchemaKey{}, err
	}
	return s.registerOrReuse(ctx, md, schemaText, description)
}

// AddVersionedSchemaByName resolves the name and delegates to the id form.
func (s *Service) AddVersionedSchemaByName(ctx context.Context, name, schemaText, description string) (SchemaKey, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return SchemaKey{}, err
	}
	return s.registerOrReuse(ctx, md, schemaText, description)
}

// registerOrReuse implements the registration protocol: validate, fingerprint,
// reuse on identical content, evaluate the compatibility policy, then append
// the next version. Steps after validation run under the per-metadata-id lock;
// storage's conditional append covers concurrent writers in other processes.
func (s *Service) registerOrReuse(ctx context.Context, md SchemaMetadata, schemaText, description string) (SchemaKey, error) {
	ctx, span := s.startSpan(ctx, "registry.registerOrReuse")
	var err error
	defer func() { endSpan(span, err) }()

	start := time.Now()

	provider, err := s.providers.Resolve(md.Type)
	if err != nil {
		s.observeRegistration(md.Type, outcomeError, start)
		return SchemaKey{}, err
	}
	if validateErr := provider.Validate(schemaText); validateErr != nil {
		s.observeRegistration(md.Type, outcomeInvalid, start)
		err = fmt.Errorf("%w: %v", ErrInvalidSchema, validateErr)
		return SchemaKey{}, err
	}

	fingerprint := Fingerprint(schemaText)

	unlock := s.locks.lock(md.ID)
	defer unlock()

	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		existing, findErr := s.store.FindByFingerprint(ctx, md.ID, fingerprint)
		if findErr == nil {
			s.observeRegistration(md.Type, outcomeReused, start)
			return SchemaKey{SchemaMetadataID: md.ID, Version: existing.Version}, nil
		}
		if !errors.Is(findErr, storage.ErrNotFound) {
			err = fmt.Errorf("scanning fingerprints for metadata %d: %w", md.ID, findErr)
			s.observeRegistration(md.Type, outcomeError, start)
			return SchemaKey{}, err
		}

		versions, listErr := s.store.ListVersions(ctx, md.ID)
		if listErr != nil {
			err = fmt.Errorf("listing versions for metadata %d: %w", md.ID, listErr)
			s.observeRegistration(md.Type, outcomeError, start)
			return SchemaKey{}, err
		}

		next := 1
		if len(versions) > 0 {
			if !md.Evolve {
				err = fmt.Errorf("%w: metadata %d is registered with evolve=false", ErrIncompatibleSchema, md.ID)
				s.observeRegistration(md.Type, outcomeIncompatible, start)
				return SchemaKey{}, err
			}
			if err = s.evaluatePolicy(provider, md, versions, schemaText); err != nil {
				s.observeRegistration(md.Type, outcomeIncompatible, start)
				return SchemaKey{}, err
			}
			next = versions[len(versions)-1].Version + 1
		}

		rec := &storage.VersionRecord{
			SchemaMetadataID: md.ID,
			Version:          next,
			SchemaText:       schemaText,
			Fingerprint:      fingerprint,
			Description:      description,
			CreatedAt:        time.Now().UTC(),
		}

		appendErr := s.store.AppendVersion(ctx, rec)
		if errors.Is(appendErr, storage.ErrVersionConflict) {
			s.logger.Debug("version slot taken, retrying registration", nil, map[string]interface{}{
				"metadata_id": md.ID,
				"version":     next,
				"attempt":     attempt,
			})
			continue
		}
		if appendErr != nil {
			err = fmt.Errorf("appending version %d for metadata %d: %w", next, md.ID, appendErr)
			s.observeRegistration(md.Type, outcomeError, start)
			return SchemaKey{}, err
		}

		key := SchemaKey{SchemaMetadataID: md.ID, Version: next}
		s.logger.Info("registered schema version", nil, map[string]interface{}{
			"metadata_id": md.ID,
			"version":     next,
		})
		s.observeRegistration(md.Type, outcomeCreated, start)
		s.notifyVersionAdded(ctx, md, versionFromRecord(rec))

		return key, nil
	}

	err = fmt.Errorf("registering schema for metadata %d: %w after %d attempts",
		md.ID, storage.ErrVersionConflict, maxAppendAttempts)
	s.observeRegistration(md.Type, outcomeError, start)
	return SchemaKey{}, err
}

// evaluatePolicy applies the metadata's compatibility policy to the candidate.
// versions is the current ledger in ascending order and is never empty here.
func (s *Service) evaluatePolicy(provider compat.Provider, md SchemaMetadata, versions []storage.VersionRecord, candidate string) error {
	previous := versions[len(versions)-1]

	switch md.Compatibility {
	case CompatibilityNone:
		return nil
	case CompatibilityBackward:
		return s.checkDirection(provider, md, previous, candidate, compat.DirectionBackward)
	case CompatibilityForward:
		return s.checkDirection(provider, md, previous, candidate, compat.DirectionForward)
	case CompatibilityBoth:
		if err := s.checkDirection(provider, md, previous, candidate, compat.DirectionBackward); err != nil {
			return err
		}
		return s.checkDirection(provider, md, previous, candidate, compat.DirectionForward)
	case CompatibilityFull:
		for i := range versions {
			if err := s.checkDirection(provider, md, versions[i], candidate, compat.DirectionBackward); err != nil {
				return err
			}
			if err := s.checkDirection(provider, md, versions[i], candidate, compat.DirectionForward); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown compatibility policy %q on metadata %d", md.Compatibility, md.ID)
	}
}

func (s *Service) checkDirection(provider compat.Provider, md SchemaMetadata, old storage.VersionRecord, candidate string, direction compat.Direction) error {
	ok, err := provider.IsCompatible(old.SchemaText, candidate, direction)
	if err != nil {
		return fmt.Errorf("evaluating %s compatibility against version %d: %w", direction, old.Version, err)
	}
	s.observeCompatibilityCheck(md.Type, ok)
	if !ok {
		return &IncompatibleSchemaError{
			SchemaMetadataID: md.ID,
			Version:          old.Version,
			Direction:        direction,
		}
	}
	return nil
}

// GetSchema returns one version entry.
func (s *Service) GetSchema(ctx context.Context, key SchemaKey) (SchemaVersion, error) {
	rec, err := s.store.GetVersion(ctx, key.SchemaMetadataID, key.Version)
	if err != nil {
		return SchemaVersion{}, s.translateStorage(err, fmt.Sprintf("version %d of metadata %d", key.Version, key.SchemaMetadataID))
	}
	return versionFromRecord(rec), nil
}

// GetLatestSchema returns the highest version of the metadata id.
func (s *Service) GetLatestSchema(ctx context.Context, metadataID int64) (SchemaVersion, error) {
	rec, err := s.store.GetLatestVersion(ctx, metadataID)
	if err != nil {
		return SchemaVersion{}, s.translateStorage(err, fmt.Sprintf("latest version of metadata %d", metadataID))
	}
	return versionFromRecord(rec), nil
}

// GetLatestSchemaByName resolves the name and delegates to the id form.
func (s *Service) GetLatestSchemaByName(ctx context.Context, name string) (SchemaVersion, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return SchemaVersion{}, err
	}
	return s.GetLatestSchema(ctx, md.ID)
}

// GetAllVersions returns the full ledger of the metadata id. Existing metadata
// with zero versions yields an empty slice, not an error.
func (s *Service) GetAllVersions(ctx context.Context, metadataID int64) ([]SchemaVersion, error) {
	if _, err := s.GetSchemaMetadata(ctx, metadataID); err != nil {
		return nil, err
	}

	records, err := s.store.ListVersions(ctx, metadataID)
	if err != nil {
		return nil, s.translateStorage(err, fmt.Sprintf("versions of metadata %d", metadataID))
	}
	return versionsFromRecords(records), nil
}

// GetAllVersionsByName resolves the name and delegates to the id form.
func (s *Service) GetAllVersionsByName(ctx context.Context, name string) ([]SchemaVersion, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.GetAllVersions(ctx, md.ID)
}

// ListAllSchemas enumerates every version entry across all metadata.
func (s *Service) ListAllSchemas(ctx context.Context) ([]SchemaVersion, error) {
	records, err := s.store.ListAllVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing all schema versions: %w", err)
	}
	return versionsFromRecords(records), nil
}

// IsCompatibleWithAllVersions probes the candidate against every existing
// version in both directions, regardless of the configured policy. Versions
// are probed in parallel; one incompatibility fails the probe.
func (s *Service) IsCompatibleWithAllVersions(ctx context.Context, metadataID int64, schemaText string) (bool, error) {
	md, err := s.GetSchemaMetadata(ctx, metadataID)
	if err != nil {
		return false, err
	}

	provider, err := s.providers.Resolve(md.Type)
	if err != nil {
		return false, err
	}
	if validateErr := provider.Validate(schemaText); validateErr != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSchema, validateErr)
	}

	versions, err := s.store.ListVersions(ctx, metadataID)
	if err != nil {
		return false, s.translateStorage(err, fmt.Sprintf("versions of metadata %d", metadataID))
	}
	if len(versions) == 0 {
		return true, nil
	}

	var incompatible atomic.Bool
	group, ctx := errgroup.WithContext(ctx)
	for i := range versions {
		old := versions[i]
		group.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			for _, direction := range []compat.Direction{compat.DirectionBackward, compat.DirectionForward} {
				ok, compatErr := provider.IsCompatible(old.SchemaText, schemaText, direction)
				if compatErr != nil {
					return fmt.Errorf("evaluating %s compatibility against version %d: %w", direction, old.Version, compatErr)
				}
				s.observeCompatibilityCheck(md.Type, ok)
				if !ok {
					incompatible.Store(true)
					return nil
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return false, err
	}

	return !incompatible.Load(), nil
}

// IsCompatibleWithAllVersionsByName resolves the name and delegates.
func (s *Service) IsCompatibleWithAllVersionsByName(ctx context.Context, name, schemaText string) (bool, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return false, err
	}
	return s.IsCompatibleWithAllVersions(ctx, md.ID, schemaText)
}

// UploadFile stores an artifact in the blob store.
func (s *Service) UploadFile(ctx context.Context, content io.Reader) (string, error) {
	fileID, err := s.blobs.Upload(ctx, content)
	if err != nil {
		return "", fmt.Errorf("uploading file: %w", err)
	}
	return fileID, nil
}

// DownloadFile streams a stored artifact back.
func (s *Service) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	reader, err := s.blobs.Download(ctx, fileID)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("file %q: %w", fileID, ErrNotFound)
		}
		return nil, fmt.Errorf("downloading file %q: %w", fileID, err)
	}
	return reader, nil
}

// AddSerializer registers a serializer descriptor.
func (s *Service) AddSerializer(ctx context.Context, info serdes.SerDesInfo) (int64, error) {
	return s.addSerDes(ctx, info, serdes.RoleSerializer)
}

// AddDeserializer registers a deserializer descriptor.
func (s *Service) AddDeserializer(ctx context.Context, info serdes.SerDesInfo) (int64, error) {
	return s.addSerDes(ctx, info, serdes.RoleDeserializer)
}

func (s *Service) addSerDes(ctx context.Context, info serdes.SerDesInfo, role serdes.Role) (int64, error) {
	if info.ClassName == "" {
		return 0, errors.New("serde class name must not be empty")
	}
	if info.FileID == "" {
		return 0, errors.New("serde file id must not be empty")
	}

	rec := &storage.SerDesRecord{
		Name:        info.Name,
		Description: info.Description,
		ClassName:   info.ClassName,
		FileID:      info.FileID,
		Role:        string(role),
		CreatedAt:   time.Now().UTC(),
	}

	id, err := s.store.CreateSerDes(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("creating serde descriptor %q: %w", info.Name, err)
	}

	s.logger.Debug("registered serde descriptor", nil, map[string]interface{}{
		"serdes_id":  id,
		"class_name": info.ClassName,
		"role":       string(role),
	})

	return id, nil
}

// MapSchemaWithSerDes associates a descriptor with a schema family.
func (s *Service) MapSchemaWithSerDes(ctx context.Context, metadataID, serDesID int64) error {
	if _, err := s.GetSchemaMetadata(ctx, metadataID); err != nil {
		return err
	}
	if _, err := s.store.GetSerDes(ctx, serDesID); err != nil {
		return s.translateStorage(err, fmt.Sprintf("serde %d", serDesID))
	}

	if err := s.store.MapSerDes(ctx, metadataID, serDesID); err != nil {
		return fmt.Errorf("mapping serde %d to metadata %d: %w", serDesID, metadataID, err)
	}
	return nil
}

// MapSchemaWithSerDesByName resolves the name and delegates.
func (s *Service) MapSchemaWithSerDesByName(ctx context.Context, name string, serDesID int64) error {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return err
	}
	return s.MapSchemaWithSerDes(ctx, md.ID, serDesID)
}

// GetSerializers lists serializer descriptors mapped to the metadata id.
func (s *Service) GetSerializers(ctx context.Context, metadataID int64) ([]serdes.SerDesInfo, error) {
	return s.listSerDes(ctx, metadataID, serdes.RoleSerializer)
}

// GetSerializersByName resolves the name and delegates.
func (s *Service) GetSerializersByName(ctx context.Context, name string) ([]serdes.SerDesInfo, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.listSerDes(ctx, md.ID, serdes.RoleSerializer)
}

// GetDeserializers lists deserializer descriptors mapped to the metadata id.
func (s *Service) GetDeserializers(ctx context.Context, metadataID int64) ([]serdes.SerDesInfo, error) {
	return s.listSerDes(ctx, metadataID, serdes.RoleDeserializer)
}

// GetDeserializersByName resolves the name and delegates.
func (s *Service) GetDeserializersByName(ctx context.Context, name string) ([]serdes.SerDesInfo, error) {
	md, err := s.GetSchemaMetadataByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.listSerDes(ctx, md.ID, serdes.RoleDeserializer)
}

func (s *Service) listSerDes(ctx context.Context, metadataID int64, role serdes.Role) ([]serdes.SerDesInfo, error) {
	if _, err := s.GetSchemaMetadata(ctx, metadataID); err != nil {
		return nil, err
	}

	records, err := s.store.ListSerDes(ctx, metadataID, string(role))
	if err != nil {
		return nil, fmt.Errorf("listing %s descriptors for metadata %d: %w", role, metadataID, err)
	}

	infos := make([]serdes.SerDesInfo, 0, len(records))
	for i := range records {
		infos = append(infos, serDesInfoFromRecord(&records[i]))
	}
	return infos, nil
}

// CreateSerializerInstance constructs a fresh serializer from a descriptor.
func (s *Service) CreateSerializerInstance(ctx context.Context, serDesID int64) (serdes.Serializer, error) {
	ctx, span := s.startSpan(ctx, "registry.CreateSerializerInstance")
	var err error
	defer func() { endSpan(span, err) }()

	info, err := s.getSerDesInfo(ctx, serDesID)
	if err != nil {
		return nil, err
	}

	instance, createErr := s.instantiator.CreateSerializer(ctx, info)
	if createErr != nil {
		err = s.translateInstantiation(createErr)
		return nil, err
	}
	return instance, nil
}

// CreateDeserializerInstance constructs a fresh deserializer from a descriptor.
func (s *Service) CreateDeserializerInstance(ctx context.Context, serDesID int64) (serdes.Deserializer, error) {
	ctx, span := s.startSpan(ctx, "registry.CreateDeserializerInstance")
	var err error
	defer func() { endSpan(span, err) }()

	info, err := s.getSerDesInfo(ctx, serDesID)
	if err != nil {
		return nil, err
	}

	instance, createErr := s.instantiator.CreateDeserializer(ctx, info)
	if createErr != nil {
		err = s.translateInstantiation(createErr)
		return nil, err
	}
	return instance, nil
}

func (s *Service) getSerDesInfo(ctx context.Context, serDesID int64) (serdes.SerDesInfo, error) {
	rec, err := s.store.GetSerDes(ctx, serDesID)
	if err != nil {
		return serdes.SerDesInfo{}, s.translateStorage(err, fmt.Sprintf("serde %d", serDesID))
	}
	return serDesInfoFromRecord(rec), nil
}

// translateStorage maps storage sentinels into this package's taxonomy while
// keeping the call-site context in the message.
func (s *Service) translateStorage(err error, subject string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", subject, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", subject, err)
}

// translateInstantiation keeps missing archives in the NotFound class and
// everything else in the instantiation class.
func (s *Service) translateInstantiation(err error) error {
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	return err
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, nil
	}
	return s.tracer.StartSpan(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) observeRegistration(schemaType, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRegistration(schemaType, outcome, time.Since(start))
}

func (s *Service) observeCompatibilityCheck(schemaType string, compatible bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveCompatibilityCheck(schemaType, compatible)
}

func (s *Service) notifyMetadataCreated(ctx context.Context, metadata SchemaMetadata) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SchemaMetadataCreated(ctx, metadata); err != nil {
		s.logger.Warn("failed to publish metadata created event", err, map[string]interface{}{
			"metadata_id": metadata.ID,
		})
	}
}

func (s *Service) notifyVersionAdded(ctx context.Context, metadata SchemaMetadata, version SchemaVersion) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SchemaVersionAdded(ctx, metadata, version); err != nil {
		s.logger.Warn("failed to publish version added event", err, map[string]interface{}{
			"metadata_id": metadata.ID,
			"version":     version.Key.Version,
		})
	}
}

// matchMetadata enforces the fail-loud conflict policy for re-registration of
// an existing name.
func matchMetadata(existing, requested SchemaMetadata) error {
	if existing.Type != requested.Type ||
		existing.Description != requested.Description ||
		existing.Compatibility != requested.Compatibility ||
		existing.Evolve != requested.Evolve {
		return fmt.Errorf("%w: %q", ErrMetadataConflict, requested.Name)
	}
	return nil
}

func metadataFromRecord(rec *storage.MetadataRecord) SchemaMetadata {
	return SchemaMetadata{
		ID:            rec.ID,
		Name:          rec.Name,
		Type:          rec.Type,
		Description:   rec.Description,
		Compatibility: Compatibility(rec.Compatibility),
		Evolve:        rec.Evolve,
		CreatedAt:     rec.CreatedAt,
	}
}

func versionFromRecord(rec *storage.VersionRecord) SchemaVersion {
	return SchemaVersion{
		Key: SchemaKey{
			SchemaMetadataID: rec.SchemaMetadataID,
			Version:          rec.Version,
		},
		SchemaText:  rec.SchemaText,
		Fingerprint: rec.Fingerprint,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}
}

func versionsFromRecords(records []storage.VersionRecord) []SchemaVersion {
	versions := make([]SchemaVersion, 0, len(records))
	for i := range records {
		versions = append(versions, versionFromRecord(&records[i]))
	}
	return versions
}

func serDesInfoFromRecord(rec *storage.SerDesRecord) serdes.SerDesInfo {
	return serdes.SerDesInfo{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		ClassName:   rec.ClassName,
		FileID:      rec.FileID,
		Role:        serdes.Role(rec.Role),
		CreatedAt:   rec.CreatedAt,
	}
}
