package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Logger defines the interface for logging operations within the storage package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// PostgresStore is the Postgres-backed Store. It wraps gorm.DB with connection
// monitoring and automatic reconnection; the RWMutex guards the client swap
// performed by the retry loop, all queries take the read lock.
type PostgresStore struct {
	client *gorm.DB
	cfg    Config
	logger Logger
	mu     *sync.RWMutex

	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
}

// NewPostgresStore connects to Postgres, migrates the registry tables and
// returns a ready store. A failed initial connection is fatal.
func NewPostgresStore(cfg Config, logger Logger) (*PostgresStore, error) {
	conn, err := connectToPostgres(logger, cfg)
	if err != nil {
		logger.Fatal("error in connecting to postgres after all retries", err, nil)
		return nil, err
	}

	store := &PostgresStore{
		client:          conn,
		cfg:             cfg,
		logger:          logger,
		mu:              &sync.RWMutex{},
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate registry tables: %w", err)
	}

	return store, nil
}

// migrate runs schema migrations for the registry tables.
func (s *PostgresStore) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.client.AutoMigrate(
		&schemaMetadataModel{},
		&schemaVersionModel{},
		&serDesModel{},
		&schemaSerDesMappingModel{},
	)
}

// connectToPostgres opens the GORM connection and configures the pool.
func connectToPostgres(logger Logger, cfg Config) (*gorm.DB, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(pgConnStr),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgresSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgresSQL database instance: %w", err)
	}

	maxOpen := cfg.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxLifetime := cfg.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = defaultConnMaxLifetime
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	logger.Info("Successfully connected to PostgresSQL database", nil, nil)

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the database when
// notified of a connection failure. It runs as a goroutine and terminates on
// shutdown or context cancellation.
func (s *PostgresStore) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-s.shutdownSignal:
			s.logger.Info("Stopping RetryConnection loop due to shutdown signal", nil, nil)
			return
		case <-ctx.Done():
			return
		case <-s.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-s.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(s.logger, s.cfg)
					if err != nil {
						s.logger.Error("Reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue innerLoop
					}
					s.mu.Lock()
					s.client = newConn
					s.mu.Unlock()
					s.logger.Info("Reconnected to PostgresSQL database", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks connection health and signals the
// retry loop on failure. It runs as a goroutine.
func (s *PostgresStore) MonitorConnection(ctx context.Context) {
	defer s.closeRetryChanOnce.Do(func() {
		close(s.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdownSignal:
			s.logger.Info("Stopping MonitorConnection loop due to shutdown signal", nil, nil)
			return
		case <-ticker.C:
			err := s.healthCheck()
			if err != nil {
				select {
				case s.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck pings the database with a 5 second timeout.
func (s *PostgresStore) healthCheck() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := s.client.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}
