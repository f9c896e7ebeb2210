package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// PostgresStore persists enumeration Records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool, pings it, and runs migrations.
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS enumeration_runs (
		id SERIAL PRIMARY KEY,
		topology_digest VARCHAR(64) NOT NULL,
		phase VARCHAR(16) NOT NULL,
		sigma DOUBLE PRECISION NOT NULL,
		tau DOUBLE PRECISION NOT NULL,
		n_max INTEGER NOT NULL,
		tuples JSONB NOT NULL,
		optimizer_result JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_runs_digest ON enumeration_runs(topology_digest);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON enumeration_runs(created_at);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save inserts a Record and returns its assigned ID.
func (s *PostgresStore) Save(rec Record) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tuplesJSON, err := json.Marshal(rec.Tuples)
	if err != nil {
		return 0, fmt.Errorf("store: marshaling tuples: %w", err)
	}
	var optimizerJSON []byte
	if rec.OptimizerResult != nil {
		optimizerJSON, err = json.Marshal(rec.OptimizerResult)
		if err != nil {
			return 0, fmt.Errorf("store: marshaling optimizer result: %w", err)
		}
	}

	query := `
	INSERT INTO enumeration_runs
		(topology_digest, phase, sigma, tau, n_max, tuples, optimizer_result)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	var id int64
	err = s.db.QueryRowContext(ctx, query,
		rec.TopologyDigest, rec.Phase, rec.Sigma, rec.Tau, rec.NMax,
		tuplesJSON, nullableJSON(optimizerJSON),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: inserting record: %w", err)
	}
	return id, nil
}

func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}

// Load retrieves a record by ID.
func (s *PostgresStore) Load(id int64) (Record, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, topology_digest, phase, sigma, tau, n_max, tuples, optimizer_result, created_at
		FROM enumeration_runs WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("store: loading record: %w", err)
	}
	return rec, true, nil
}

// ListByDigest returns every stored record for a given topology digest,
// most recently created first.
func (s *PostgresStore) ListByDigest(digest string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topology_digest, phase, sigma, tau, n_max, tuples, optimizer_result, created_at
		FROM enumeration_runs WHERE topology_digest = $1 ORDER BY created_at DESC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("store: querying records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var tuplesJSON []byte
	var optimizerJSON []byte
	if err := row.Scan(&rec.ID, &rec.TopologyDigest, &rec.Phase, &rec.Sigma, &rec.Tau, &rec.NMax,
		&tuplesJSON, &optimizerJSON, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(tuplesJSON, &rec.Tuples); err != nil {
		return Record{}, fmt.Errorf("unmarshaling tuples: %w", err)
	}
	if len(optimizerJSON) > 0 {
		if err := json.Unmarshal(optimizerJSON, &rec.OptimizerResult); err != nil {
			return Record{}, fmt.Errorf("unmarshaling optimizer result: %w", err)
		}
	}
	return rec, nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
