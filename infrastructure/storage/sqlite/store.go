// ABOUTME: SQLite-backed result store and job archive for scraped price data
// ABOUTME: Keeps append-only search generations that survive application restarts

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"precios-api/core/domain"
)

// Store implements the ResultStore and JobArchive interfaces using SQLite.
type Store struct {
	db       *sql.DB
	filePath string
}

// NewStore opens (or creates) the SQLite database at filePath.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		filePath = "precios.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// Concurrent appends from the coordinator and reads from the API share
	// this connection pool; a single writer avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	store := &Store{
		db:       db,
		filePath: filePath,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS search_generations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_generations_query ON search_generations(query, fetched_at);

		CREATE TABLE IF NOT EXISTS scraped_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generation_id INTEGER NOT NULL REFERENCES search_generations(id),
			source_name TEXT NOT NULL,
			source_product_name TEXT NOT NULL,
			price REAL NOT NULL,
			currency TEXT NOT NULL,
			product_url TEXT NOT NULL,
			scraped_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_generation ON scraped_results(generation_id);

		CREATE TABLE IF NOT EXISTS scrape_jobs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			status TEXT NOT NULL,
			per_source TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			started_at INTEGER,
			completed_at INTEGER
		);
	`

	_, err := s.db.Exec(query)
	return err
}

// Append persists one aggregate's results as a new generation. Existing
// generations for the same query are never modified.
func (s *Store) Append(ctx context.Context, aggregate *domain.AggregateResult) error {
	if aggregate == nil || aggregate.Query == "" {
		return errors.New("aggregate query cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"INSERT INTO search_generations (query, fetched_at) VALUES (?, ?)",
		aggregate.Query, aggregate.FetchedAt.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	generationID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read generation id: %w", err)
	}

	for _, item := range aggregate.Results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scraped_results
				(generation_id, source_name, source_product_name, price, currency, product_url, scraped_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			generationID, item.SourceName, item.SourceProductName,
			item.Price, item.Currency, item.ProductURL, item.ScrapedAt.UTC().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	return tx.Commit()
}

// QueryLatest returns the most recent generation for a query, ordered
// ascending by price. Returns nil without error when no history exists.
func (s *Store) QueryLatest(ctx context.Context, query string) (*domain.AggregateResult, error) {
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}

	var generationID int64
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, fetched_at FROM search_generations WHERE query = ? ORDER BY fetched_at DESC, id DESC LIMIT 1",
		query,
	).Scan(&generationID, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest generation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_name, source_product_name, price, currency, product_url, scraped_at
		FROM scraped_results
		WHERE generation_id = ?
		ORDER BY price ASC, source_name ASC, product_url ASC`,
		generationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	aggregate := &domain.AggregateResult{
		Query:     query,
		FetchedAt: time.Unix(fetchedAt, 0).UTC(),
	}

	for rows.Next() {
		var item domain.ScrapedResult
		var scrapedAt int64
		if err := rows.Scan(
			&item.SourceName, &item.SourceProductName, &item.Price,
			&item.Currency, &item.ProductURL, &scrapedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		item.ScrapedAt = time.Unix(scrapedAt, 0).UTC()
		aggregate.Results = append(aggregate.Results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	return aggregate, nil
}

// ArchiveJob records a finished job's outcome. Re-archiving the same job id
// overwrites the previous row.
func (s *Store) ArchiveJob(ctx context.Context, snapshot domain.JobSnapshot) error {
	if snapshot.ID == "" {
		return errors.New("job id cannot be empty")
	}

	perSource, err := json.Marshal(snapshot.PerSource)
	if err != nil {
		return fmt.Errorf("failed to marshal per-source status: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scrape_jobs
			(id, query, status, per_source, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.Query, string(snapshot.Status), string(perSource),
		snapshot.CreatedAt.UTC().Unix(),
		nullableUnix(snapshot.StartedAt), nullableUnix(snapshot.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to archive job: %w", err)
	}
	return nil
}

// GetJob returns an archived job by id, or nil without error when absent.
func (s *Store) GetJob(ctx context.Context, jobID string) (*domain.JobSnapshot, error) {
	if jobID == "" {
		return nil, errors.New("job id cannot be empty")
	}

	var snapshot domain.JobSnapshot
	var status, perSource string
	var createdAt int64
	var startedAt, completedAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, query, status, per_source, created_at, started_at, completed_at FROM scrape_jobs WHERE id = ?",
		jobID,
	).Scan(&snapshot.ID, &snapshot.Query, &status, &perSource, &createdAt, &startedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query job: %w", err)
	}

	snapshot.Status = domain.JobStatus(status)
	if err := json.Unmarshal([]byte(perSource), &snapshot.PerSource); err != nil {
		return nil, fmt.Errorf("failed to unmarshal per-source status: %w", err)
	}
	snapshot.CreatedAt = time.Unix(createdAt, 0).UTC()
	if startedAt.Valid {
		t := time.Unix(startedAt.Int64, 0).UTC()
		snapshot.StartedAt = &t
	}
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		snapshot.CompletedAt = &t
	}

	return &snapshot, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func nullableUnix(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}
