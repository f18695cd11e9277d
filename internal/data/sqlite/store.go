package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/akolanti/DocStoreAPI/internal/data/sqlite/migrations"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

const selectColumns = `SELECT id, filename, file_path, collection_type, file_size, file_description, file_abstract, created_at, updated_at`

// defaultSearchLimit caps unbounded record queries.
const defaultSearchLimit = 100

// recordStore implements docModel.RecordStore on a single SQLite file.
type recordStore struct {
	db *sql.DB
}

// NewRecordStore opens (or creates) the SQLite database at dbPath and runs
// the embedded migrations. WAL mode keeps concurrent reads cheap while the
// worker pool writes.
func NewRecordStore(dbPath string) (docModel.RecordStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &recordStore{db: db}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *recordStore) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations.
func (s *recordStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_documents.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Create stores a new document record.
func (s *recordStore) Create(ctx context.Context, rec docModel.DocumentRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, file_path, collection_type, file_size, file_description, file_abstract, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Filename, rec.FilePath, rec.CollectionType,
		nullInt64(rec.FileSize), nullString(rec.FileDescription), nullString(rec.FileAbstract),
		rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("creating document record: %w", err)
	}
	return nil
}

// GetByID retrieves a document record by ID.
func (s *recordStore) GetByID(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM documents WHERE id = ?", id)
	return scanRecord(row)
}

// GetByFilename retrieves the most recent record carrying the filename.
func (s *recordStore) GetByFilename(ctx context.Context, filename string) (docModel.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+" FROM documents WHERE filename = ? ORDER BY created_at DESC LIMIT 1", filename)
	return scanRecord(row)
}

// GetByCollectionType returns all records of one collection.
func (s *recordStore) GetByCollectionType(ctx context.Context, collectionType string) ([]docModel.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM documents WHERE collection_type = ?", collectionType)
	if err != nil {
		return nil, fmt.Errorf("querying document records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Update applies the non-nil fields and bumps updated_at.
func (s *recordStore) Update(ctx context.Context, id string, fields docModel.RecordUpdate) error {
	setClauses := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if fields.Filename != nil {
		setClauses = append(setClauses, "filename = ?")
		args = append(args, *fields.Filename)
	}
	if fields.FilePath != nil {
		setClauses = append(setClauses, "file_path = ?")
		args = append(args, *fields.FilePath)
	}
	if fields.CollectionType != nil {
		setClauses = append(setClauses, "collection_type = ?")
		args = append(args, *fields.CollectionType)
	}
	if fields.FileSize != nil {
		setClauses = append(setClauses, "file_size = ?")
		args = append(args, *fields.FileSize)
	}
	if fields.FileDescription != nil {
		setClauses = append(setClauses, "file_description = ?")
		args = append(args, *fields.FileDescription)
	}
	if fields.FileAbstract != nil {
		setClauses = append(setClauses, "file_abstract = ?")
		args = append(args, *fields.FileAbstract)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE documents SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating document record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return docModel.ErrNotFound
	}
	return nil
}

// DeleteByID removes one record; docModel.ErrNotFound when nothing matched.
func (s *recordStore) DeleteByID(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return docModel.ErrNotFound
	}
	return nil
}

// DeleteByCollectionType removes all records of one collection and reports
// how many went away.
func (s *recordStore) DeleteByCollectionType(ctx context.Context, collectionType string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection_type = ?", collectionType)
	if err != nil {
		return 0, fmt.Errorf("deleting document records: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking delete result: %w", err)
	}
	return affected, nil
}

// Search lists records newest first, filtered by filename pattern and
// collection type.
func (s *recordStore) Search(ctx context.Context, q docModel.RecordQuery) ([]docModel.DocumentRecord, error) {
	where, args := buildFilters(q)

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM documents"+where+" ORDER BY created_at DESC, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("querying document records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count reports how many records match the query filters.
func (s *recordStore) Count(ctx context.Context, q docModel.RecordQuery) (int64, error) {
	where, args := buildFilters(q)

	var count int64
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting document records: %w", err)
	}
	return count, nil
}

// Statistics aggregates document counts and byte totals per collection.
func (s *recordStore) Statistics(ctx context.Context) (docModel.StoreStatistics, error) {
	stats := docModel.StoreStatistics{Collections: map[string]docModel.CollectionStats{}}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&stats.TotalDocuments); err != nil {
		return stats, fmt.Errorf("counting documents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT collection_type, COUNT(*), COALESCE(SUM(file_size), 0)
		FROM documents
		GROUP BY collection_type
	`)
	if err != nil {
		return stats, fmt.Errorf("querying collection statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var collectionType string
		var cs docModel.CollectionStats
		if err := rows.Scan(&collectionType, &cs.DocumentCount, &cs.TotalSize); err != nil {
			return stats, fmt.Errorf("scanning collection statistics: %w", err)
		}
		stats.Collections[collectionType] = cs
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating collection statistics: %w", err)
	}

	return stats, nil
}

// buildFilters renders the WHERE clause for Search and Count.
func buildFilters(q docModel.RecordQuery) (string, []any) {
	var conditions []string
	var args []any

	if q.FilenamePattern != "" {
		conditions = append(conditions, "filename LIKE ?")
		args = append(args, "%"+q.FilenamePattern+"%")
	}
	if q.CollectionType != "" {
		conditions = append(conditions, "collection_type = ?")
		args = append(args, q.CollectionType)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// scanRecord scans a single record row.
func scanRecord(row *sql.Row) (docModel.DocumentRecord, error) {
	var rec docModel.DocumentRecord
	var fileSize sql.NullInt64
	var description, abstract sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&rec.ID, &rec.Filename, &rec.FilePath, &rec.CollectionType,
		&fileSize, &description, &abstract, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return docModel.DocumentRecord{}, docModel.ErrNotFound
		}
		return docModel.DocumentRecord{}, fmt.Errorf("scanning document record: %w", err)
	}

	rec.FileSize = fileSize.Int64
	rec.FileDescription = description.String
	rec.FileAbstract = abstract.String
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	}

	return rec, nil
}

// scanRecords scans all rows of a record query.
func scanRecords(rows *sql.Rows) ([]docModel.DocumentRecord, error) {
	var records []docModel.DocumentRecord
	for rows.Next() {
		var rec docModel.DocumentRecord
		var fileSize sql.NullInt64
		var description, abstract sql.NullString
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.FilePath, &rec.CollectionType,
			&fileSize, &description, &abstract, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning document record: %w", err)
		}

		rec.FileSize = fileSize.Int64
		rec.FileDescription = description.String
		rec.FileAbstract = abstract.String
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			rec.UpdatedAt = updatedAt.Time
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document records: %w", err)
	}
	return records, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
