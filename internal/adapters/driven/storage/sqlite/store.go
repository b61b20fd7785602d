package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// item, space and query store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recall/data/recall.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recall.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ItemStore returns an ItemStore interface backed by this store.
func (s *Store) ItemStore() driven.ItemStore {
	return &itemStore{store: s}
}

// SpaceStore returns a SpaceStore interface backed by this store.
func (s *Store) SpaceStore() driven.SpaceStore {
	return &spaceStore{store: s}
}

// QueryStore returns a QueryStore interface backed by this store.
func (s *Store) QueryStore() driven.QueryStore {
	return &queryStore{store: s}
}

// EmbeddingCacheStore returns an EmbeddingCacheStore interface backed
// by this store.
func (s *Store) EmbeddingCacheStore() driven.EmbeddingCacheStore {
	return &embeddingCacheStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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
	}

	return nil
}

// ==================== Item Store ====================

// itemStore implements driven.ItemStore.
type itemStore struct {
	store *Store
}

var _ driven.ItemStore = (*itemStore)(nil)

// Put stores an item.
func (s *itemStore) Put(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO items (id, space_id, type, content, notes, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			space_id = excluded.space_id,
			type = excluded.type,
			content = excluded.content,
			notes = excluded.notes,
			metadata = excluded.metadata
	`, item.ID, item.SpaceID, string(item.Type), item.Content, item.Notes,
		string(metadataJSON), item.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// Get retrieves an item by ID.
func (s *itemStore) Get(ctx context.Context, id string) (*domain.Item, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, space_id, type, content, notes, metadata, created_at
		FROM items WHERE id = ?
	`, id)

	var item domain.Item
	var itemType, metadataJSON string
	if err := row.Scan(&item.ID, &item.SpaceID, &itemType, &item.Content,
		&item.Notes, &metadataJSON, &item.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	item.Type = domain.ItemType(itemType)
	if err := json.Unmarshal([]byte(metadataJSON), &item.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}

	return &item, nil
}

// ListBySpace returns all items in a space, newest first.
func (s *itemStore) ListBySpace(ctx context.Context, spaceID string) ([]domain.Item, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, space_id, type, content, notes, metadata, created_at
		FROM items WHERE space_id = ?
		ORDER BY created_at DESC
	`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.Item
		var itemType, metadataJSON string
		if err := rows.Scan(&item.ID, &item.SpaceID, &itemType, &item.Content,
			&item.Notes, &metadataJSON, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Type = domain.ItemType(itemType)
		if err := json.Unmarshal([]byte(metadataJSON), &item.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

// Delete removes an item, reporting whether it existed.
func (s *itemStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return affected > 0, nil
}

// ==================== Space Store ====================

// spaceStore implements driven.SpaceStore.
type spaceStore struct {
	store *Store
}

var _ driven.SpaceStore = (*spaceStore)(nil)

// Save stores or updates a space.
func (s *spaceStore) Save(ctx context.Context, space domain.Space) error {
	if err := space.Validate(); err != nil {
		return err
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO spaces (id, user_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, space.ID, space.UserID, space.Name, space.Description,
		space.CreatedAt, space.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving space: %w", err)
	}
	return nil
}

// Get retrieves a space by ID.
func (s *spaceStore) Get(ctx context.Context, id string) (*domain.Space, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM spaces WHERE id = ?
	`, id)

	var space domain.Space
	if err := row.Scan(&space.ID, &space.UserID, &space.Name, &space.Description,
		&space.CreatedAt, &space.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning space: %w", err)
	}

	return &space, nil
}

// ListByUser returns all spaces owned by a user, newest first.
func (s *spaceStore) ListByUser(ctx context.Context, userID string) ([]domain.Space, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM spaces WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying spaces: %w", err)
	}
	defer rows.Close()

	var spaces []domain.Space //nolint:prealloc // size unknown from query
	for rows.Next() {
		var space domain.Space
		if err := rows.Scan(&space.ID, &space.UserID, &space.Name, &space.Description,
			&space.CreatedAt, &space.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning space: %w", err)
		}
		spaces = append(spaces, space)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spaces: %w", err)
	}

	return spaces, nil
}

// Delete removes a space, reporting whether it existed.
func (s *spaceStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM spaces WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting space: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting space: %w", err)
	}
	return affected > 0, nil
}

// ==================== Query Store ====================

// queryStore implements driven.QueryStore.
type queryStore struct {
	store *Store
}

var _ driven.QueryStore = (*queryStore)(nil)

// Append stores a completed query record.
func (s *queryStore) Append(ctx context.Context, record domain.QueryRecord) error {
	sourcesJSON, err := json.Marshal(record.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO queries (id, space_id, question, answer, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.SpaceID, record.Question, record.Answer,
		string(sourcesJSON), record.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving query record: %w", err)
	}
	return nil
}

// ListBySpace returns query records for a space, newest first.
func (s *queryStore) ListBySpace(ctx context.Context, spaceID string, limit, offset int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, space_id, question, answer, sources, created_at
		FROM queries WHERE space_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, spaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.QueryRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var record domain.QueryRecord
		var sourcesJSON string
		if err := rows.Scan(&record.ID, &record.SpaceID, &record.Question,
			&record.Answer, &sourcesJSON, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &record.Sources); err != nil {
			return nil, fmt.Errorf("unmarshaling sources: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// ClearSpace removes all records for a space.
func (s *queryStore) ClearSpace(ctx context.Context, spaceID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM queries WHERE space_id = ?", spaceID)
	if err != nil {
		return fmt.Errorf("clearing query records: %w", err)
	}
	return nil
}

// ==================== Embedding Cache Store ====================

// embeddingCacheStore implements driven.EmbeddingCacheStore.
type embeddingCacheStore struct {
	store *Store
}

var _ driven.EmbeddingCacheStore = (*embeddingCacheStore)(nil)

// GetVector retrieves a cached vector by content hash.
func (s *embeddingCacheStore) GetVector(ctx context.Context, key string) ([]float32, bool) {
	var blob []byte
	err := s.store.db.QueryRowContext(ctx,
		"SELECT vector FROM embedding_cache WHERE key = ?", key).Scan(&blob)
	if err != nil {
		return nil, false
	}
	return bytesToFloat32Slice(blob), true
}

// PutVector stores a vector under the given content hash.
func (s *embeddingCacheStore) PutVector(ctx context.Context, key string, vector []float32) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO embedding_cache (key, vector)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET vector = excluded.vector
	`, key, float32SliceToBytes(vector))
	if err != nil {
		return fmt.Errorf("saving cached vector: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
