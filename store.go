package brp

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"os"
	"sync"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no cgo
)

// EntityKind names a persisted entity table for Clean.
type EntityKind int

const (
	KindHyperplane EntityKind = iota
	KindBucket
	KindData
)

func (k EntityKind) tableName() string {
	switch k {
	case KindHyperplane:
		return "hyperplane"
	case KindBucket:
		return "bucket"
	case KindData:
		return "data"
	default:
		return ""
	}
}

// Store is the typed, durable CRUD layer over Hyperplane, Bucket, and Data
// rows, backed by a single local SQLite file: a *sql.DB guarded by a
// sync.RWMutex, a closed flag, and one wrapError-tagged method per public
// operation.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// NewStore returns a Store bound to path. Call Init before use.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, wrapError("new_store", fmt.Errorf("database path cannot be empty"))
	}
	return &Store{path: path}, nil
}

// Init opens (or creates) the backing SQLite file and ensures the schema
// exists. If forceInit is true, any existing file at path is removed
// first, so the store resets to the Empty state even if it previously
// held a Built index.
func (s *Store) Init(ctx context.Context, forceInit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("init", ErrStoreClosed)
	}

	if forceInit {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return wrapError("init", fmt.Errorf("failed to remove existing database: %w", err))
		}
	}

	db, err := sql.Open("sqlite", s.path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return wrapError("init", fmt.Errorf("failed to open database: %w", err))
	}
	s.db = db

	if err := s.createTables(ctx); err != nil {
		return wrapError("init", err)
	}

	return nil
}

func (s *Store) createTables(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS hyperplane (
		id     INTEGER PRIMARY KEY,
		vector TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bucket (
		id   INTEGER PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS data (
		id        INTEGER PRIMARY KEY,
		raw       TEXT NOT NULL,
		embedding TEXT NOT NULL,
		bucket_id INTEGER REFERENCES bucket(id)
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Create inserts e and assigns its id. Bucket creation is get-or-create on
// hash: creating a Bucket whose hash already exists returns the existing
// row's id instead of inserting a duplicate. Data creation requires any
// referenced Bucket to already have an id.
func (s *Store) Create(ctx context.Context, e entity) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, wrapError("create", ErrStoreClosed)
	}

	switch v := e.(type) {
	case *Hyperplane:
		return s.createHyperplane(ctx, v)
	case *Bucket:
		return s.createBucket(ctx, v)
	case *Data:
		return s.createData(ctx, v)
	default:
		return 0, wrapError("create", fmt.Errorf("unsupported entity type %T", e))
	}
}

func (s *Store) createHyperplane(ctx context.Context, h *Hyperplane) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO hyperplane (vector) VALUES (?)`, formatVector(h.Vector))
	if err != nil {
		return 0, wrapError("create_hyperplane", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapError("create_hyperplane", err)
	}
	h.ID = id
	return id, nil
}

func (s *Store) createBucket(ctx context.Context, b *Bucket) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO bucket (hash) VALUES (?) ON CONFLICT(hash) DO NOTHING`, b.Hash); err != nil {
		return 0, wrapError("create_bucket", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM bucket WHERE hash = ?`, b.Hash).Scan(&id)
	if err != nil {
		return 0, wrapError("create_bucket", err)
	}
	b.ID = id
	return id, nil
}

func (s *Store) createData(ctx context.Context, d *Data) (int64, error) {
	if d.BucketID != nil {
		if err := s.requireBucketExists(ctx, *d.BucketID); err != nil {
			return 0, wrapError("create_data", err)
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO data (raw, embedding, bucket_id) VALUES (?, ?, ?)`,
		d.Raw, formatVector(d.Embedding), d.BucketID)
	if err != nil {
		return 0, wrapError("create_data", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapError("create_data", err)
	}
	d.ID = id
	return id, nil
}

func (s *Store) requireBucketExists(ctx context.Context, bucketID int64) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM bucket WHERE id = ?`, bucketID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("bucket %d does not exist", bucketID)
	}
	return err
}

// Update updates e by id. Only Bucket and Data are updatable; Hyperplane
// is immutable once created and returns ErrUpdateNotSupported.
func (s *Store) Update(ctx context.Context, e entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("update", ErrStoreClosed)
	}

	switch v := e.(type) {
	case *Hyperplane:
		return wrapError("update", ErrUpdateNotSupported)
	case *Bucket:
		return s.updateBucket(ctx, v)
	case *Data:
		return s.updateData(ctx, v)
	default:
		return wrapError("update", fmt.Errorf("unsupported entity type %T", e))
	}
}

func (s *Store) updateBucket(ctx context.Context, b *Bucket) error {
	if b.ID == 0 {
		return wrapError("update_bucket", ErrUnattachedEntity)
	}
	_, err := s.db.ExecContext(ctx, `UPDATE bucket SET hash = ? WHERE id = ?`, b.Hash, b.ID)
	return wrapError("update_bucket", err)
}

func (s *Store) updateData(ctx context.Context, d *Data) error {
	if d.ID == 0 {
		return wrapError("update_data", ErrUnattachedEntity)
	}
	if d.BucketID != nil {
		if err := s.requireBucketExists(ctx, *d.BucketID); err != nil {
			return wrapError("update_data", err)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE data SET raw = ?, embedding = ?, bucket_id = ? WHERE id = ?`,
		d.Raw, formatVector(d.Embedding), d.BucketID, d.ID)
	return wrapError("update_data", err)
}

// FetchBucket returns the Bucket with the given hash, or (nil, nil) if no
// such bucket exists.
func (s *Store) FetchBucket(ctx context.Context, hash string) (*Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("fetch_bucket", ErrStoreClosed)
	}

	var b Bucket
	err := s.db.QueryRowContext(ctx, `SELECT id, hash FROM bucket WHERE hash = ?`, hash).
		Scan(&b.ID, &b.Hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("fetch_bucket", err)
	}
	return &b, nil
}

// FetchData returns the first Data whose raw identifier matches, hydrated
// with its Bucket reference, or (nil, nil) if none matches.
func (s *Store) FetchData(ctx context.Context, raw string) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("fetch_data", ErrStoreClosed)
	}

	var d Data
	var embeddingText string
	var bucketID sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, raw, embedding, bucket_id FROM data WHERE raw = ? ORDER BY id ASC LIMIT 1`, raw).
		Scan(&d.ID, &d.Raw, &embeddingText, &bucketID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("fetch_data", err)
	}

	v, err := parseVector(embeddingText)
	if err != nil {
		return nil, wrapError("fetch_data", err)
	}
	d.Embedding = v
	if bucketID.Valid {
		id := bucketID.Int64
		d.BucketID = &id
	}
	return &d, nil
}

// FetchBucketData lazily yields every Data row assigned to bucket, in
// id-ascending order. It requires bucket.ID to be set (the bucket must
// already be persisted); otherwise it yields a single error value of
// ErrUnattachedEntity.
func (s *Store) FetchBucketData(ctx context.Context, bucket *Bucket) iter.Seq2[*Data, error] {
	return func(yield func(*Data, error) bool) {
		if bucket == nil || bucket.ID == 0 {
			yield(nil, wrapError("fetch_bucket_data", ErrUnattachedEntity))
			return
		}

		s.mu.RLock()
		defer s.mu.RUnlock()

		if s.closed {
			yield(nil, wrapError("fetch_bucket_data", ErrStoreClosed))
			return
		}

		rows, err := s.db.QueryContext(ctx,
			`SELECT id, raw, embedding, bucket_id FROM data WHERE bucket_id = ? ORDER BY id ASC`,
			bucket.ID)
		if err != nil {
			yield(nil, wrapError("fetch_bucket_data", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanData(rows)
			if err != nil {
				if !yield(nil, wrapError("fetch_bucket_data", err)) {
					return
				}
				continue
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, wrapError("fetch_bucket_data", err))
		}
	}
}

// FetchAllData lazily yields every Data row in id-ascending order.
func (s *Store) FetchAllData(ctx context.Context) iter.Seq2[*Data, error] {
	return func(yield func(*Data, error) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		if s.closed {
			yield(nil, wrapError("fetch_all_data", ErrStoreClosed))
			return
		}

		rows, err := s.db.QueryContext(ctx,
			`SELECT id, raw, embedding, bucket_id FROM data ORDER BY id ASC`)
		if err != nil {
			yield(nil, wrapError("fetch_all_data", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanData(rows)
			if err != nil {
				if !yield(nil, wrapError("fetch_all_data", err)) {
					return
				}
				continue
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, wrapError("fetch_all_data", err))
		}
	}
}

// FetchAllHyperplanes lazily yields every Hyperplane row in id-ascending
// (i.e. generation) order.
func (s *Store) FetchAllHyperplanes(ctx context.Context) iter.Seq2[*Hyperplane, error] {
	return func(yield func(*Hyperplane, error) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		if s.closed {
			yield(nil, wrapError("fetch_all_hyperplanes", ErrStoreClosed))
			return
		}

		rows, err := s.db.QueryContext(ctx, `SELECT id, vector FROM hyperplane ORDER BY id ASC`)
		if err != nil {
			yield(nil, wrapError("fetch_all_hyperplanes", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var h Hyperplane
			var vectorText string
			if err := rows.Scan(&h.ID, &vectorText); err != nil {
				if !yield(nil, wrapError("fetch_all_hyperplanes", err)) {
					return
				}
				continue
			}
			v, err := parseVector(vectorText)
			if err != nil {
				if !yield(nil, wrapError("fetch_all_hyperplanes", err)) {
					return
				}
				continue
			}
			h.Vector = v
			if !yield(&h, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, wrapError("fetch_all_hyperplanes", err))
		}
	}
}

func scanData(rows *sql.Rows) (*Data, error) {
	var d Data
	var embeddingText string
	var bucketID sql.NullInt64

	if err := rows.Scan(&d.ID, &d.Raw, &embeddingText, &bucketID); err != nil {
		return nil, err
	}
	v, err := parseVector(embeddingText)
	if err != nil {
		return nil, err
	}
	d.Embedding = v
	if bucketID.Valid {
		id := bucketID.Int64
		d.BucketID = &id
	}
	return &d, nil
}

// Clean truncates the given entity tables. Truncating data also clears its
// bucket_id foreign keys implicitly (the rows themselves are removed).
func (s *Store) Clean(ctx context.Context, kinds ...EntityKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("clean", ErrStoreClosed)
	}

	for _, k := range kinds {
		table := k.tableName()
		if table == "" {
			return wrapError("clean", fmt.Errorf("unknown entity kind %d", k))
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return wrapError("clean", fmt.Errorf("failed to clean %s: %w", table, err))
		}
	}
	return nil
}

// ClearDataBucketRefs sets bucket_id to NULL on every Data row, used by a
// rebuild before Clean(KindBucket) so no Data row is left pointing at a
// bucket about to be deleted.
func (s *Store) ClearDataBucketRefs(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("clear_data_bucket_refs", ErrStoreClosed)
	}
	_, err := s.db.ExecContext(ctx, `UPDATE data SET bucket_id = NULL`)
	return wrapError("clear_data_bucket_refs", err)
}

// Close closes the database connection. It is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
