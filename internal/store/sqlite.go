package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rijista/registrar/internal/domain"
)

// SQLiteStore implements SessionStore on SQLite so in-flight registrations
// survive a process restart. Metadata documents are stored as JSON blobs;
// Update reads and writes inside a single transaction so concurrent mutations
// of one session serialize.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) a SQLite-backed session store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection avoids SQLITE_BUSY
	// under concurrent updates and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

var _ SessionStore = (*SQLiteStore)(nil)

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS registration_sessions (
			registration_id TEXT PRIMARY KEY,
			ip_metadata TEXT,
			nft_metadata TEXT,
			upload_result TEXT,
			protected INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created ON registration_sessions(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, session *domain.Session) error {
	ip, nft, upload, err := marshalDocs(session)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO registration_sessions
		 (registration_id, ip_metadata, nft_metadata, upload_result, protected, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.RegistrationID, ip, nft, upload, session.Protected, session.CreatedAt, session.UpdatedAt)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, registrationID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT registration_id, ip_metadata, nft_metadata, upload_result, protected, created_at, updated_at
		 FROM registration_sessions WHERE registration_id = ?`, registrationID)
	return scanSession(row)
}

func (s *SQLiteStore) Update(ctx context.Context, registrationID string, fn func(*domain.Session) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The read and the write share one transaction on the pool's only
	// connection, so concurrent Updates queue rather than interleave.
	row := tx.QueryRowContext(ctx,
		`SELECT registration_id, ip_metadata, nft_metadata, upload_result, protected, created_at, updated_at
		 FROM registration_sessions WHERE registration_id = ?`, registrationID)
	session, err := scanSession(row)
	if err != nil {
		return err
	}

	if err := fn(session); err != nil {
		return err
	}
	session.UpdatedAt = time.Now()

	ip, nft, upload, err := marshalDocs(session)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE registration_sessions
		 SET ip_metadata = ?, nft_metadata = ?, upload_result = ?, protected = ?, updated_at = ?
		 WHERE registration_id = ?`,
		ip, nft, upload, session.Protected, session.UpdatedAt, registrationID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, registrationID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM registration_sessions WHERE registration_id = ?`, registrationID)
	return err
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM registration_sessions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func marshalDocs(session *domain.Session) (ip, nft, upload sql.NullString, err error) {
	if session.IPMetadata != nil {
		b, e := json.Marshal(session.IPMetadata)
		if e != nil {
			return ip, nft, upload, e
		}
		ip = sql.NullString{String: string(b), Valid: true}
	}
	if session.NFTMetadata != nil {
		b, e := json.Marshal(session.NFTMetadata)
		if e != nil {
			return ip, nft, upload, e
		}
		nft = sql.NullString{String: string(b), Valid: true}
	}
	if session.UploadResult != nil {
		b, e := json.Marshal(session.UploadResult)
		if e != nil {
			return ip, nft, upload, e
		}
		upload = sql.NullString{String: string(b), Valid: true}
	}
	return ip, nft, upload, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var ip, nft, upload sql.NullString

	err := row.Scan(&session.RegistrationID, &ip, &nft, &upload,
		&session.Protected, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if ip.Valid {
		session.IPMetadata = &domain.IPMetadata{}
		if err := json.Unmarshal([]byte(ip.String), session.IPMetadata); err != nil {
			return nil, err
		}
	}
	if nft.Valid {
		session.NFTMetadata = &domain.NFTMetadata{}
		if err := json.Unmarshal([]byte(nft.String), session.NFTMetadata); err != nil {
			return nil, err
		}
	}
	if upload.Valid {
		session.UploadResult = &domain.UploadResult{}
		if err := json.Unmarshal([]byte(upload.String), session.UploadResult); err != nil {
			return nil, err
		}
	}

	return &session, nil
}
