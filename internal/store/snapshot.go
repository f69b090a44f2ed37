// Package store persists rendered documents as numbered snapshots in
// PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"oval-editor/internal/models"
)

// txStarter is the minimal interface needed from a pgx pool for SaveSnapshot.
type txStarter interface {
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	ErrEmptySnapshot = errors.New("empty snapshot")
	// ErrRevisionConflict is returned when another writer took the revision first.
	ErrRevisionConflict = errors.New("snapshot revision conflict")
)

type Snapshot struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Revision   int       `json:"revision"`
	Issues     int       `json:"issues"`
	CreatedAt  time.Time `json:"created_at"`
	Content    []byte    `json:"-"`
}

// SaveSnapshot stores content as the next revision of docID.
func SaveSnapshot(ctx context.Context, pool txStarter, docID string, content []byte, issues int) (snap *Snapshot, err error) {
	docID = strings.TrimSpace(docID)
	if docID == "" || len(content) == 0 {
		return nil, fmt.Errorf("%w: document %q with %d bytes", ErrEmptySnapshot, docID, len(content))
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				slog.Error("failed to rollback snapshot transaction", "error", rbErr)
			}
			return
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
			snap = nil
		}
	}()

	var last int
	if err = tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(revision), 0) FROM oval.snapshots WHERE document_id = $1
    `, docID).Scan(&last); err != nil {
		return nil, fmt.Errorf("lookup revision: %w", err)
	}

	s := &Snapshot{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Revision:   last + 1,
		Issues:     issues,
		CreatedAt:  time.Now().UTC(),
		Content:    content,
	}

	cmdTag, execErr := tx.Exec(ctx, `
        INSERT INTO oval.snapshots (id, document_id, revision, issues, created_at, content)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (document_id, revision) DO NOTHING
    `, s.ID, s.DocumentID, s.Revision, s.Issues, s.CreatedAt, s.Content)
	if execErr != nil {
		return nil, fmt.Errorf("insert snapshot: %w", execErr)
	}

	if cmdTag.RowsAffected() == 0 {
		slog.Info("snapshot revision already taken", "document_id", docID, "revision", s.Revision)
		err = ErrRevisionConflict
		return nil, err
	}

	slog.Info("saved snapshot", "document_id", docID, "revision", s.Revision, "bytes", len(content))
	return s, nil
}

// ListSnapshots returns the snapshots of docID, newest first, without content.
func ListSnapshots(ctx context.Context, db querier, docID string) ([]Snapshot, error) {
	rows, err := db.Query(ctx, `
        SELECT id, document_id, revision, issues, created_at
        FROM oval.snapshots
        WHERE document_id = $1
        ORDER BY revision DESC
    `, docID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.Revision, &s.Issues, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// LoadSnapshot returns one snapshot with its content.
func LoadSnapshot(ctx context.Context, db querier, id string) (*Snapshot, error) {
	var s Snapshot
	err := db.QueryRow(ctx, `
        SELECT id, document_id, revision, issues, created_at, content
        FROM oval.snapshots
        WHERE id = $1
    `, id).Scan(&s.ID, &s.DocumentID, &s.Revision, &s.Issues, &s.CreatedAt, &s.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: snapshot %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &s, nil
}
