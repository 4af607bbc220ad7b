package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Davidnet/BookWise/internal/store"
	"github.com/pkg/errors"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	return getDocument(ctx, d.DB, collection, id)
}

func (d *DB) List(ctx context.Context, collection string) ([]*store.Document, error) {
	stmt := `
		SELECT id, data, created_ts, updated_ts
		FROM document
		WHERE collection = ?
		ORDER BY id
	`
	rows, err := d.DB.QueryContext(ctx, stmt, collection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	list := make([]*store.Document, 0)
	for rows.Next() {
		doc := &store.Document{Collection: collection}
		var data string
		if err := rows.Scan(&doc.ID, &data, &doc.CreatedTs, &doc.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		doc.Data = json.RawMessage(data)
		list = append(list, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) Set(ctx context.Context, collection, id string, data json.RawMessage) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	return setDocument(ctx, d.DB, collection, id, data)
}

func (d *DB) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	doc, err := getDocument(ctx, tx, collection, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return store.ErrDocumentNotFound
	}
	data, err := store.MergeFields(doc.Data, fields)
	if err != nil {
		return err
	}
	stmt := `
		UPDATE document
		SET data = ?, updated_ts = strftime('%s', 'now')
		WHERE collection = ? AND id = ?
	`
	if _, err := tx.ExecContext(ctx, stmt, string(data), collection, id); err != nil {
		return errors.Wrap(err, "failed to update document")
	}
	return tx.Commit()
}

func (d *DB) Delete(ctx context.Context, collection, id string) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	return deleteDocument(ctx, d.DB, collection, id)
}

// Batch applies the writes in one transaction.
func (d *DB) Batch(ctx context.Context, writes []store.Write) error {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, write := range writes {
		switch write.Op {
		case store.WriteSet:
			err = setDocument(ctx, tx, write.Collection, write.ID, write.Data)
		case store.WriteDelete:
			err = deleteDocument(ctx, tx, write.Collection, write.ID)
		default:
			err = errors.Errorf("unknown write op %d", write.Op)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func getDocument(ctx context.Context, q queryer, collection, id string) (*store.Document, error) {
	stmt := `
		SELECT data, created_ts, updated_ts
		FROM document
		WHERE collection = ? AND id = ?
	`
	doc := &store.Document{Collection: collection, ID: id}
	var data string
	if err := q.QueryRowContext(ctx, stmt, collection, id).Scan(&data, &doc.CreatedTs, &doc.UpdatedTs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get document")
	}
	doc.Data = json.RawMessage(data)
	return doc, nil
}

func setDocument(ctx context.Context, q queryer, collection, id string, data json.RawMessage) error {
	if !json.Valid(data) {
		return errors.Errorf("document %s/%s is not valid JSON", collection, id)
	}
	stmt := `
		INSERT INTO document (
			collection, id, data
		)
		VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE
		SET
			data = EXCLUDED.data,
			updated_ts = strftime('%s', 'now')
	`
	if _, err := q.ExecContext(ctx, stmt, collection, id, string(data)); err != nil {
		return errors.Wrap(err, "failed to set document")
	}
	return nil
}

func deleteDocument(ctx context.Context, q queryer, collection, id string) error {
	stmt := "DELETE FROM document WHERE collection = ? AND id = ?"
	if _, err := q.ExecContext(ctx, stmt, collection, id); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	return nil
}

var _ store.Driver = (*DB)(nil)
