package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"

	"overlaysvc/internal/overlay/model"
	"overlaysvc/pkg/logger"
)

// Schema is applied by EnsureSchema. Each overlay is one JSONB document keyed by
// an ObjectID-formatted id, so ids look the same whichever store is configured.
const Schema = `CREATE TABLE IF NOT EXISTS overlays (
	id  TEXT PRIMARY KEY,
	doc JSONB NOT NULL DEFAULT '{}'::jsonb
)`

type overlayFields struct {
	Type    any `json:"type"`
	Content any `json:"content"`
	X       any `json:"x"`
	Y       any `json:"y"`
	Width   any `json:"width"`
	Height  any `json:"height"`
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, Schema); err != nil {
		logger.Sugar.Errorf("Failed to create overlays table: %v", err)
		return err
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, o model.Overlay) (string, error) {
	doc, err := json.Marshal(overlayFields{
		Type:    o.Type,
		Content: o.Content,
		X:       o.X,
		Y:       o.Y,
		Width:   o.Width,
		Height:  o.Height,
	})
	if err != nil {
		return "", err
	}

	id := model.NewID()
	// lib/pq requires string for JSONB, not []byte
	_, err = r.DB.ExecContext(ctx, `INSERT INTO overlays (id, doc) VALUES ($1, $2)`, id, string(doc))
	if err != nil {
		logger.Sugar.Errorf("Failed to insert overlay: %v", err)
		return "", err
	}
	return id, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Overlay, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, doc FROM overlays`)
	if err != nil {
		logger.Sugar.Errorf("Failed to list overlays: %v", err)
		return nil, err
	}
	defer rows.Close()

	overlays := []model.Overlay{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		doc, err := model.DecodeBody(bytes.NewReader(raw))
		if err != nil {
			logger.Sugar.Errorf("Failed to decode overlay %s: %v", id, err)
			return nil, err
		}
		o := model.NewOverlay(model.NewCreateRequest(doc))
		o.ID = id
		overlays = append(overlays, o)
	}
	return overlays, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, id string, req model.UpdateOverlayRequest) (int64, error) {
	if _, err := model.ParseID(id); err != nil {
		return 0, err
	}
	patch, err := json.Marshal(req.Fields())
	if err != nil {
		return 0, err
	}
	result, err := r.DB.ExecContext(ctx, `UPDATE overlays SET doc = doc || $1::jsonb WHERE id = $2`, string(patch), id)
	if err != nil {
		logger.Sugar.Errorf("Failed to update overlay %s: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (int64, error) {
	if _, err := model.ParseID(id); err != nil {
		return 0, err
	}
	result, err := r.DB.ExecContext(ctx, `DELETE FROM overlays WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete overlay %s: %v", id, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
