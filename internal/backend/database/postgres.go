package database

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewPostgresDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, err
	}

	return &PostgresDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (p *PostgresDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		tag TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
		seq BIGSERIAL
	)`)
	if err != nil {
		return nil, err
	}
	_, err = p.db.Exec(`CREATE INDEX IF NOT EXISTS idx_images_tag ON images (tag)`)
	if err != nil {
		return nil, err
	}

	return p.db, nil
}

func (p *PostgresDatabase) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return p.db.PingContext(ctx) == nil
}

func (p *PostgresDatabase) CreateImage(ctx context.Context, id string, tag string) error {
	_, err := p.db.ExecContext(ctx, "INSERT INTO images (id, tag) VALUES ($1, $2)", id, tag)
	return err
}

func (p *PostgresDatabase) GetAllImages(ctx context.Context) ([]*Image, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id, tag, created_at FROM images ORDER BY created_at DESC, seq DESC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	images := []*Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.Tag, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (p *PostgresDatabase) GetRandomImageByTag(ctx context.Context, tag string) (*Image, error) {
	row := p.db.QueryRowContext(ctx, "SELECT id, tag, created_at FROM images WHERE tag = $1 ORDER BY random() LIMIT 1", tag)
	return scanPostgresImage(row)
}

func scanPostgresImage(row rowScanner) (*Image, error) {
	var img Image
	if err := row.Scan(&img.ID, &img.Tag, &img.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}
