package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tagit-app/tagit-go/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			tag TEXT NOT NULL,
			priority TEXT NOT NULL,
			description TEXT,
			address TEXT,
			pincode TEXT,
			latitude REAL,
			longitude REAL,
			media_name TEXT,
			media_data TEXT,
			submitter TEXT,
			authority_name TEXT NOT NULL,
			authority_type TEXT NOT NULL,
			authority_contact TEXT NOT NULL,
			server_message TEXT,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS profiles (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_tag ON reports(tag);
		CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.Report) error {
	var lat, lon sql.NullFloat64
	if r.Location != nil {
		lat = sql.NullFloat64{Float64: r.Location.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: r.Location.Lon, Valid: true}
	}

	var submitter sql.NullString
	if r.Submitter != nil {
		raw, err := json.Marshal(r.Submitter)
		if err != nil {
			return fmt.Errorf("error encoding submitter: %w", err)
		}
		submitter = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, tag, priority, description, address, pincode,
			latitude, longitude, media_name, media_data, submitter,
			authority_name, authority_type, authority_contact,
			server_message, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Tag, r.Priority, r.Description, r.Address, r.Pincode,
		lat, lon, r.MediaName, r.MediaData, submitter,
		r.Authority.Name, r.Authority.Type, r.Authority.Contact,
		r.ServerMessage, r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching report: %w", err)
	}
	return r, nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.Report, error) {
	query := selectColumns + ` FROM reports`
	var conds []string
	var args []any

	if len(opts.Tags) > 0 {
		placeholders := make([]string, len(opts.Tags))
		for i, t := range opts.Tags {
			placeholders[i] = "?"
			args = append(args, t)
		}
		conds = append(conds, fmt.Sprintf("tag IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, st := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, st)
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// Newest submission first, matching the prototype's unshift order.
	query += " ORDER BY seq DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *SQLiteDB) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("error updating status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting reports: %w", err)
	}
	return n, nil
}

// DeleteResolvedBefore evicts resolved reports older than the cutoff.
// Non-resolved reports are never deleted.
func (s *SQLiteDB) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reports WHERE status = ? AND created_at < ?`,
		models.StatusResolved, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting resolved reports: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) SaveProfile(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetProfile(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM profiles WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	return []byte(value), nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, tag, priority, description, address, pincode,
	latitude, longitude, media_name, media_data, submitter,
	authority_name, authority_type, authority_contact,
	server_message, status, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*models.Report, error) {
	var (
		r         models.Report
		lat, lon  sql.NullFloat64
		submitter sql.NullString
	)

	err := row.Scan(
		&r.ID, &r.Tag, &r.Priority, &r.Description, &r.Address, &r.Pincode,
		&lat, &lon, &r.MediaName, &r.MediaData, &submitter,
		&r.Authority.Name, &r.Authority.Type, &r.Authority.Contact,
		&r.ServerMessage, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		r.Location = &models.Location{Lat: lat.Float64, Lon: lon.Float64}
	}
	if submitter.Valid {
		var u models.UserProfile
		if err := json.Unmarshal([]byte(submitter.String), &u); err != nil {
			return nil, fmt.Errorf("error decoding submitter: %w", err)
		}
		r.Submitter = &u
	}

	return &r, nil
}
