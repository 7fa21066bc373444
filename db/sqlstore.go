// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/models"
)

// SQLStore keeps documents in SQLite or PostgreSQL tables
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQL opens a SQLite or PostgreSQL database and creates the schema
func OpenSQL(ctx context.Context, dbType, dsn string) (*SQLStore, error) {
	driver := "postgres"
	if dbType == cliparse.DatabaseSQLite {
		driver = "sqlite"
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}
	if driver == "sqlite" {
		// One connection keeps :memory: databases alive and serializes writers
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn), nil
}

// NewSQLStore wraps an open connection whose schema already exists
func NewSQLStore(conn *sql.DB) *SQLStore {
	return &SQLStore{db: conn}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM app_user
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *SQLStore) CreateForm(ctx context.Context, form models.Form) error {
	questions, err := encodeQuestions(form.Questions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (id, owner_id, title, description, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, form.ID, form.OwnerID, form.Title, form.Description, questions, form.CreatedAt.UTC(), form.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	return nil
}

func (s *SQLStore) GetForm(ctx context.Context, ownerID, formID string) (models.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, questions, created_at, updated_at
		FROM form
		WHERE id = $1 AND owner_id = $2
	`, formID, ownerID)

	form, err := scanForm(row)
	if err == sql.ErrNoRows {
		return models.Form{}, ErrNotFound
	}
	if err != nil {
		return models.Form{}, fmt.Errorf("failed to query form: %w", err)
	}
	return form, nil
}

func (s *SQLStore) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, questions, created_at, updated_at
		FROM form
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read forms: %w", err)
	}
	return forms, nil
}

func (s *SQLStore) UpdateForm(ctx context.Context, ownerID, formID string, upd models.FormUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Questions != nil {
		questions, err := encodeQuestions(*upd.Questions)
		if err != nil {
			return err
		}
		add("questions", questions)
	}
	add("updated_at", upd.UpdatedAt.UTC())

	args = append(args, formID, ownerID)
	query := fmt.Sprintf("UPDATE form SET %s WHERE id = $%d AND owner_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	return requireRow(res)
}

// DeleteForm removes the form with its responses and directory entry in one transaction
func (s *SQLStore) DeleteForm(ctx context.Context, ownerID, formID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM form WHERE id = $1 AND owner_id = $2`, formID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM form_response WHERE form_id = $1`, formID); err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM form_directory WHERE form_id = $1`, formID); err != nil {
		return fmt.Errorf("failed to delete directory entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) PutDirectoryEntry(ctx context.Context, entry models.DirectoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO form_directory (form_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (form_id) DO UPDATE SET user_id = EXCLUDED.user_id
	`, entry.FormID, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to upsert directory entry: %w", err)
	}
	return nil
}

func (s *SQLStore) GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error) {
	var entry models.DirectoryEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT form_id, user_id FROM form_directory WHERE form_id = $1
	`, formID).Scan(&entry.FormID, &entry.UserID)
	if err == sql.ErrNoRows {
		return models.DirectoryEntry{}, ErrNotFound
	}
	if err != nil {
		return models.DirectoryEntry{}, fmt.Errorf("failed to query directory: %w", err)
	}
	return entry, nil
}

func (s *SQLStore) AddResponse(ctx context.Context, ownerID string, resp models.Response) error {
	entries, err := json.Marshal(resp.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_response (id, form_id, owner_id, entries, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, resp.ID, resp.FormID, ownerID, string(entries), resp.SubmittedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (s *SQLStore) ListResponses(ctx context.Context, ownerID, formID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, entries, submitted_at
		FROM form_response
		WHERE owner_id = $1 AND form_id = $2
		ORDER BY submitted_at, id
	`, ownerID, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var resp models.Response
		var entries string
		if err := rows.Scan(&resp.ID, &resp.FormID, &entries, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if err := json.Unmarshal([]byte(entries), &resp.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode answers for response %s: %w", resp.ID, err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}
	return responses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (models.Form, error) {
	var form models.Form
	var questions string
	var createdAt, updatedAt time.Time
	err := row.Scan(&form.ID, &form.OwnerID, &form.Title, &form.Description, &questions, &createdAt, &updatedAt)
	if err != nil {
		return models.Form{}, err
	}
	if err := json.Unmarshal([]byte(questions), &form.Questions); err != nil {
		return models.Form{}, fmt.Errorf("failed to decode questions for form %s: %w", form.ID, err)
	}
	form.CreatedAt = createdAt.UTC()
	form.UpdatedAt = updatedAt.UTC()
	return form, nil
}

func encodeQuestions(questions []models.Question) (string, error) {
	if questions == nil {
		questions = []models.Question{}
	}
	b, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	return string(b), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch code := liteErr.Code(); code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		default:
			// Primary result code only when extended codes are off
			return code&0xff == sqlite3.SQLITE_CONSTRAINT &&
				strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
