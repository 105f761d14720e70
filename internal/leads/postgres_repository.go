package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const leadColumns = `id, name, email, phone,
		COALESCE(company, ''), COALESCE(role, ''), COALESCE(purpose, ''),
		source, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
		consent_given, consent_timestamp, status, COALESCE(notes, ''),
		created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Company,
		&lead.Role,
		&lead.Purpose,
		&lead.Source,
		&lead.IPAddress,
		&lead.UserAgent,
		&lead.ConsentGiven,
		&lead.ConsentTimestamp,
		&lead.Status,
		&lead.Notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create inserts a new row with status "new"; created_at/updated_at are
// assigned server-side.
func (r *PostgresRepository) Create(ctx context.Context, params CreateLeadParams) (*Lead, error) {
	query := `
		INSERT INTO leads (
			id, name, email, phone, company, role, purpose, source,
			ip_address, user_agent, consent_given, consent_timestamp, status
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8,
			NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13
		)
		RETURNING created_at, updated_at
	`
	lead := &Lead{
		ID:               params.ID,
		Name:             params.Name,
		Email:            params.Email,
		Phone:            params.Phone,
		Company:          params.Company,
		Role:             params.Role,
		Purpose:          params.Purpose,
		Source:           params.Source,
		IPAddress:        params.IPAddress,
		UserAgent:        params.UserAgent,
		ConsentGiven:     params.ConsentGiven,
		ConsentTimestamp: &params.ConsentTimestamp,
		Status:           StatusNew,
	}
	if err := r.db.QueryRow(ctx, query,
		params.ID,
		params.Name,
		params.Email,
		params.Phone,
		params.Company,
		params.Role,
		params.Purpose,
		params.Source,
		params.IPAddress,
		params.UserAgent,
		params.ConsentGiven,
		params.ConsentTimestamp,
		StatusNew,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return lead, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// GetByEmail returns the most recent lead for an email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	lead, err := scanLead(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns one page of leads ordered by created_at descending,
// with the total count for pagination.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.Normalize()

	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Source != nil {
		args = append(args, *filter.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM leads` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("leads: count failed: %w", err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Skip)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT `+leadColumns+` FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	result := &ListResult{
		Leads: []*Lead{},
		Total: total,
		Page:  filter.Skip/filter.Limit + 1,
		Size:  filter.Limit,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		result.Leads = append(result.Leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return result, nil
}

// Update applies a partial update built from the non-nil fields. The SET
// list is assembled from fixed column names with positional parameters;
// user input never reaches the query text. An empty request is a no-op
// success and does not touch updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateLeadRequest) (bool, error) {
	if !req.HasChanges() {
		// Confirm the row exists so a no-op on a missing id still 404s.
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("leads: exists check failed: %w", err)
		}
		if !exists {
			return false, ErrNotFound
		}
		return false, nil
	}

	set := make([]string, 0, 9)
	args := make([]any, 0, 10)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Role != nil {
		add("role", *req.Role)
	}
	if req.Purpose != nil {
		add("purpose", *req.Purpose)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(set, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("leads: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// Delete hard-deletes a lead.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
