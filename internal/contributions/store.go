package contributions

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"civicadmin/internal/auth"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// scopeClause restricts every query to the communes the caller may see.
// Municipal roles are pinned to their own commune; account managers reach
// contributions through their commune assignments; platform admins are
// unrestricted.
func scopeClause(user *auth.SessionUser, argIdx int) (string, []interface{}) {
	switch user.Role {
	case auth.RolePlatformAdmin:
		return "TRUE", nil
	case auth.RoleAccountManager:
		return "commune_id IN (SELECT id FROM communes WHERE account_manager_id = $" + itoa(argIdx) +
				" OR (created_by = $" + itoa(argIdx) + " AND NOT published))",
			[]interface{}{user.ID}
	case auth.RoleMunicipalManager, auth.RoleMunicipalEmployee:
		if user.CommuneID == nil {
			return "FALSE", nil
		}
		return "commune_id = $" + itoa(argIdx), []interface{}{*user.CommuneID}
	}
	return "FALSE", nil
}

func (s *Store) Insert(ctx context.Context, c *Contribution) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = StatusNew
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	const q = `
		INSERT INTO contributions (id, commune_id, title, body, category, status, tags, author_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, q, c.ID, c.CommuneID, c.Title, c.Body,
		c.Category, c.Status, pq.Array(c.Tags), c.AuthorEmail, c.CreatedAt)
	return err
}

func (s *Store) List(ctx context.Context, user *auth.SessionUser, f Filter) ([]Contribution, error) {
	scope, args := scopeClause(user, 1)
	clauses := []string{scope}
	idx := len(args) + 1

	if f.CommuneID != uuid.Nil {
		clauses = append(clauses, "commune_id = $"+itoa(idx))
		args = append(args, f.CommuneID)
		idx++
	}
	if f.Status != "" {
		clauses = append(clauses, "status = $"+itoa(idx))
		args = append(args, string(f.Status))
		idx++
	}
	if f.Category != "" {
		clauses = append(clauses, "category = $"+itoa(idx))
		args = append(args, f.Category)
		idx++
	}
	if f.Tag != "" {
		clauses = append(clauses, "$"+itoa(idx)+" = ANY(tags)")
		args = append(args, f.Tag)
		idx++
	}
	if !f.Since.IsZero() {
		clauses = append(clauses, "created_at >= $"+itoa(idx))
		args = append(args, f.Since)
		idx++
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	query := "SELECT id, commune_id, title, body, category, status, tags, author_email, created_at" +
		" FROM contributions WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY created_at DESC LIMIT " + itoa(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Contribution
	for rows.Next() {
		var c Contribution
		var tags pq.StringArray
		if err := rows.Scan(&c.ID, &c.CommuneID, &c.Title, &c.Body, &c.Category,
			&c.Status, &tags, &c.AuthorEmail, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Tags = []string(tags)
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) UpdateStatus(ctx context.Context, user *auth.SessionUser, id uuid.UUID, status Status) error {
	scope, scopeArgs := scopeClause(user, 3)
	query := "UPDATE contributions SET status = $1 WHERE id = $2 AND " + scope
	args := append([]interface{}{status, id}, scopeArgs...)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
