package communes

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"civicadmin/internal/auth"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrNotVisible = errors.New("commune not visible to principal")

const communeColumns = `id, name, slug, published, account_manager_id, created_by, created_at, updated_at`

// scopeClause translates the caller's role into the row filter every query
// carries. Passing the route gate is never enough on its own: an account
// manager sees communes assigned to them or their own unpublished drafts,
// municipal roles see exactly their affiliated commune, platform admins
// see everything.
func scopeClause(user *auth.SessionUser, argIdx int) (string, []interface{}) {
	switch user.Role {
	case auth.RolePlatformAdmin:
		return "TRUE", nil
	case auth.RoleAccountManager:
		return "(account_manager_id = $" + itoa(argIdx) +
				" OR (created_by = $" + itoa(argIdx) + " AND NOT published))",
			[]interface{}{user.ID}
	case auth.RoleMunicipalManager, auth.RoleMunicipalEmployee:
		if user.CommuneID == nil {
			return "FALSE", nil
		}
		return "id = $" + itoa(argIdx), []interface{}{*user.CommuneID}
	}
	return "FALSE", nil
}

type ListFilter struct {
	Published *bool
	Limit     int
}

func (s *Store) List(ctx context.Context, user *auth.SessionUser, f ListFilter) ([]Commune, error) {
	scope, args := scopeClause(user, 1)
	clauses := []string{scope}
	idx := len(args) + 1
	if f.Published != nil {
		clauses = append(clauses, "published = $"+itoa(idx))
		args = append(args, *f.Published)
		idx++
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := "SELECT " + communeColumns + " FROM communes WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY name ASC LIMIT " + itoa(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Commune
	for rows.Next() {
		var c Commune
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Published,
			&c.AccountManagerID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID returns ErrNotVisible both for absent rows and for rows outside
// the caller's scope; callers cannot tell the two apart.
func (s *Store) GetByID(ctx context.Context, user *auth.SessionUser, id uuid.UUID) (*Commune, error) {
	scope, args := scopeClause(user, 2)
	query := "SELECT " + communeColumns + " FROM communes WHERE id = $1 AND " + scope
	row := s.db.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...)
	var c Commune
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Published,
		&c.AccountManagerID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotVisible
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *Commune) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	const q = `
		INSERT INTO communes (id, name, slug, published, account_manager_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING created_at, updated_at
	`
	row := s.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Slug, c.Published,
		c.AccountManagerID, c.CreatedBy, time.Now().UTC())
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
