package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// BcryptCost is deliberately above the library default; login latency is
// the price of offline brute-force resistance.
const BcryptCost = 12

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrPrincipalNotFound = errors.New("principal not found")

const principalColumns = `id, email, password_hash, role, commune_id, first_name, last_name, last_login_at, created_at`

func scanPrincipal(row *sql.Row) (*Principal, error) {
	p := &Principal{}
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.CommuneID,
		&p.FirstName, &p.LastName, &p.LastLoginAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Principal, error) {
	const q = `SELECT ` + principalColumns + ` FROM principals WHERE email = $1`
	return scanPrincipal(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Principal, error) {
	const q = `SELECT ` + principalColumns + ` FROM principals WHERE id = $1`
	return scanPrincipal(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) Create(ctx context.Context, email, password string, role Role, communeID *uuid.UUID) (*Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO principals (id, email, password_hash, role, commune_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + principalColumns
	return scanPrincipal(s.db.QueryRowContext(ctx, q,
		uuid.New(), email, string(hash), role, communeID, time.Now().UTC()))
}

func (s *Store) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const q = `UPDATE principals SET last_login_at = $2 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPrincipalNotFound
	}
	return nil
}

// InsertLoginEvent appends to the audit log. Rows are never updated or
// deleted.
func (s *Store) InsertLoginEvent(ctx context.Context, ev *LoginEvent) error {
	const q = `
		INSERT INTO login_events (id, principal_id, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, q, ev.ID, ev.PrincipalID, ev.IP, ev.UserAgent, ev.CreatedAt)
	return err
}

type seedFile struct {
	Principals []struct {
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		Role      Role   `yaml:"role"`
		CommuneID string `yaml:"commune_id"`
	} `yaml:"principals"`
}

// SeedFromFile provisions bootstrap principals. Existing emails are left
// untouched, so re-running on startup is safe.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return err
	}
	for _, entry := range sf.Principals {
		if entry.Email == "" || entry.Password == "" || !entry.Role.Valid() {
			continue
		}
		if _, err := s.GetByEmail(ctx, entry.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrPrincipalNotFound) {
			return err
		}
		var communeID *uuid.UUID
		if entry.CommuneID != "" {
			id, err := uuid.Parse(entry.CommuneID)
			if err != nil {
				return err
			}
			communeID = &id
		}
		if _, err := s.Create(ctx, entry.Email, entry.Password, entry.Role, communeID); err != nil {
			return err
		}
	}
	return nil
}
