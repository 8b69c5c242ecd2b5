package communes

import (
	"time"

	"github.com/google/uuid"
)

type Commune struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Published        bool      `json:"published"`
	AccountManagerID uuid.UUID `json:"account_manager_id"`
	CreatedBy        uuid.UUID `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
