package contributions

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusInReview  Status = "in_review"
	StatusAnswered  Status = "answered"
	StatusArchived  Status = "archived"
)

type Contribution struct {
	ID          uuid.UUID `json:"id"`
	CommuneID   uuid.UUID `json:"commune_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	Tags        []string  `json:"tags"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type Filter struct {
	CommuneID uuid.UUID
	Status    Status
	Category  string
	Tag       string
	Since     time.Time
	Limit     int
}
