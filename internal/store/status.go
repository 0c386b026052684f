package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusCheck is a liveness ping recorded by a client.
type StatusCheck struct {
	ID         string    `json:"id" db:"id"`
	ClientName string    `json:"client_name" db:"client_name"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}

type StatusRepo struct {
	db *DB
}

func NewStatusRepo(db *DB) *StatusRepo {
	return &StatusRepo{db: db}
}

func (r *StatusRepo) Create(clientName string) (*StatusCheck, error) {
	check := &StatusCheck{
		ID:         uuid.New().String(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
	_, err := r.db.Exec(`
		INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)
	`, check.ID, check.ClientName, check.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to create status check: %w", err)
	}
	return check, nil
}

func (r *StatusRepo) List(limit int) ([]StatusCheck, error) {
	if limit <= 0 {
		limit = 1000
	}
	var checks []StatusCheck
	if err := r.db.Select(&checks, `SELECT * FROM status_checks ORDER BY timestamp LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}
	return checks, nil
}
