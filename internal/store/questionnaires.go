// internal/store/questionnaires.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
)

// QuestionnaireRecord is a stored questionnaire document and the user's age
// on file. Age is nil when the user has not provided one.
type QuestionnaireRecord struct {
	Document json.RawMessage `json:"data"`
	Age      *int            `json:"age"`
}

func (s *Store) LoadQuestionnaire(ctx context.Context, userID string) (*QuestionnaireRecord, error) {
	key := questionnaireKey(userID)
	var rec QuestionnaireRecord
	if s.cached(ctx, "questionnaire", key, &rec) {
		return &rec, nil
	}

	var (
		doc []byte
		age sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT q.data, u.age
		   FROM questionnaires q
		   LEFT JOIN users u ON u.id = q.user_id
		  WHERE q.user_id = $1`,
		userID,
	).Scan(&doc, &age)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query questionnaire: %w", err)
	}

	rec = QuestionnaireRecord{Document: doc}
	if age.Valid {
		a := int(age.Int64)
		rec.Age = &a
	}
	s.remember(ctx, key, rec)
	return &rec, nil
}

// Contact is how a user can be reached.
type Contact struct {
	Email string
	Phone string
}

func (s *Store) LoadContact(ctx context.Context, userID string) (*Contact, error) {
	var c Contact
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(email, ''), COALESCE(phone, '') FROM users WHERE id = $1`,
		userID,
	).Scan(&c.Email, &c.Phone)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query contact: %w", err)
	}
	return &c, nil
}
