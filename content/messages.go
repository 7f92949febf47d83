package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atlasgroupe/siteserv/contact"
)

// SaveMessage archives a contact submission before delivery is attempted.
func (s *Store) SaveMessage(ctx context.Context, m contact.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, first_name, last_name, company_name, email, phone_number, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.FirstName, m.LastName, m.CompanyName, m.Email, m.PhoneNumber, m.Message, m.ReceivedAt.Unix())
	if err != nil {
		return fmt.Errorf("archiving message %s: %w", m.ID, err)
	}
	return nil
}

// MarkMessageSent records the delivery time for an archived submission.
func (s *Store) MarkMessageSent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE messages SET sent_at = ? WHERE id = ?", time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("marking message %s sent: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return nil
}

// UnsentMessages lists archived submissions that never left the relay,
// oldest first.
func (s *Store) UnsentMessages(ctx context.Context) ([]contact.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, company_name, email, phone_number, body, created_at
		FROM messages WHERE sent_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contact.Message
	for rows.Next() {
		var m contact.Message
		var company sql.NullString
		var created int64
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &company, &m.Email, &m.PhoneNumber, &m.Message, &created); err != nil {
			return nil, err
		}
		m.CompanyName = company.String
		m.ReceivedAt = time.Unix(created, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}
