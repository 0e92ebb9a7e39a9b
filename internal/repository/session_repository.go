package repository

import (
	"context"
	"database/sql"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
)

// SessionRepo records login/logout events in the `sessions` table.  These
// rows are an audit trail only; nothing on the authorization path reads
// them.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Open inserts a session row for a successful login.
func (r *SessionRepo) Open(ctx context.Context, userID uint64, ip string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (user_id, login_time, ip_address) VALUES (?, UTC_TIMESTAMP(), ?)",
		userID, ip)
	return err
}

// CloseOpen stamps logout_time on the user's most recent open session.
// Logging out with no open session is a no-op, not an error.
func (r *SessionRepo) CloseOpen(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET logout_time = UTC_TIMESTAMP()
		 WHERE user_id = ? AND logout_time IS NULL
		 ORDER BY login_time DESC, id DESC LIMIT 1`,
		userID)
	return err
}

// ListAll returns every session newest-first for the admin audit view.
func (r *SessionRepo) ListAll(ctx context.Context) ([]*model.Session, error) {
	const q = `SELECT id, user_id, login_time, logout_time, ip_address
	           FROM sessions ORDER BY login_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s := new(model.Session)
		var logout sql.NullTime
		if err := rows.Scan(&s.ID, &s.UserID, &s.LoginTime, &logout, &s.IPAddress); err != nil {
			return nil, err
		}
		if logout.Valid {
			t := logout.Time
			s.LogoutTime = &t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
