package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
)

// TweetRepo encapsulates all database queries related to tweets.  The
// owner of a tweet is fixed at insert time; update and delete verify
// existence first and ownership second so the two failure modes cannot
// leak information about each other.
type TweetRepo struct{ db *sql.DB }

// NewTweetRepo constructs a TweetRepo with the provided DB handle.  This
// allows dependency injection of the database at startup and in tests.
func NewTweetRepo(db *sql.DB) *TweetRepo { return &TweetRepo{db: db} }

const tweetCols = "id, user_id, text, created_at, updated_at"

// Create inserts a new tweet.  The owner comes from the authenticated
// context upstream, never from client input.  On success the ID and the
// DB-assigned timestamps are populated on t.
func (r *TweetRepo) Create(ctx context.Context, t *model.Tweet) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tweets (user_id, text) VALUES (?, ?)", t.UserID, t.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	// Follow-up SELECT to populate the DB-assigned timestamps.
	return r.db.QueryRowContext(ctx,
		"SELECT "+tweetCols+" FROM tweets WHERE id = ?", t.ID).
		Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a tweet regardless of owner.  Returns ErrTweetNotFound
// when no row matches.
func (r *TweetRepo) GetByID(ctx context.Context, id uint64) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.QueryRowContext(ctx,
		"SELECT "+tweetCols+" FROM tweets WHERE id = ?", id).
		Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns the user's tweets newest-first.  Ties on created_at
// fall back to insertion order (higher id inserted later).
func (r *TweetRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Tweet, error) {
	const q = "SELECT " + tweetCols + ` FROM tweets
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tweet
	for rows.Next() {
		t := new(model.Tweet)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the text of a tweet owned by ownerID.  It runs in a
// transaction: first the row is located (ErrTweetNotFound), then the
// owner is compared (ErrForbidden), and only then is the row mutated.
// A failed check leaves the row untouched.
func (r *TweetRepo) Update(ctx context.Context, id, ownerID uint64, text string) (*model.Tweet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = checkOwner(ctx, tx, id, ownerID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE tweets SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		text, id); err != nil {
		return nil, err
	}
	var t model.Tweet
	if err = tx.QueryRowContext(ctx,
		"SELECT "+tweetCols+" FROM tweets WHERE id = ?", id).
		Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a tweet owned by ownerID with the same
// existence-then-ownership sequence as Update.
func (r *TweetRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = checkOwner(ctx, tx, id, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM tweets WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// checkOwner verifies existence before ownership.  Order matters: the
// caller must be able to rely on 404 taking precedence over 403.
func checkOwner(ctx context.Context, tx *sql.Tx, id, ownerID uint64) error {
	var dbOwner uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT user_id FROM tweets WHERE id = ?", id).Scan(&dbOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTweetNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	return nil
}
