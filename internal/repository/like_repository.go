package repository

import (
	"context"
	"database/sql"
)

// LikeRepo manages the (user, location) like pairs.  The table carries a
// unique key over the pair, so duplicate likes surface as ErrAlreadyLiked.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Create records that the user liked the location.
func (r *LikeRepo) Create(ctx context.Context, userID, locationID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO likes (user_id, location_id) VALUES (?,?)", userID, locationID)
	if isDuplicate(err) {
		return ErrAlreadyLiked
	}
	return err
}

// Delete removes the like, reporting ErrLikeNotFound when it never existed.
func (r *LikeRepo) Delete(ctx context.Context, userID, locationID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM likes WHERE user_id=? AND location_id=?", userID, locationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// Exists reports whether the user has liked the location.
func (r *LikeRepo) Exists(ctx context.Context, userID, locationID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM likes WHERE user_id=? AND location_id=? LIMIT 1",
		userID, locationID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
