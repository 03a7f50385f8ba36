package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

var ErrFriendNotFound = errors.New("friend not found")

const friendColumns = `id, user_id, name, city, birthday, notes, created_at`

// FriendRepository abstracts friend persistence.
type FriendRepository interface {
	CreateFriend(ctx context.Context, f models.Friend) (models.Friend, error)
	GetFriend(ctx context.Context, friendID int) (models.Friend, error)
	ListFriends(ctx context.Context, userID int) ([]models.Friend, error)
	UpdateFriend(ctx context.Context, f models.Friend) (models.Friend, error)
	DeleteFriend(ctx context.Context, friendID int) error
	ListFriendsWithBirthday(ctx context.Context, monthDay string) ([]models.Friend, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// CreateFriend stores a new friend.
func (r *FriendRepo) CreateFriend(ctx context.Context, f models.Friend) (models.Friend, error) {
	var created models.Friend
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friends (user_id, name, city, birthday, notes)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+friendColumns,
		f.UserID, f.Name, f.City, f.Birthday, f.Notes).
		StructScan(&created)
	return created, err
}

// GetFriend fetches a friend by id.
func (r *FriendRepo) GetFriend(ctx context.Context, friendID int) (models.Friend, error) {
	var f models.Friend
	err := r.db.GetContext(ctx, &f, `SELECT `+friendColumns+` FROM friends WHERE id=$1`, friendID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friend{}, ErrFriendNotFound
	}
	return f, err
}

// ListFriends returns the user's friends, alphabetically.
func (r *FriendRepo) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.SelectContext(ctx, &friends, `SELECT `+friendColumns+` FROM friends WHERE user_id=$1 ORDER BY name ASC, id ASC`, userID)
	return friends, err
}

// UpdateFriend rewrites the friend's editable fields.
func (r *FriendRepo) UpdateFriend(ctx context.Context, f models.Friend) (models.Friend, error) {
	var updated models.Friend
	err := r.db.QueryRowxContext(ctx, `UPDATE friends SET name=$2, city=$3, birthday=$4, notes=$5
        WHERE id=$1 RETURNING `+friendColumns,
		f.ID, f.Name, f.City, f.Birthday, f.Notes).
		StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friend{}, ErrFriendNotFound
	}
	return updated, err
}

// DeleteFriend removes a friend; their meetings cascade away with them.
func (r *FriendRepo) DeleteFriend(ctx context.Context, friendID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friends WHERE id=$1`, friendID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFriendNotFound
	}
	return nil
}

// ListFriendsWithBirthday returns friends whose birthday falls on the given
// month-day ("06-15"), across users. Used by the reminder sweep.
func (r *FriendRepo) ListFriendsWithBirthday(ctx context.Context, monthDay string) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.SelectContext(ctx, &friends, `SELECT `+friendColumns+` FROM friends
        WHERE birthday IS NOT NULL AND birthday LIKE '%-' || $1 ORDER BY id ASC`, monthDay)
	return friends, err
}
