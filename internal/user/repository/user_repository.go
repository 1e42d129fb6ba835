package repository

import (
	"context"
	"fmt"

	errprocess "country_chat_service/pkg/err"

	"github.com/jackc/pgx/v4/pgxpool"
)

// UserRepository definition read-only access to the externally owned user rows
type UserRepository interface {
	FindAllUserIDs(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

// FindAllUserIDs list every known user id
func (r *userRepository) FindAllUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT user_id FROM users")
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("query user ids err : %v", err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errprocess.Set(fmt.Sprintf("scan user id err : %v", err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("iterate user ids err : %v", err))
	}
	return ids, nil
}

// Exists check the user row is present
func (r *userRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)", userID).Scan(&exists); err != nil {
		return false, errprocess.Set(fmt.Sprintf("check user %s exists err : %v", userID, err))
	}
	return exists, nil
}
