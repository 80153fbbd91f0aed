package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const userColumns = `id, username, email, theme_preference, onboarding_completed, created_at`

// UserUpdate carries the user fields a caller wants to change. Nil fields keep
// their stored value.
type UserUpdate struct {
	Username            *string
	Email               *string
	ThemePreference     *string
	OnboardingCompleted *bool
}

// CreateUser inserts a new user and fills in the generated ID and creation time.
func CreateUser(ctx context.Context, user *db.User) (*db.User, error) {
	if user.ThemePreference == "" {
		user.ThemePreference = "light"
	}

	query := `
		INSERT INTO users (username, email, theme_preference, onboarding_completed)
		VALUES (:username, :email, :theme_preference, :onboarding_completed)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQueryContext(ctx, query, user)
	if err != nil {
		log.Errorf("Error creating user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		log.Error("No rows returned after user creation.")
		return nil, fmt.Errorf("no rows returned after user creation")
	}
	if err := rows.StructScan(user); err != nil {
		log.Errorf("Error scanning user data after creation: %v", err)
		return nil, fmt.Errorf("error scanning user after creation: %w", err)
	}

	log.Infof("User %s created with ID: %d", user.Email, user.ID)
	return user, nil
}

// ListUsers returns every user, newest first.
func ListUsers(ctx context.Context) ([]db.User, error) {
	users := []db.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	if err := db.DB.SelectContext(ctx, &users, query); err != nil {
		log.Errorf("Error listing users: %v", err)
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// FindUserByID retrieves a user by ID. It returns nil, nil when no user matches.
func FindUserByID(ctx context.Context, id int64) (*db.User, error) {
	user := &db.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := db.DB.GetContext(ctx, user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("User with ID '%d' not found.", id)
			return nil, nil
		}
		log.Errorf("Error finding user by ID '%d': %v", id, err)
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of upd in one statement and returns the
// stored row. It returns sql.ErrNoRows when the user does not exist.
func UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*db.User, error) {
	user := &db.User{}
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    theme_preference = COALESCE($4, theme_preference),
		    onboarding_completed = COALESCE($5, onboarding_completed)
		WHERE id = $1
		RETURNING ` + userColumns

	err := db.DB.GetContext(ctx, user, query, id, upd.Username, upd.Email, upd.ThemePreference, upd.OnboardingCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warnf("No user found with ID '%d' for update.", id)
			return nil, sql.ErrNoRows
		}
		log.Errorf("Error updating user with ID '%d': %v", id, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Infof("User with ID '%d' updated.", id)
	return user, nil
}

// DeleteUser removes a user. It returns sql.ErrNoRows when nothing was deleted.
func DeleteUser(ctx context.Context, id int64) error {
	return deleteByID(ctx, "users", id)
}

// deleteByID runs a DELETE against one of the fixed resource tables.
func deleteByID(ctx context.Context, table string, id int64) error {
	query := `DELETE FROM ` + table + ` WHERE id = $1`
	result, err := db.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.Errorf("Error deleting from %s with ID '%d': %v", table, id, err)
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		log.Warnf("No row found in %s with ID '%d' for deletion.", table, id)
		return sql.ErrNoRows
	}

	log.Infof("Row with ID '%d' deleted from %s.", id, table)
	return nil
}
