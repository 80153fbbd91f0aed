package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const iconColumns = `id, user_id, icon_name, icon_class, color, size, style, created_at`

// IconUpdate carries the icon fields to change; nil fields are left untouched.
type IconUpdate struct {
	IconName  *string
	IconClass *string
	Color     *string
	Size      *string
	Style     *string
}

// CreateIcon saves a customized icon. Empty color, size and style fall back to
// "#000000", "medium" and "solid".
func CreateIcon(ctx context.Context, icon *db.Icon) (*db.Icon, error) {
	if icon.Color == "" {
		icon.Color = "#000000"
	}
	if icon.Size == "" {
		icon.Size = "medium"
	}
	if icon.Style == "" {
		icon.Style = "solid"
	}

	query := `
		INSERT INTO icons (user_id, icon_name, icon_class, color, size, style)
		VALUES (:user_id, :icon_name, :icon_class, :color, :size, :style)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQueryContext(ctx, query, icon)
	if err != nil {
		log.Errorf("Error creating icon: %v", err)
		return nil, fmt.Errorf("failed to create icon: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		log.Error("No rows returned after icon creation.")
		return nil, fmt.Errorf("no rows returned after icon creation")
	}
	if err := rows.StructScan(icon); err != nil {
		log.Errorf("Error scanning icon data after creation: %v", err)
		return nil, fmt.Errorf("error scanning icon after creation: %w", err)
	}

	log.Infof("Icon '%s' created for user ID: %d (ID: %d)", icon.IconName, icon.UserID, icon.ID)
	return icon, nil
}

// FindIconByID returns nil, nil when the icon does not exist.
func FindIconByID(ctx context.Context, id int64) (*db.Icon, error) {
	icon := &db.Icon{}
	query := `SELECT ` + iconColumns + ` FROM icons WHERE id = $1`
	if err := db.DB.GetContext(ctx, icon, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Icon with ID '%d' not found.", id)
			return nil, nil
		}
		log.Errorf("Error finding icon by ID '%d': %v", id, err)
		return nil, fmt.Errorf("error finding icon by ID: %w", err)
	}
	return icon, nil
}

// FindIconsByUserID lists a user's icons, newest first.
func FindIconsByUserID(ctx context.Context, userID int64) ([]db.Icon, error) {
	icons := []db.Icon{}
	query := `SELECT ` + iconColumns + ` FROM icons WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := db.DB.SelectContext(ctx, &icons, query, userID); err != nil {
		log.Errorf("Error finding icons for user ID '%d': %v", userID, err)
		return nil, fmt.Errorf("error finding icons by user ID: %w", err)
	}
	return icons, nil
}

// UpdateIcon returns sql.ErrNoRows when the icon does not exist.
func UpdateIcon(ctx context.Context, id int64, upd IconUpdate) (*db.Icon, error) {
	icon := &db.Icon{}
	query := `
		UPDATE icons
		SET icon_name = COALESCE($2, icon_name),
		    icon_class = COALESCE($3, icon_class),
		    color = COALESCE($4, color),
		    size = COALESCE($5, size),
		    style = COALESCE($6, style)
		WHERE id = $1
		RETURNING ` + iconColumns

	err := db.DB.GetContext(ctx, icon, query, id, upd.IconName, upd.IconClass, upd.Color, upd.Size, upd.Style)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warnf("No icon found with ID '%d' for update.", id)
			return nil, sql.ErrNoRows
		}
		log.Errorf("Error updating icon with ID '%d': %v", id, err)
		return nil, fmt.Errorf("failed to update icon: %w", err)
	}

	log.Infof("Icon with ID '%d' updated.", id)
	return icon, nil
}

// DeleteIcon returns sql.ErrNoRows when nothing was deleted.
func DeleteIcon(ctx context.Context, id int64) error {
	return deleteByID(ctx, "icons", id)
}
