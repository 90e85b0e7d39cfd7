package cockroach

import (
	"context"
	"fmt"

	"github.com/chatlinehq/chatline/id"
	"github.com/chatlinehq/chatline/types"
	"github.com/jackc/pgx/v5"
)

// CreateMedia records an uploaded binary that is not attached to any
// message yet. Attaching happens at message creation.
func (c *Cockroach) CreateMedia(ctx context.Context, userID string, mediaType types.MediaType, mediaURL string) (types.Media, error) {
	var out types.Media

	const q = `
		INSERT INTO media (id, type, url, user_id)
		VALUES (@media_id, @type, @url, @user_id)
		RETURNING media.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"media_id": id.Generate(),
		"type":     mediaType,
		"url":      mediaURL,
		"user_id":  userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert media: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Media])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted media: %w", err)
	}

	return out, nil
}
