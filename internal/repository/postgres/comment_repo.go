package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/tx"
)

type CommentRepo struct {
	DB *sql.DB
	Tx tx.Transactor
}

const commentColumns = `id, post_id, author_id, body, created_at, updated_at, deleted_at`

func scanComment(scan func(dest ...any) error) (*domain.Comment, error) {
	var (
		id, postID, authorID, body string
		createdAt, updatedAt       time.Time
		deletedAt                  sql.NullTime
	)
	if err := scan(&id, &postID, &authorID, &body, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	return domain.RestoreComment(
		domain.CommentID(id),
		domain.PostID(postID),
		domain.UserID(authorID),
		domain.RestoreCommentBody(body),
		createdAt,
		updatedAt,
		timePtr(deletedAt),
	), nil
}

func (r *CommentRepo) FindByID(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	return r.find(ctx, id, false)
}

func (r *CommentRepo) FindForUpdate(ctx context.Context, id domain.CommentID) (*domain.Comment, error) {
	return r.find(ctx, id, true)
}

func (r *CommentRepo) find(ctx context.Context, id domain.CommentID, includeDeleted bool) (*domain.Comment, error) {
	defer observe("comment_find")()

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	c, err := scanComment(r.DB.QueryRowContext(ctx, query, string(id)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CommentRepo) FindByPostID(ctx context.Context, postID domain.PostID) ([]*domain.Comment, error) {
	defer observe("comment_list")()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id
	`, string(postID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Save upserts the comment. Only the first insert emits COMMENT_CREATED.
func (r *CommentRepo) Save(ctx context.Context, c *domain.Comment) error {
	defer observe("comment_save")()

	return r.Tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var inserted bool
		err := tx.QueryRowContext(ctx, `
			INSERT INTO comments (`+commentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET body = EXCLUDED.body,
			    updated_at = EXCLUDED.updated_at,
			    deleted_at = EXCLUDED.deleted_at
			WHERE comments.deleted_at IS NULL
			RETURNING (xmax = 0)
		`,
			string(c.ID()),
			string(c.PostID()),
			string(c.AuthorID()),
			c.Body().String(),
			c.CreatedAt(),
			c.UpdatedAt(),
			nullTime(c.DeletedAt()),
		).Scan(&inserted)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrCommentAlreadyDeleted
			}
			return fmt.Errorf("failed to save comment: %w", err)
		}

		if !inserted {
			return nil
		}
		ev, err := events.NewCommentCreated(c)
		if err != nil {
			return err
		}
		return insertOutbox(ctx, tx, ev)
	})
}
