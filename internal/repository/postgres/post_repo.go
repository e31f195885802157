package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type PostRepo struct {
	DB *sql.DB
}

const postColumns = `id, author_id, title, body, created_at, updated_at, deleted_at`

func scanPost(scan func(dest ...any) error) (*domain.Post, error) {
	var (
		id, authorID, title, body string
		createdAt, updatedAt      time.Time
		deletedAt                 sql.NullTime
	)
	if err := scan(&id, &authorID, &title, &body, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	return domain.RestorePost(
		domain.PostID(id),
		domain.UserID(authorID),
		domain.RestorePostContent(title, body),
		createdAt,
		updatedAt,
		timePtr(deletedAt),
	), nil
}

func (r *PostRepo) FindByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	return r.find(ctx, id, false)
}

func (r *PostRepo) FindForUpdate(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	return r.find(ctx, id, true)
}

func (r *PostRepo) find(ctx context.Context, id domain.PostID, includeDeleted bool) (*domain.Post, error) {
	defer observe("post_find")()

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	post, err := scanPost(r.DB.QueryRowContext(ctx, query, string(id)).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepo) FindAll(ctx context.Context) ([]*domain.Post, error) {
	defer observe("post_list")()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Save upserts the post. A row that is already soft-deleted is never
// rewritten; that case reports domain.ErrPostAlreadyDeleted.
func (r *PostRepo) Save(ctx context.Context, post *domain.Post) error {
	defer observe("post_save")()

	content := post.Content()
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    body = EXCLUDED.body,
		    updated_at = EXCLUDED.updated_at,
		    deleted_at = EXCLUDED.deleted_at
		WHERE posts.deleted_at IS NULL
	`,
		string(post.ID()),
		string(post.AuthorID()),
		content.Title(),
		content.Body(),
		post.CreatedAt(),
		post.UpdatedAt(),
		nullTime(post.DeletedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPostAlreadyDeleted
	}
	return nil
}
