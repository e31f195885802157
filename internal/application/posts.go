package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type CreatePostCommand struct {
	AuthorID string
	Title    string
	Body     string
}

func (s *Service) CreatePost(ctx context.Context, cmd CreatePostCommand) (*domain.Post, error) {
	authorID, err := domain.ParseUserID(cmd.AuthorID)
	if err != nil {
		return nil, err
	}
	content, err := domain.NewPostContent(cmd.Title, cmd.Body)
	if err != nil {
		return nil, err
	}

	post := domain.NewPost(domain.NewPostID(), authorID, content, s.now())
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.log.Info("post created",
		zap.String("post_id", string(post.ID())),
		zap.String("user_id", string(authorID)),
	)
	return post, nil
}

type UpdatePostCommand struct {
	PostID   string
	EditorID string
	Title    string
	Body     string
}

func (s *Service) UpdatePost(ctx context.Context, cmd UpdatePostCommand) (*domain.Post, error) {
	postID, err := domain.ParsePostID(cmd.PostID)
	if err != nil {
		return nil, err
	}
	editorID, err := domain.ParseUserID(cmd.EditorID)
	if err != nil {
		return nil, err
	}
	content, err := domain.NewPostContent(cmd.Title, cmd.Body)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindForUpdate(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := post.UpdateContent(editorID, content, s.now()); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	return post, nil
}

// DeletePost soft-deletes a post. Deleting twice fails with
// domain.ErrPostAlreadyDeleted.
func (s *Service) DeletePost(ctx context.Context, rawPostID, rawEditorID string) error {
	postID, err := domain.ParsePostID(rawPostID)
	if err != nil {
		return err
	}
	editorID, err := domain.ParseUserID(rawEditorID)
	if err != nil {
		return err
	}

	post, err := s.posts.FindForUpdate(ctx, postID)
	if err != nil {
		return err
	}
	if err := post.Delete(editorID, s.now()); err != nil {
		return err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.log.Info("post deleted", zap.String("post_id", string(postID)))
	return nil
}

func (s *Service) GetPostDetail(ctx context.Context, rawPostID string) (*domain.Post, error) {
	postID, err := domain.ParsePostID(rawPostID)
	if err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, postID)
}

func (s *Service) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}
