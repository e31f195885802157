package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type CreateCommentCommand struct {
	PostID   string
	AuthorID string
	Body     string
}

// CreateComment adds a comment to an active post.
func (s *Service) CreateComment(ctx context.Context, cmd CreateCommentCommand) (*domain.Comment, error) {
	postID, err := domain.ParsePostID(cmd.PostID)
	if err != nil {
		return nil, err
	}
	authorID, err := domain.ParseUserID(cmd.AuthorID)
	if err != nil {
		return nil, err
	}
	body, err := domain.NewCommentBody(cmd.Body)
	if err != nil {
		return nil, err
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := domain.NewComment(domain.NewCommentID(), postID, authorID, body, s.now())
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.log.Info("comment created",
		zap.String("comment_id", string(comment.ID())),
		zap.String("post_id", string(postID)),
	)
	return comment, nil
}

type UpdateCommentCommand struct {
	CommentID string
	EditorID  string
	Body      string
}

func (s *Service) UpdateComment(ctx context.Context, cmd UpdateCommentCommand) (*domain.Comment, error) {
	commentID, err := domain.ParseCommentID(cmd.CommentID)
	if err != nil {
		return nil, err
	}
	editorID, err := domain.ParseUserID(cmd.EditorID)
	if err != nil {
		return nil, err
	}
	body, err := domain.NewCommentBody(cmd.Body)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.FindForUpdate(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := comment.UpdateBody(editorID, body, s.now()); err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, rawCommentID, rawEditorID string) error {
	commentID, err := domain.ParseCommentID(rawCommentID)
	if err != nil {
		return err
	}
	editorID, err := domain.ParseUserID(rawEditorID)
	if err != nil {
		return err
	}

	comment, err := s.comments.FindForUpdate(ctx, commentID)
	if err != nil {
		return err
	}
	if err := comment.Delete(editorID, s.now()); err != nil {
		return err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ListComments returns the active comments of an active post, oldest first.
func (s *Service) ListComments(ctx context.Context, rawPostID string) ([]*domain.Comment, error) {
	postID, err := domain.ParsePostID(rawPostID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
