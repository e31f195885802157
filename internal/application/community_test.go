package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

func (h *harness) post(t *testing.T, author, title string) *domain.Post {
	t.Helper()
	post, err := h.svc.CreatePost(context.Background(), CreatePostCommand{AuthorID: author, Title: title, Body: "body of " + title})
	require.NoError(t, err)
	return post
}

func (h *harness) comment(t *testing.T, post *domain.Post, author, body string) *domain.Comment {
	t.Helper()
	c, err := h.svc.CreateComment(context.Background(), CreateCommentCommand{PostID: string(post.ID()), AuthorID: author, Body: body})
	require.NoError(t, err)
	return c
}

func TestPosts_ListNewestFirstWithoutDeleted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := newUserID()

	first := h.post(t, author, "first")
	second := h.post(t, author, "second")
	third := h.post(t, author, "third")

	require.NoError(t, h.svc.DeletePost(ctx, string(second.ID()), author))

	posts, err := h.svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, third.ID(), posts[0].ID())
	assert.Equal(t, first.ID(), posts[1].ID())

	_, err = h.svc.GetPostDetail(ctx, string(second.ID()))
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	got, err := h.svc.GetPostDetail(ctx, string(first.ID()))
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content().Title())
}

func TestUpdatePost_AuthorOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author, other := newUserID(), newUserID()
	post := h.post(t, author, "draft")

	updated, err := h.svc.UpdatePost(ctx, UpdatePostCommand{PostID: string(post.ID()), EditorID: author, Title: " final ", Body: "done"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content().Title())
	assert.True(t, updated.UpdatedAt().After(post.UpdatedAt()))

	_, err = h.svc.UpdatePost(ctx, UpdatePostCommand{PostID: string(post.ID()), EditorID: other, Title: "mine", Body: "now"})
	assert.ErrorIs(t, err, domain.ErrNotAuthor)

	stored, err := h.svc.GetPostDetail(ctx, string(post.ID()))
	require.NoError(t, err)
	assert.Equal(t, "final", stored.Content().Title())
}

// Missing is reported before ownership, ownership before deletion.
func TestPostMutations_ErrorOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author, other := newUserID(), newUserID()
	post := h.post(t, author, "doomed")
	require.NoError(t, h.svc.DeletePost(ctx, string(post.ID()), author))

	err := h.svc.DeletePost(ctx, string(domain.NewPostID()), other)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	err = h.svc.DeletePost(ctx, string(post.ID()), other)
	assert.ErrorIs(t, err, domain.ErrNotAuthor)

	err = h.svc.DeletePost(ctx, string(post.ID()), author)
	assert.ErrorIs(t, err, domain.ErrPostAlreadyDeleted)

	_, err = h.svc.UpdatePost(ctx, UpdatePostCommand{PostID: string(post.ID()), EditorID: author, Title: "back", Body: "again"})
	assert.ErrorIs(t, err, domain.ErrPostAlreadyDeleted)

	_, err = h.svc.UpdatePost(ctx, UpdatePostCommand{PostID: string(post.ID()), EditorID: author, Title: "", Body: "again"})
	assert.ErrorIs(t, err, domain.ErrValidation, "content is checked before the lookup")
}

func TestComments_Lifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author, commenter, other := newUserID(), newUserID(), newUserID()
	post := h.post(t, author, "topic")

	c1 := h.comment(t, post, commenter, "first!")
	c2 := h.comment(t, post, other, "second")

	updated, err := h.svc.UpdateComment(ctx, UpdateCommentCommand{CommentID: string(c1.ID()), EditorID: commenter, Body: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body().String())

	_, err = h.svc.UpdateComment(ctx, UpdateCommentCommand{CommentID: string(c1.ID()), EditorID: other, Body: "hijack"})
	assert.ErrorIs(t, err, domain.ErrNotAuthor)

	require.NoError(t, h.svc.DeleteComment(ctx, string(c2.ID()), other))
	assert.ErrorIs(t, h.svc.DeleteComment(ctx, string(c2.ID()), other), domain.ErrCommentAlreadyDeleted)
	assert.ErrorIs(t, h.svc.DeleteComment(ctx, string(c2.ID()), commenter), domain.ErrNotAuthor)
	assert.ErrorIs(t, h.svc.DeleteComment(ctx, string(domain.NewCommentID()), other), domain.ErrCommentNotFound)

	comments, err := h.svc.ListComments(ctx, string(post.ID()))
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c1.ID(), comments[0].ID())
	assert.Equal(t, "edited", comments[0].Body().String())
}

func TestComments_FindByIDExcludesDeleted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := newUserID()
	post := h.post(t, author, "topic")
	c := h.comment(t, post, author, "soon gone")

	found, err := h.store.Comments().FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), found.ID())

	require.NoError(t, h.svc.DeleteComment(ctx, string(c.ID()), author))

	_, err = h.store.Comments().FindByID(ctx, c.ID())
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	deleted, err := h.store.Comments().FindForUpdate(ctx, c.ID())
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())
}

func TestComments_RequireActivePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := newUserID()
	post := h.post(t, author, "short lived")
	require.NoError(t, h.svc.DeletePost(ctx, string(post.ID()), author))

	_, err := h.svc.CreateComment(ctx, CreateCommentCommand{PostID: string(post.ID()), AuthorID: author, Body: "late"})
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	_, err = h.svc.ListComments(ctx, string(post.ID()))
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	_, err = h.svc.CreateComment(ctx, CreateCommentCommand{PostID: string(post.ID()), AuthorID: author, Body: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
