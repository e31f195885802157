package domain

import "time"

type Comment struct {
	id        CommentID
	postID    PostID
	authorID  UserID
	body      CommentBody
	createdAt time.Time
	updatedAt time.Time
	state     State
}

func NewComment(id CommentID, postID PostID, authorID UserID, body CommentBody, now time.Time) *Comment {
	return &Comment{
		id:        id,
		postID:    postID,
		authorID:  authorID,
		body:      body,
		createdAt: now,
		updatedAt: now,
		state:     Active{},
	}
}

func RestoreComment(id CommentID, postID PostID, authorID UserID, body CommentBody, createdAt, updatedAt time.Time, deletedAt *time.Time) *Comment {
	return &Comment{
		id:        id,
		postID:    postID,
		authorID:  authorID,
		body:      body,
		createdAt: createdAt,
		updatedAt: updatedAt,
		state:     restoreState(deletedAt),
	}
}

func (c *Comment) ID() CommentID         { return c.id }
func (c *Comment) EntityID() string      { return string(c.id) }
func (c *Comment) PostID() PostID        { return c.postID }
func (c *Comment) AuthorID() UserID      { return c.authorID }
func (c *Comment) Body() CommentBody     { return c.body }
func (c *Comment) CreatedAt() time.Time  { return c.createdAt }
func (c *Comment) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Comment) State() State          { return c.state }
func (c *Comment) DeletedAt() *time.Time { return deletedAt(c.state) }

func (c *Comment) IsDeleted() bool {
	_, ok := c.state.(Deleted)
	return ok
}

func (c *Comment) UpdateBody(editor UserID, body CommentBody, now time.Time) error {
	if err := c.guard(editor); err != nil {
		return err
	}
	c.body = body
	c.updatedAt = now
	return nil
}

func (c *Comment) Delete(editor UserID, now time.Time) error {
	if err := c.guard(editor); err != nil {
		return err
	}
	c.state = Deleted{At: now}
	c.updatedAt = now
	return nil
}

func (c *Comment) guard(editor UserID) error {
	if editor.Canonical() != c.authorID.Canonical() {
		return ErrNotAuthor
	}
	if c.IsDeleted() {
		return ErrCommentAlreadyDeleted
	}
	return nil
}
