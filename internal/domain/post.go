package domain

import "time"

type Post struct {
	id        PostID
	authorID  UserID
	content   PostContent
	createdAt time.Time
	updatedAt time.Time
	state     State
}

func NewPost(id PostID, authorID UserID, content PostContent, now time.Time) *Post {
	return &Post{
		id:        id,
		authorID:  authorID,
		content:   content,
		createdAt: now,
		updatedAt: now,
		state:     Active{},
	}
}

// RestorePost rebuilds a post from storage. A nil deletedAt means active.
func RestorePost(id PostID, authorID UserID, content PostContent, createdAt, updatedAt time.Time, deletedAt *time.Time) *Post {
	return &Post{
		id:        id,
		authorID:  authorID,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
		state:     restoreState(deletedAt),
	}
}

func (p *Post) ID() PostID            { return p.id }
func (p *Post) EntityID() string      { return string(p.id) }
func (p *Post) AuthorID() UserID      { return p.authorID }
func (p *Post) Content() PostContent  { return p.content }
func (p *Post) CreatedAt() time.Time  { return p.createdAt }
func (p *Post) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Post) State() State          { return p.state }
func (p *Post) DeletedAt() *time.Time { return deletedAt(p.state) }

func (p *Post) IsDeleted() bool {
	_, ok := p.state.(Deleted)
	return ok
}

// UpdateContent replaces title and body. Only the author may edit, and
// only while the post is active.
func (p *Post) UpdateContent(editor UserID, content PostContent, now time.Time) error {
	if err := p.guard(editor); err != nil {
		return err
	}
	p.content = content
	p.updatedAt = now
	return nil
}

// Delete soft-deletes the post. Deleting twice fails.
func (p *Post) Delete(editor UserID, now time.Time) error {
	if err := p.guard(editor); err != nil {
		return err
	}
	p.state = Deleted{At: now}
	p.updatedAt = now
	return nil
}

func (p *Post) guard(editor UserID) error {
	if editor.Canonical() != p.authorID.Canonical() {
		return ErrNotAuthor
	}
	if p.IsDeleted() {
		return ErrPostAlreadyDeleted
	}
	return nil
}
