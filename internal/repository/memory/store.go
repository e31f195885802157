// Package memory is an in-process implementation of the repository ports
// with the same uniqueness, upsert and outbox semantics as the Postgres one.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/outbox"
)

type receiptKey struct {
	conv domain.ConversationID
	user domain.UserID
}

type Store struct {
	mu            sync.RWMutex
	users         map[domain.UserID]domain.User
	conversations map[domain.ConversationID]*domain.Conversation
	pairs         map[string]domain.ConversationID
	messages      map[domain.ConversationID][]*domain.Message
	receipts      map[receiptKey]domain.ReadPosition
	posts         map[domain.PostID]domain.Post
	comments      map[domain.CommentID]domain.Comment

	batchMu  sync.Mutex
	outboxMu sync.Mutex
	nextID   int64
	pending  []outbox.Record
	dlq      []outbox.Record
}

func NewStore() *Store {
	return &Store{
		users:         map[domain.UserID]domain.User{},
		conversations: map[domain.ConversationID]*domain.Conversation{},
		pairs:         map[string]domain.ConversationID{},
		messages:      map[domain.ConversationID][]*domain.Message{},
		receipts:      map[receiptKey]domain.ReadPosition{},
		posts:         map[domain.PostID]domain.Post{},
		comments:      map[domain.CommentID]domain.Comment{},
	}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Conversations() *ConversationRepo { return &ConversationRepo{s} }
func (s *Store) Messages() *MessageRepo           { return &MessageRepo{s} }
func (s *Store) ReadReceipts() *ReadReceiptRepo   { return &ReadReceiptRepo{s} }
func (s *Store) Posts() *PostRepo                 { return &PostRepo{s} }
func (s *Store) Comments() *CommentRepo           { return &CommentRepo{s} }

// enqueue appends an outbox record. Callers hold s.mu so records are ordered
// like the writes that produced them.
func (s *Store) enqueue(ev events.Event) {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()
	s.nextID++
	s.pending = append(s.pending, outbox.Record{
		ID:        s.nextID,
		Topic:     ev.Topic,
		EventType: ev.Type,
		Payload:   ev.Payload,
		CreatedAt: time.Now().UTC(),
	})
}

type UserRepo struct{ s *Store }

func (r *UserRepo) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) Save(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID()] = *user
	return nil
}

type ConversationRepo struct{ s *Store }

func (r *ConversationRepo) FindByID(_ context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return c, nil
}

func (r *ConversationRepo) FindByMembers(_ context.Context, a, b domain.UserID) (*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.pairs[domain.PairKey(a, b)]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return r.s.conversations[id], nil
}

func (r *ConversationRepo) FindAllByUserID(_ context.Context, userID domain.UserID) ([]*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Conversation
	for _, c := range r.s.conversations {
		if c.IsMember(userID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *ConversationRepo) Save(_ context.Context, conv *domain.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := conv.PairKey()
	if _, taken := r.s.pairs[key]; taken {
		return domain.ErrConversationExists
	}
	if _, taken := r.s.conversations[conv.ID()]; taken {
		return domain.ErrConversationExists
	}
	// Conversations are immutable after creation, so the pointer is shared.
	r.s.conversations[conv.ID()] = conv
	r.s.pairs[key] = conv.ID()
	return nil
}

type MessageRepo struct{ s *Store }

func (r *MessageRepo) FindByConversationID(_ context.Context, id domain.ConversationID) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]*domain.Message(nil), r.s.messages[id]...), nil
}

func (r *MessageRepo) FindLatestByConversationID(_ context.Context, id domain.ConversationID) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msgs := r.s.messages[id]
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs[len(msgs)-1], nil
}

func (r *MessageRepo) Save(_ context.Context, msg *domain.Message) error {
	ev, err := events.NewMessageSent(msg)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msgs := append(r.s.messages[msg.ConversationID()], msg)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt().Before(msgs[j].CreatedAt())
	})
	r.s.messages[msg.ConversationID()] = msgs
	r.s.enqueue(ev)
	return nil
}

type ReadReceiptRepo struct{ s *Store }

func (r *ReadReceiptRepo) FindByConversationAndUser(_ context.Context, convID domain.ConversationID, userID domain.UserID) (*domain.ReadPosition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pos, ok := r.s.receipts[receiptKey{convID, userID.Canonical()}]
	if !ok {
		return nil, domain.ErrReadPositionNotFound
	}
	return &pos, nil
}

func (r *ReadReceiptRepo) FindAllByConversationID(_ context.Context, convID domain.ConversationID) ([]domain.ReadPosition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ReadPosition
	for k, pos := range r.s.receipts {
		if k.conv == convID {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID() < out[j].UserID() })
	return out, nil
}

func (r *ReadReceiptRepo) Upsert(_ context.Context, pos domain.ReadPosition) (domain.ReadPosition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := receiptKey{pos.ConversationID(), pos.UserID()}
	if existing, ok := r.s.receipts[key]; ok {
		pos = existing.Advance(pos.LastReadAt())
	}
	ev, err := events.NewReadPositionChanged(pos)
	if err != nil {
		return domain.ReadPosition{}, err
	}
	r.s.receipts[key] = pos
	r.s.enqueue(ev)
	return pos, nil
}

func (r *ReadReceiptRepo) CountUnread(_ context.Context, convID domain.ConversationID, userID domain.UserID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pos, hasPos := r.s.receipts[receiptKey{convID, userID.Canonical()}]
	n := 0
	for _, m := range r.s.messages[convID] {
		if m.SenderID() == userID.Canonical() {
			continue
		}
		if hasPos && pos.HasRead(m.CreatedAt()) {
			continue
		}
		n++
	}
	return n, nil
}

type PostRepo struct{ s *Store }

func (r *PostRepo) FindByID(_ context.Context, id domain.PostID) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok || p.IsDeleted() {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *PostRepo) FindForUpdate(_ context.Context, id domain.PostID) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *PostRepo) FindAll(_ context.Context) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Post
	for _, p := range r.s.posts {
		if !p.IsDeleted() {
			p := p
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

// Save refuses to overwrite a post that is already deleted.
func (r *PostRepo) Save(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.posts[post.ID()]; ok && existing.IsDeleted() {
		return domain.ErrPostAlreadyDeleted
	}
	r.s.posts[post.ID()] = *post
	return nil
}

type CommentRepo struct{ s *Store }

func (r *CommentRepo) FindByID(_ context.Context, id domain.CommentID) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok || c.IsDeleted() {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *CommentRepo) FindForUpdate(_ context.Context, id domain.CommentID) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *CommentRepo) FindByPostID(_ context.Context, postID domain.PostID) ([]*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Comment
	for _, c := range r.s.comments {
		if c.PostID() == postID && !c.IsDeleted() {
			c := c
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (r *CommentRepo) Save(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, existed := r.s.comments[comment.ID()]
	if existed && existing.IsDeleted() {
		return domain.ErrCommentAlreadyDeleted
	}
	r.s.comments[comment.ID()] = *comment
	if !existed {
		ev, err := events.NewCommentCreated(comment)
		if err != nil {
			return err
		}
		r.s.enqueue(ev)
	}
	return nil
}
