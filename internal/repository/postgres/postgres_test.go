package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/outbox"
	"github.com/SARVESHVARADKAR123/townsquare/internal/repository"
	"github.com/SARVESHVARADKAR123/townsquare/internal/tx"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.ConversationRepository = (*ConversationRepo)(nil)
	_ repository.MessageRepository      = (*MessageRepo)(nil)
	_ repository.ReadReceiptRepository  = (*ReadReceiptRepo)(nil)
	_ repository.PostRepository         = (*PostRepo)(nil)
	_ repository.CommentRepository      = (*CommentRepo)(nil)
	_ outbox.Store                      = (*OutboxStore)(nil)
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func uid() domain.UserID { return domain.UserID(uuid.NewString()) }

func TestConversationRepo_SaveMapsUniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := &ConversationRepo{DB: db, Tx: &tx.Manager{DB: db}}

	conv, err := domain.NewDirectConversation(domain.NewConversationID(), uid(), uid(), t0)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversations").
		WithArgs(string(conv.ID()), conv.PairKey(), t0).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "conversations_pair_key_key"})
	mock.ExpectRollback()

	err = repo.Save(context.Background(), conv)
	assert.ErrorIs(t, err, domain.ErrConversationExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConversationRepo_SaveInsertsMembers(t *testing.T) {
	db, mock := newMock(t)
	repo := &ConversationRepo{DB: db, Tx: &tx.Manager{DB: db}}

	a, b := uid(), uid()
	conv, err := domain.NewDirectConversation(domain.NewConversationID(), a, b, t0)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO conversation_members").
		WithArgs(string(conv.ID()), string(a), 0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO conversation_members").
		WithArgs(string(conv.ID()), string(b), 1, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), conv))
}

func TestConversationRepo_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := &ConversationRepo{DB: db}

	mock.ExpectQuery("SELECT created_at").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), domain.NewConversationID())
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestConversationRepo_FindAllByUserIDGroupsMembers(t *testing.T) {
	db, mock := newMock(t)
	repo := &ConversationRepo{DB: db}

	me, p1, p2 := uid(), uid(), uid()
	c1, c2 := domain.NewConversationID(), domain.NewConversationID()

	rows := sqlmock.NewRows([]string{"id", "created_at", "user_id", "joined_at"}).
		AddRow(string(c2), t0.Add(time.Hour), string(me), t0.Add(time.Hour)).
		AddRow(string(c2), t0.Add(time.Hour), string(p2), t0.Add(time.Hour)).
		AddRow(string(c1), t0, string(p1), t0).
		AddRow(string(c1), t0, string(me), t0)
	mock.ExpectQuery("FROM conversations c").WithArgs(string(me)).WillReturnRows(rows)

	convs, err := repo.FindAllByUserID(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, c2, convs[0].ID())
	assert.True(t, convs[0].IsMember(p2))
	assert.Equal(t, c1, convs[1].ID())
	assert.Equal(t, p1, convs[1].Members()[0].UserID)
}

func TestMessageRepo_SaveWritesOutbox(t *testing.T) {
	db, mock := newMock(t)
	repo := &MessageRepo{DB: db, Tx: &tx.Manager{DB: db}}

	conv := domain.NewConversationID()
	msg := domain.NewMessage(domain.NewMessageID(), conv, uid(), domain.RestoreMessageBody("hi"), t0)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(string(msg.ID()), string(conv), string(msg.SenderID()), "hi", t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("messages:"+string(conv), "MESSAGE_SENT", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), msg))
}

func TestMessageRepo_FindLatestEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := &MessageRepo{DB: db}

	mock.ExpectQuery("FROM messages").WillReturnRows(
		sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "body", "created_at"}),
	)

	msg, err := repo.FindLatestByConversationID(context.Background(), domain.NewConversationID())
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestReadReceiptRepo_UpsertReturnsStoredPosition(t *testing.T) {
	db, mock := newMock(t)
	repo := &ReadReceiptRepo{DB: db, Tx: &tx.Manager{DB: db}}

	conv, user := domain.NewConversationID(), uid()
	later := t0.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("GREATEST").
		WithArgs(string(conv), string(user), t0).
		WillReturnRows(sqlmock.NewRows([]string{"last_read_at"}).AddRow(later))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("receipts:"+string(conv), "READ_POSITION_CHANGED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	stored, err := repo.Upsert(context.Background(), domain.NewReadPosition(conv, user, t0))
	require.NoError(t, err)
	assert.Equal(t, later, stored.LastReadAt())
}

func TestReadReceiptRepo_CountUnread(t *testing.T) {
	db, mock := newMock(t)
	repo := &ReadReceiptRepo{DB: db}

	conv, user := domain.NewConversationID(), uid()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(string(conv), string(user)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountUnread(context.Background(), conv, user)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestReadReceiptRepo_CountUnreadLowercasesUser(t *testing.T) {
	db, mock := newMock(t)
	repo := &ReadReceiptRepo{DB: db}

	conv, user := domain.NewConversationID(), uid()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(string(conv), string(user)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := repo.CountUnread(context.Background(), conv, domain.UserID(strings.ToUpper(string(user))))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostRepo_FindByIDExcludesDeleted(t *testing.T) {
	db, mock := newMock(t)
	repo := &PostRepo{DB: db}

	mock.ExpectQuery("AND deleted_at IS NULL").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), domain.NewPostID())
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostRepo_FindForUpdateRestoresDeletedState(t *testing.T) {
	db, mock := newMock(t)
	repo := &PostRepo{DB: db}

	id, author := domain.NewPostID(), uid()
	deletedAt := t0.Add(time.Minute)
	mock.ExpectQuery("FROM posts WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body", "created_at", "updated_at", "deleted_at"}).
			AddRow(string(id), string(author), "t", "b", t0, deletedAt, deletedAt))

	post, err := repo.FindForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, post.IsDeleted())
	assert.ErrorIs(t, post.Delete(author, t0), domain.ErrPostAlreadyDeleted)
}

func TestPostRepo_SaveRejectsDeletedRow(t *testing.T) {
	db, mock := newMock(t)
	repo := &PostRepo{DB: db}

	post := domain.NewPost(domain.NewPostID(), uid(), domain.RestorePostContent("t", "b"), t0)
	mock.ExpectExec("INSERT INTO posts").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Save(context.Background(), post), domain.ErrPostAlreadyDeleted)
}

func TestCommentRepo_SaveEmitsOnlyOnInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := &CommentRepo{DB: db, Tx: &tx.Manager{DB: db}}

	c := domain.NewComment(domain.NewCommentID(), domain.NewPostID(), uid(), domain.RestoreCommentBody("b"), t0)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO comments").WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("comments:"+string(c.PostID()), "COMMENT_CREATED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Save(context.Background(), c))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO comments").WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectCommit()
	require.NoError(t, repo.Save(context.Background(), c))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO comments").WillReturnRows(sqlmock.NewRows([]string{"inserted"}))
	mock.ExpectRollback()
	assert.ErrorIs(t, repo.Save(context.Background(), c), domain.ErrCommentAlreadyDeleted)
}

func TestOutboxStore_ProcessBatch(t *testing.T) {
	db, mock := newMock(t)
	store := &OutboxStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "event_type", "payload", "created_at", "retry_count"}).
			AddRow(int64(1), "messages:x", "MESSAGE_SENT", []byte("{}"), t0, 0).
			AddRow(int64(2), "messages:x", "MESSAGE_SENT", []byte("{}"), t0, 3))
	mock.ExpectExec("SET processed_at").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_dlq").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM outbox_events").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.ProcessBatch(context.Background(), 10, func(ctx context.Context, b outbox.Batch) error {
		recs := b.Records()
		require.Len(t, recs, 2)
		if err := b.MarkProcessed(ctx, recs[0].ID); err != nil {
			return err
		}
		return b.DeadLetter(ctx, recs[1], "rejected")
	})
	require.NoError(t, err)
}

func TestOutboxStore_EmptyBatchSkipsCallback(t *testing.T) {
	db, mock := newMock(t)
	store := &OutboxStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "event_type", "payload", "created_at", "retry_count"}))
	mock.ExpectRollback()

	called := false
	err := store.ProcessBatch(context.Background(), 10, func(context.Context, outbox.Batch) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}
