package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Mentor{}, &Video{}, &Comment{}, &Reply{}))
	return db
}

func seedVideo(t *testing.T, db *gorm.DB) *Video {
	t.Helper()
	v, err := NewVideo(context.Background(), db, BuildCatalogKey("PES", "CSE", 5), "Operating Systems", "Process Scheduling")
	require.NoError(t, err)
	return v
}

func author(name string) AuthorSnapshot {
	return AuthorSnapshot{
		UserID:    uuid.New(),
		Username:  name,
		AvatarURL: "https://example.com/" + name + ".png",
	}
}

func TestNewCommentAppearsInThread(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	alice := author("alice")
	c, err := NewComment(ctx, db, video.ID, "hello", alice)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Text)
	assert.Equal(t, alice.UserID, comments[0].Author.UserID)
	assert.Equal(t, "alice", comments[0].Author.Username)
	assert.Empty(t, comments[0].Replies)
}

func TestNewCommentRejectsMissingVideo(t *testing.T) {
	db := testDB(t)

	_, err := NewComment(context.Background(), db, uuid.New(), "hello", author("alice"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListCommentsInsertionOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	// Back-to-back inserts land in the same timestamp tick; the time-ordered
	// ids must still keep the thread in insertion order.
	for i := 0; i < 25; i++ {
		_, err := NewComment(ctx, db, video.ID, fmt.Sprintf("comment %02d", i), author("alice"))
		require.NoError(t, err)
	}

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 25)
	for i, c := range comments {
		assert.Equal(t, fmt.Sprintf("comment %02d", i), c.Text)
	}
}

func TestRepliesKeepInsertionOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "thread", author("alice"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := NewReply(ctx, db, c.ID, fmt.Sprintf("reply %02d", i), author("bob"))
		require.NoError(t, err)
	}

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 10)
	for i, r := range comments[0].Replies {
		assert.Equal(t, fmt.Sprintf("reply %02d", i), r.Text)
	}
}

func TestReplyAppendsToParent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "question", author("alice"))
	require.NoError(t, err)

	bob := author("bob")
	r, err := NewReply(ctx, db, c.ID, "answer", bob)
	require.NoError(t, err)
	assert.Equal(t, c.ID, r.CommentID)

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "answer", comments[0].Replies[0].Text)
	assert.Equal(t, bob.UserID, comments[0].Replies[0].Author.UserID)
}

func TestReplyRejectsMissingComment(t *testing.T) {
	db := testDB(t)

	_, err := NewReply(context.Background(), db, uuid.New(), "answer", author("bob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "doomed", author("alice"))
	require.NoError(t, err)
	_, err = NewReply(ctx, db, c.ID, "me too", author("bob"))
	require.NoError(t, err)

	require.NoError(t, DeleteComment(ctx, db, c.ID))

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	var orphaned int64
	require.NoError(t, db.Model(&Reply{}).Where("comment_id = ?", c.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestDeleteCommentIdempotent(t *testing.T) {
	db := testDB(t)

	assert.NoError(t, DeleteComment(context.Background(), db, uuid.New()))
}

func TestDeleteReplyLeavesSiblings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "thread", author("alice"))
	require.NoError(t, err)
	r1, err := NewReply(ctx, db, c.ID, "reply one", author("bob"))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	r2, err := NewReply(ctx, db, c.ID, "reply two", author("carol"))
	require.NoError(t, err)

	require.NoError(t, DeleteReply(ctx, db, c.ID, r1.ID))

	comments, err := ListComments(ctx, db, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, r2.ID, comments[0].Replies[0].ID)
}

func TestDeleteReplyIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "thread", author("alice"))
	require.NoError(t, err)

	assert.NoError(t, DeleteReply(ctx, db, c.ID, uuid.New()))
}

func TestDeleteReplyScopedToParent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c1, err := NewComment(ctx, db, video.ID, "thread one", author("alice"))
	require.NoError(t, err)
	c2, err := NewComment(ctx, db, video.ID, "thread two", author("bob"))
	require.NoError(t, err)
	r, err := NewReply(ctx, db, c1.ID, "belongs to one", author("carol"))
	require.NoError(t, err)

	// Deleting through the wrong parent must not touch the reply.
	require.NoError(t, DeleteReply(ctx, db, c2.ID, r.ID))

	got, err := GetReplyByID(ctx, db, c1.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "belongs to one", got.Text)
}

func TestLikeComment(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	video := seedVideo(t, db)

	c, err := NewComment(ctx, db, video.ID, "likeable", author("alice"))
	require.NoError(t, err)

	require.NoError(t, LikeComment(ctx, db, c.ID))
	require.NoError(t, LikeComment(ctx, db, c.ID))

	got, err := GetCommentByID(ctx, db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)
}

func TestLikeCommentMissing(t *testing.T) {
	db := testDB(t)

	err := LikeComment(context.Background(), db, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
