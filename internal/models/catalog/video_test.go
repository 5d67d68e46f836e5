package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogKey(t *testing.T) {
	tests := []struct {
		college  string
		branch   string
		semester int
		want     string
	}{
		{"PES", "CSE", 5, "PES-CSE-5"},
		{"pes", "cse", 5, "PES-CSE-5"},
		{"  rvce ", " ece ", 3, "RVCE-ECE-3"},
		{"BMS", "ISE", 8, "BMS-ISE-8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildCatalogKey(tt.college, tt.branch, tt.semester))
	}
}

func TestFilterVideosByCatalogKey(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	key := BuildCatalogKey("PES", "CSE", 5)

	_, err := NewVideo(ctx, db, key, "Operating Systems", "Deadlocks", WithChapter(3))
	require.NoError(t, err)
	_, err = NewVideo(ctx, db, key, "Operating Systems", "Processes", WithChapter(1))
	require.NoError(t, err)
	_, err = NewVideo(ctx, db, BuildCatalogKey("PES", "ECE", 5), "Signals", "Fourier Series", WithChapter(1))
	require.NoError(t, err)

	videos, err := FilterVideos(ctx, db, key)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Processes", videos[0].Name)
	assert.Equal(t, "Deadlocks", videos[1].Name)
}

func TestFilterVideosEmptyKey(t *testing.T) {
	db := testDB(t)

	videos, err := FilterVideos(context.Background(), db, BuildCatalogKey("NIT", "MECH", 5))
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestDistinctSubjects(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	key := BuildCatalogKey("PES", "CSE", 5)

	for _, v := range []struct{ subject, name string }{
		{"Operating Systems", "Processes"},
		{"Operating Systems", "Threads"},
		{"Computer Networks", "TCP"},
	} {
		_, err := NewVideo(ctx, db, key, v.subject, v.name)
		require.NoError(t, err)
	}

	subjects, err := DistinctSubjects(ctx, db, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Networks", "Operating Systems"}, subjects)
}

func TestLatestVideos(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	key := BuildCatalogKey("PES", "CSE", 5)

	_, err := NewVideo(ctx, db, key, "Operating Systems", "Old")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = NewVideo(ctx, db, key, "Operating Systems", "New")
	require.NoError(t, err)

	videos, err := LatestVideos(ctx, db, 1)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "New", videos[0].Name)
}

func TestLikeVideo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	v, err := NewVideo(ctx, db, BuildCatalogKey("PES", "CSE", 5), "Operating Systems", "Likeable")
	require.NoError(t, err)

	require.NoError(t, LikeVideo(ctx, nil, db, v.ID))

	got, err := GetVideoByID(ctx, nil, db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
}

func TestLikeVideoMissing(t *testing.T) {
	db := testDB(t)

	err := LikeVideo(context.Background(), nil, db, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDeleteVideoRemovesThread(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	v, err := NewVideo(ctx, db, BuildCatalogKey("PES", "CSE", 5), "Operating Systems", "Doomed")
	require.NoError(t, err)
	c, err := NewComment(ctx, db, v.ID, "question", author("alice"))
	require.NoError(t, err)
	_, err = NewReply(ctx, db, c.ID, "answer", author("bob"))
	require.NoError(t, err)

	require.NoError(t, DeleteVideo(ctx, nil, db, v.ID))

	_, err = GetVideoByID(ctx, nil, db, v.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	var comments, replies int64
	require.NoError(t, db.Model(&Comment{}).Where("video_id = ?", v.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&Reply{}).Where("comment_id = ?", c.ID).Count(&replies).Error)
	assert.Zero(t, comments)
	assert.Zero(t, replies)
}

func TestDeleteVideoIdempotent(t *testing.T) {
	db := testDB(t)

	assert.NoError(t, DeleteVideo(context.Background(), nil, db, uuid.New()))
}

func TestGetVideoByIDMissing(t *testing.T) {
	db := testDB(t)

	_, err := GetVideoByID(context.Background(), nil, db, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestVideoOptions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	mentorID := uuid.New()
	require.NoError(t, db.Create(&Mentor{ID: mentorID, Name: "Dr. Rao", Subject: "Operating Systems"}).Error)

	v, err := NewVideo(ctx, db, BuildCatalogKey("PES", "CSE", 5), "Operating Systems", "Scheduling",
		WithSubjectCode("CS301"),
		WithChapter(2),
		WithVideoKey("abc/lecture.mp4"),
		WithNotesKey("abc/notes.pdf"),
		WithThumbKey("abc/thumb.jpg"),
		WithMentor(mentorID),
	)
	require.NoError(t, err)

	got, err := GetVideoByID(ctx, nil, db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS301", got.SubjectCode)
	assert.Equal(t, 2, got.Chapter)
	assert.Equal(t, "abc/lecture.mp4", got.VideoKey)
	assert.Equal(t, "Dr. Rao", got.Mentor.Name)
}
