// Package oss wraps the MinIO client for lecture media: videos, notes and thumbnails.
package oss

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

const presignExpiry = 30 * time.Minute

// Store holds the MinIO client and the bucket layout.
type Store struct {
	client      *minio.Client
	VideoBucket string
	NotesBucket string
	ThumbBucket string
	Region      string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

func WithVideoBucket(name string) StoreOption {
	return func(s *Store) { s.VideoBucket = name }
}

func WithNotesBucket(name string) StoreOption {
	return func(s *Store) { s.NotesBucket = name }
}

func WithThumbBucket(name string) StoreOption {
	return func(s *Store) { s.ThumbBucket = name }
}

func WithRegion(region string) StoreOption {
	return func(s *Store) { s.Region = region }
}

// NewStore connects to MinIO and makes sure all buckets exist.
func NewStore(ctx context.Context, endpoint, accessKey, secretKey string, useSSL bool, opts ...StoreOption) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create MinIO client")
	}

	s := &Store{
		client:      client,
		VideoBucket: "lectures",
		NotesBucket: "notes",
		ThumbBucket: "thumbnails",
		Region:      "us-east-1",
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, bucket := range []string{s.VideoBucket, s.NotesBucket, s.ThumbBucket} {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, fmt.Sprintf("Failed to check bucket %q", bucket))
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.Region}); err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, fmt.Sprintf("Failed to create bucket %q", bucket))
		}
	}
	return nil
}

// UploadLecture stores a lecture video under the video id and returns its object key.
func (s *Store) UploadLecture(ctx context.Context, videoID string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "video/mp4"
	}
	objectKey := videoID + "/lecture.mp4"
	_, err := s.client.PutObject(ctx, s.VideoBucket, objectKey, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to upload lecture video")
	}
	return objectKey, nil
}

// UploadNotes stores a notes document for a video and returns its object key.
func (s *Store) UploadNotes(ctx context.Context, videoID string, r io.Reader, size int64) (string, error) {
	objectKey := videoID + "/notes.pdf"
	_, err := s.client.PutObject(ctx, s.NotesBucket, objectKey, r, size, minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to upload notes")
	}
	return objectKey, nil
}

// UploadThumbnail stores a thumbnail image for a video and returns its object key.
func (s *Store) UploadThumbnail(ctx context.Context, videoID string, r io.Reader, size int64, contentType string) (string, error) {
	var suffix string
	switch contentType {
	case "image/jpeg", "image/jpg":
		suffix = ".jpg"
	case "image/png":
		suffix = ".png"
	default:
		return "", utils.NewError(utils.ErrBadRequest.Code, fmt.Sprintf("Unsupported image format: %s", contentType))
	}
	objectKey := videoID + "/thumb" + suffix
	_, err := s.client.PutObject(ctx, s.ThumbBucket, objectKey, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to upload thumbnail")
	}
	return objectKey, nil
}

// PresignPlayback returns a time-limited GET URL for a lecture video.
func (s *Store) PresignPlayback(ctx context.Context, objectKey string) (string, error) {
	return s.presign(ctx, s.VideoBucket, objectKey)
}

// PresignNotes returns a time-limited GET URL for a notes document.
func (s *Store) PresignNotes(ctx context.Context, objectKey string) (string, error) {
	return s.presign(ctx, s.NotesBucket, objectKey)
}

// PresignThumbnail returns a time-limited GET URL for a thumbnail.
func (s *Store) PresignThumbnail(ctx context.Context, objectKey string) (string, error) {
	return s.presign(ctx, s.ThumbBucket, objectKey)
}

func (s *Store) presign(ctx context.Context, bucket, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, objectKey, presignExpiry, nil)
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to presign object URL")
	}
	return u.String(), nil
}

// RemoveLecture deletes every object stored for a video id.
func (s *Store) RemoveLecture(ctx context.Context, videoID string) error {
	keys := map[string][]string{
		s.VideoBucket: {videoID + "/lecture.mp4"},
		s.NotesBucket: {videoID + "/notes.pdf"},
		s.ThumbBucket: {videoID + "/thumb.jpg", videoID + "/thumb.png"},
	}
	for bucket, objects := range keys {
		for _, key := range objects {
			if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
				return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to remove object")
			}
		}
	}
	return nil
}
