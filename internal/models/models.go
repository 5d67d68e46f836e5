package models

import (
	"github.com/swiftprep/swiftprep/internal/models/catalog"
	user "github.com/swiftprep/swiftprep/internal/models/user"
)

func RegisterModels() []interface{} {
	return []interface{}{
		&user.User{},
		&catalog.Mentor{},
		&catalog.Video{},
		&catalog.Comment{},
		&catalog.Reply{},
	}
}

const (
	RoleMember    = user.RoleMember
	RoleModerator = user.RoleModerator

	DefaultSemester = catalog.DefaultSemester
)

type (
	User            = user.User
	ExternalProfile = user.ExternalProfile
	Mentor          = catalog.Mentor
	Video           = catalog.Video
	Comment         = catalog.Comment
	Reply           = catalog.Reply
	AuthorSnapshot  = catalog.AuthorSnapshot
	VideoOption     = catalog.VideoOption
)

var (
	ResolveExternalProfile = user.ResolveExternalProfile
	GetUserBy              = user.GetUserBy
	GetUserByID            = user.GetUserByID
	BuildCatalogKey        = catalog.BuildCatalogKey
	NewVideo               = catalog.NewVideo
	GetVideoByID           = catalog.GetVideoByID
	FilterVideos           = catalog.FilterVideos
	DistinctSubjects       = catalog.DistinctSubjects
	LatestVideos           = catalog.LatestVideos
	LikeVideo              = catalog.LikeVideo
	DeleteVideo            = catalog.DeleteVideo
	NewComment             = catalog.NewComment
	ListComments           = catalog.ListComments
	GetCommentByID         = catalog.GetCommentByID
	DeleteComment          = catalog.DeleteComment
	NewReply               = catalog.NewReply
	GetReplyByID           = catalog.GetReplyByID
	DeleteReply            = catalog.DeleteReply
	LikeComment            = catalog.LikeComment
	NewMentor              = catalog.NewMentor
	GetMentorByID          = catalog.GetMentorByID

	WithVideoID     = catalog.WithVideoID
	WithSubjectCode = catalog.WithSubjectCode
	WithChapter     = catalog.WithChapter
	WithVideoName   = catalog.WithName
	WithThumbKey    = catalog.WithThumbKey
	WithNotesKey    = catalog.WithNotesKey
	WithVideoKey    = catalog.WithVideoKey
	WithMentor      = catalog.WithMentor
)
