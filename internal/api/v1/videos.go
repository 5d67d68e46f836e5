package v1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swiftprep/swiftprep/internal/models"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

// ViewVideo renders a single lecture: metadata, mentor, comment count and
// presigned playback/notes/thumbnail URLs.
func ViewVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}

	video, err := models.GetVideoByID(c.Context(), Redis, DB, id)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("video_id", id.String()).Logs("Video not found")
		return utils.HandleError(c, err)
	}

	playbackURL, err := Media.PresignPlayback(c.Context(), video.VideoKey)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to presign playback URL")
		return utils.HandleError(c, err)
	}
	notesURL, err := Media.PresignNotes(c.Context(), video.NotesKey)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to presign notes URL")
		return utils.HandleError(c, err)
	}
	thumbURL, err := Media.PresignThumbnail(c.Context(), video.ThumbKey)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to presign thumbnail URL")
		return utils.HandleError(c, err)
	}

	comments, err := models.ListComments(c.Context(), DB, id)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to list comments")
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"video":         video,
		"playback_url":  playbackURL,
		"notes_url":     notesURL,
		"thumbnail_url": thumbURL,
		"comments":      comments,
	})
}

// LikeVideo bumps the video's like counter.
func LikeVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}

	if err := models.LikeVideo(c.Context(), Redis, DB, id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithMessage("Video liked").Send()
}

// DeleteVideo removes a lecture, its comment thread and its stored media.
// Moderator-only; deleting an id that is already gone succeeds.
func DeleteVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}

	if _, err := models.GetVideoByID(c.Context(), Redis, DB, id); err != nil {
		var appErr *utils.CustomError
		if utils.As(err, &appErr) && appErr.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": "Video deleted",
			})
		}
		return utils.HandleError(c, err)
	}

	if err := models.DeleteVideo(c.Context(), Redis, DB, id); err != nil {
		return utils.HandleError(c, err)
	}

	if err := Media.RemoveLecture(c.Context(), id.String()); err != nil {
		Logger.Warn(c.Context()).WithFields("video_id", id.String(), "error", err.Error()).Logs("Failed to remove stored media")
	}

	Logger.Info(c.Context()).WithFields("video_id", id.String()).Logs("Video deleted")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Video deleted",
	})
}

// UploadLecture accepts a multipart lecture upload from a moderator: the video
// file plus optional notes and thumbnail, and the catalog metadata fields.
func UploadLecture(c *fiber.Ctx) error {
	type UploadInput struct {
		College     string `form:"college" validate:"required,catalogcode"`
		Branch      string `form:"branch" validate:"required,catalogcode"`
		Semester    int    `form:"semester" validate:"min=0,max=8"`
		Subject     string `form:"subject" validate:"required,max=100"`
		SubjectCode string `form:"subject_code" validate:"omitempty,max=20"`
		Chapter     int    `form:"chapter" validate:"min=0"`
		Name        string `form:"name" validate:"required,max=255"`
		MentorID    string `form:"mentor_id" validate:"omitempty,uuid"`
	}

	ui := new(UploadInput)
	if err := c.BodyParser(ui); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse upload form")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(ui); err != nil {
		Logger.Warn(c.Context()).Logs("Upload validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}
	if ui.Semester == 0 {
		ui.Semester = models.DefaultSemester
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Lecture video file is required",
		})
	}

	videoID := uuid.New()

	file, err := fileHeader.Open()
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to open uploaded video")
		return utils.HandleError(c, utils.ErrInternalServerError)
	}
	defer file.Close()

	videoKey, err := Media.UploadLecture(c.Context(), videoID.String(), file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to store lecture video")
		return utils.HandleError(c, err)
	}

	var notesKey string
	if notesHeader, err := c.FormFile("notes"); err == nil {
		notes, err := notesHeader.Open()
		if err == nil {
			defer notes.Close()
			notesKey, err = Media.UploadNotes(c.Context(), videoID.String(), notes, notesHeader.Size)
			if err != nil {
				Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to store notes, continuing without them")
				notesKey = ""
			}
		}
	}

	var thumbKey string
	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		thumb, err := thumbHeader.Open()
		if err == nil {
			defer thumb.Close()
			thumbKey, err = Media.UploadThumbnail(c.Context(), videoID.String(), thumb, thumbHeader.Size, thumbHeader.Header.Get("Content-Type"))
			if err != nil {
				Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to store thumbnail, continuing without it")
				thumbKey = ""
			}
		}
	}

	opts := []models.VideoOption{
		models.WithVideoID(videoID),
		models.WithSubjectCode(ui.SubjectCode),
		models.WithChapter(ui.Chapter),
		models.WithVideoKey(videoKey),
		models.WithNotesKey(notesKey),
		models.WithThumbKey(thumbKey),
	}
	if ui.MentorID != "" {
		mentorID, err := uuid.Parse(ui.MentorID)
		if err == nil {
			if _, err := models.GetMentorByID(c.Context(), DB, mentorID); err != nil {
				return utils.HandleError(c, err)
			}
			opts = append(opts, models.WithMentor(mentorID))
		}
	}

	key := models.BuildCatalogKey(ui.College, ui.Branch, ui.Semester)
	video, err := models.NewVideo(c.Context(), DB, key, ui.Subject, ui.Name, opts...)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to create video record")
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("video_id", video.ID.String()).Logs(fmt.Sprintf("Lecture uploaded: %s", video.Name))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Lecture uploaded",
		"video":   video,
	})
}
