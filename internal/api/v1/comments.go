package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swiftprep/swiftprep/internal/auth"
	"github.com/swiftprep/swiftprep/internal/models"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

// ListComments returns the comment thread for a video in insertion order.
func ListComments(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}

	comments, err := models.ListComments(c.Context(), DB, videoID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"comments": comments,
	})
}

// CreateComment posts a new comment on a video.
func CreateComment(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}

	type CommentInput struct {
		Text string `json:"comment" form:"comment" validate:"required,min=1,max=1000"`
	}
	ci := new(CommentInput)
	if err := c.BodyParser(ci); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse comment body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	actor, err := auth.CurrentUser(c, AuthOpts)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	comment, err := models.NewComment(c.Context(), DB, videoID, ci.Text, models.AuthorSnapshot{
		UserID:    actor.ID,
		Username:  actor.Username,
		AvatarURL: actor.AvatarURL,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("video_id", videoID.String(), "comment_id", comment.ID.String()).Logs("Comment created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment posted",
		"comment": comment,
	})
}

// DeleteComment removes a comment and all of its replies. Only the author or a
// moderator may delete; deleting an id that is already gone succeeds.
func DeleteComment(c *fiber.Ctx) error {
	if _, err := uuid.Parse(c.Params("id")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid video id",
		})
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment id",
		})
	}

	comment, err := models.GetCommentByID(c.Context(), DB, commentID)
	if err != nil {
		var appErr *utils.CustomError
		if utils.As(err, &appErr) && appErr.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": "Comment deleted",
			})
		}
		return utils.HandleError(c, err)
	}

	if err := authorizeAuthor(c, comment.Author.UserID); err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeleteComment(c.Context(), DB, commentID); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("comment_id", commentID.String()).Logs("Comment deleted")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Comment deleted",
	})
}

// CreateReply appends a reply to an existing comment.
func CreateReply(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment id",
		})
	}

	type ReplyInput struct {
		Text string `json:"reply" form:"reply" validate:"required,min=1,max=1000"`
	}
	ri := new(ReplyInput)
	if err := c.BodyParser(ri); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse reply body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	actor, err := auth.CurrentUser(c, AuthOpts)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	reply, err := models.NewReply(c.Context(), DB, commentID, ri.Text, models.AuthorSnapshot{
		UserID:    actor.ID,
		Username:  actor.Username,
		AvatarURL: actor.AvatarURL,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("comment_id", commentID.String(), "reply_id", reply.ID.String()).Logs("Reply created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Reply posted",
		"reply":   reply,
	})
}

// DeleteReply removes exactly one reply from a comment thread; sibling replies
// are untouched. Author-or-moderator only, idempotent on absent ids.
func DeleteReply(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment id",
		})
	}
	replyID, err := uuid.Parse(c.Params("replyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reply id",
		})
	}

	reply, err := models.GetReplyByID(c.Context(), DB, commentID, replyID)
	if err != nil {
		var appErr *utils.CustomError
		if utils.As(err, &appErr) && appErr.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": "Reply deleted",
			})
		}
		return utils.HandleError(c, err)
	}

	if err := authorizeAuthor(c, reply.Author.UserID); err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeleteReply(c.Context(), DB, commentID, replyID); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("reply_id", replyID.String()).Logs("Reply deleted")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Reply deleted",
	})
}

// LikeComment bumps a comment's like counter.
func LikeComment(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment id",
		})
	}

	if err := models.LikeComment(c.Context(), DB, commentID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithMessage("Comment liked").Send()
}

// authorizeAuthor lets the original author or a moderator proceed.
func authorizeAuthor(c *fiber.Ctx, authorID uuid.UUID) error {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)
	if userID == authorID.String() || role == models.RoleModerator {
		return nil
	}
	return utils.NewError(fiber.StatusForbidden, "Only the author or a moderator can delete this")
}
