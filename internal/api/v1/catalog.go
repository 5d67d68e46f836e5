package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swiftprep/swiftprep/internal/models"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

// Home returns the newest lectures across the catalog.
func Home(c *fiber.Ctx) error {
	videos, err := models.LatestVideos(c.Context(), DB, 12)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to load home feed")
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"videos": videos,
	})
}

// Filter returns all videos under the composite catalog key built from the
// submitted college and branch, plus the distinct subjects among them.
func Filter(c *fiber.Ctx) error {
	type FilterInput struct {
		College string `json:"college" form:"college" validate:"required,catalogcode"`
		Branch  string `json:"branch" form:"branch" validate:"required,catalogcode"`
	}

	fi := new(FilterInput)
	if err := c.BodyParser(fi); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse filter request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(fi); err != nil {
		Logger.Warn(c.Context()).Logs("Filter validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	key := models.BuildCatalogKey(fi.College, fi.Branch, models.DefaultSemester)

	videos, err := models.FilterVideos(c.Context(), DB, key)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to filter videos")
		return utils.HandleError(c, err)
	}

	subjects, err := models.DistinctSubjects(c.Context(), DB, key)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to list subjects")
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"catalog_key": key,
		"videos":      videos,
		"subjects":    subjects,
	})
}
