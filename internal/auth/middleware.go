package auth

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	models "github.com/swiftprep/swiftprep/internal/models/user"
)

// RequireAuth validates the access token cookie, transparently refreshing it
// from the refresh token when expired, and stores the caller's identity in
// Locals("user_id") / Locals("user_role").
func RequireAuth(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" && opt.Rclient.Exists(c.Context(), "blacklist:access:"+accessToken).Val() > 0 {
			opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted access token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token has been invalidated",
			})
		}
		if refreshToken != "" && opt.Rclient.Exists(c.Context(), "blacklist:refresh:"+refreshToken).Val() > 0 {
			opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted refresh token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Refresh token has been invalidated",
			})
		}

		claims, err := VerifyToken(accessToken)
		if err != nil {
			newAccessToken, refreshErr := handleTokenRefresh(c, opt, refreshToken)
			if refreshErr != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authentication required",
				})
			}
			claims, err = VerifyToken(newAccessToken)
			if err != nil {
				opt.Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Invalid access token after refresh")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid access token",
				})
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// RequireModerator allows only moderators through. Must run after RequireAuth.
func RequireModerator(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role != models.RoleModerator {
			opt.Logger.Warn(c.Context()).WithFields("role", role).Logs("Moderator-only route denied")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Moderator access required",
			})
		}
		return c.Next()
	}
}

// CurrentUser loads the authenticated user's record, Redis-cached.
func CurrentUser(c *fiber.Ctx, opt Options) (*models.User, error) {
	rawID, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return models.GetUserByID(c.Context(), opt.Rclient, opt.DB, id)
}

// handleTokenRefresh rotates the refresh token and issues a new access token.
func handleTokenRefresh(c *fiber.Ctx, opt Options, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidToken
	}

	refreshKey := "refresh:" + refreshToken
	refreshDataJSON, err := opt.Rclient.Get(c.Context(), refreshKey).Result()
	if err != nil || refreshDataJSON == "" {
		opt.Logger.Warn(c.Context()).Logs("Invalid or expired refresh token")
		return "", ErrInvalidToken
	}

	var refreshData map[string]string
	if err := json.Unmarshal([]byte(refreshDataJSON), &refreshData); err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse refresh data")
		return "", ErrInvalidToken
	}

	userID := refreshData["user_id"]
	if userID == "" {
		return "", ErrInvalidToken
	}
	if refreshData["ip"] != c.IP() {
		opt.Logger.Warn(c.Context()).WithFields("user_id", userID).Logs("Refresh token IP mismatch")
		opt.Rclient.Del(c.Context(), refreshKey)
		return "", ErrInvalidToken
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := models.GetUserByID(c.Context(), opt.Rclient, opt.DB, id)
	if err != nil {
		opt.Logger.Warn(c.Context()).WithFields("user_id", userID).Logs("User not found during token refresh")
		c.ClearCookie("access_token")
		c.ClearCookie("refresh_token")
		return "", ErrInvalidToken
	}

	newAccessToken, err := GenerateAccessToken(user.ID.String(), user.Role)
	if err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return "", err
	}
	newRefreshToken := GenerateRefreshToken()

	IssueSession(c, opt, user.ID.String(), newAccessToken, newRefreshToken)
	opt.Rclient.Del(c.Context(), refreshKey)

	opt.Logger.Info(c.Context()).WithFields("user_id", userID).Logs("Tokens refreshed")
	return newAccessToken, nil
}

// IssueSession stores the refresh token in Redis and sets both session cookies.
func IssueSession(c *fiber.Ctx, opt Options, userID, accessToken, refreshToken string) {
	refreshData, _ := json.Marshal(map[string]string{
		"user_id": userID,
		"ip":      c.IP(),
	})
	if err := opt.Rclient.Set(c.Context(), "refresh:"+refreshToken, refreshData, RefreshTokenTTL).Err(); err != nil {
		opt.Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to store refresh token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
