package v1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/swiftprep/swiftprep/internal/auth"
	"github.com/swiftprep/swiftprep/internal/models"
	"github.com/swiftprep/swiftprep/pkg/utils"
)

// GoogleLogin kicks off the OAuth flow by redirecting to Google's consent page.
func GoogleLogin(c *fiber.Ctx) error {
	url, err := OAuth.BeginFlow(c.Context(), Redis)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to begin OAuth flow")
		return utils.HandleError(c, err)
	}
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// GoogleRedirect handles the OAuth callback: verifies state, exchanges the
// code, resolves the external profile to a local user and issues the session.
func GoogleRedirect(c *fiber.Ctx) error {
	if err := OAuth.ConsumeState(c.Context(), Redis, c.Query("state")); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("OAuth state verification failed")
		return utils.HandleError(c, err)
	}

	profile, err := OAuth.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("OAuth code exchange failed")
		return utils.HandleError(c, err)
	}

	user, err := models.ResolveExternalProfile(c.Context(), Redis, DB, *profile)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to resolve external profile")
		return utils.HandleError(c, err)
	}

	accessToken, err := auth.GenerateAccessToken(user.ID.String(), user.Role)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return utils.HandleError(c, utils.ErrInternalServerError)
	}
	refreshToken := auth.GenerateRefreshToken()
	auth.IssueSession(c, AuthOpts, user.ID.String(), accessToken, refreshToken)

	Logger.Info(c.Context()).WithFields("user_id", user.ID.String()).Logs(fmt.Sprintf("User signed in via Google: %s", user.Username))
	return c.Redirect("/", fiber.StatusFound)
}

// Logout blacklists both session tokens and clears the cookies.
func Logout(c *fiber.Ctx) error {
	accessToken := c.Cookies("access_token")
	refreshToken := c.Cookies("refresh_token")

	if accessToken != "" {
		if err := Redis.Set(c.Context(), "blacklist:access:"+accessToken, "invalid", auth.AccessTokenTTL).Err(); err != nil {
			Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to blacklist access token")
		}
	}
	if refreshToken != "" {
		if err := Redis.Set(c.Context(), "blacklist:refresh:"+refreshToken, "invalid", auth.RefreshTokenTTL).Err(); err != nil {
			Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to blacklist refresh token")
		}
		Redis.Del(c.Context(), "refresh:"+refreshToken)
	}

	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")

	Logger.Info(c.Context()).Logs("User logged out")
	return c.Redirect("/", fiber.StatusFound)
}
