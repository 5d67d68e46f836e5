package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	models "github.com/swiftprep/swiftprep/internal/models/user"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"
	stateTTL         = 10 * time.Minute
)

// GoogleOAuth holds the provider configuration for the Google sign-in flow.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth builds the provider config; the redirect lands on /google/redirect.
func NewGoogleOAuth(clientID, clientSecret, publicURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  publicURL + "/google/redirect",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// BeginFlow stores a fresh state nonce in Redis and returns the consent URL.
func (g *GoogleOAuth) BeginFlow(ctx context.Context, rclient *storage.RedisClient) (string, error) {
	state, err := utils.GenerateStateToken()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to generate OAuth state")
	}
	if err := rclient.Set(ctx, "oauth:state:"+state, "pending", stateTTL).Err(); err != nil {
		return "", utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to store OAuth state")
	}
	return g.config.AuthCodeURL(state), nil
}

// ConsumeState verifies a state nonce exactly once.
func (g *GoogleOAuth) ConsumeState(ctx context.Context, rclient *storage.RedisClient, state string) error {
	if state == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Missing OAuth state")
	}
	key := "oauth:state:" + state
	deleted, err := rclient.Del(ctx, key).Result()
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to verify OAuth state")
	}
	if deleted == 0 {
		return utils.NewError(utils.ErrBadRequest.Code, "Invalid or expired OAuth state")
	}
	return nil
}

// Exchange trades the authorization code for the external profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*models.ExternalProfile, error) {
	if code == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "Missing authorization code")
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrUnauthorized.Code, "OAuth code exchange failed")
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch Google profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, utils.NewError(utils.ErrInternalServerError.Code, "Google profile request failed", string(body))
	}

	var profile models.ExternalProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to decode Google profile")
	}
	if profile.Subject == "" {
		return nil, utils.NewError(utils.ErrUnauthorized.Code, "Google profile has no subject id")
	}

	return &profile, nil
}
