package v1

import (
	"github.com/swiftprep/swiftprep/internal/auth"
	"github.com/swiftprep/swiftprep/pkg/logger"
	"github.com/swiftprep/swiftprep/pkg/oss"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"gorm.io/gorm"
)

var (
	DB        *gorm.DB
	Redis     *storage.RedisClient
	Logger    *logger.Logger
	Media     *oss.Store
	OAuth     *auth.GoogleOAuth
	AuthOpts  auth.Options
	Validator = utils.NewValidator()
)

// Setup wires the handler package to the process-wide dependencies.
func Setup(db *gorm.DB, rclient *storage.RedisClient, log *logger.Logger, media *oss.Store, oauthProvider *auth.GoogleOAuth) {
	DB = db
	Redis = rclient
	Logger = log
	Media = media
	OAuth = oauthProvider
	AuthOpts = auth.Options{DB: db, Rclient: rclient, Logger: log}
}
