package auth

import (
	"github.com/swiftprep/swiftprep/pkg/logger"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"gorm.io/gorm"
)

type Options struct {
	DB      *gorm.DB
	Rclient *storage.RedisClient
	Logger  *logger.Logger
}
