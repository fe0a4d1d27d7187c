// Package handlers holds the HTTP handlers. Shared clients are wired once
// at startup via Init, mirroring the package-level database handle.
package handlers

import (
	"github.com/dankdeals/dankdeals-backend-go/config"
	"github.com/dankdeals/dankdeals-backend-go/notify"
	"github.com/dankdeals/dankdeals-backend-go/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	cfg       *config.Config
	logger    *zap.Logger
	publisher *notify.Publisher
	smsClient *notify.SMSClient
	store     *storage.Client
	cache     *redis.Client
)

// Init wires the handler package's shared dependencies.
func Init(c *config.Config, log *zap.Logger, pub *notify.Publisher, sms *notify.SMSClient, st *storage.Client, rdb *redis.Client) {
	cfg = c
	logger = log
	publisher = pub
	smsClient = sms
	store = st
	cache = rdb
}
