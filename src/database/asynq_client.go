package database

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitAsynq initializes Asynq client only if Redis is available
func InitAsynq(addr, password string, logger *zap.Logger) *asynq.Client {
	if addr == "" {
		logger.Warn("⚠️ Redis not available. Asynq client will not be initialized.")
		return nil
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	logger.Info("✅ Asynq Client initialized successfully")
	return client
}
