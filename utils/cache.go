// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"medibook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// PaymentStateClient holds the per-booking payment orchestrator state.
	PaymentStateClient *redis.Client
)

// InitPaymentStateCache initializes the Redis client for payment state
// (using the dedicated DB from AppConfig).
func InitPaymentStateCache() {
	PaymentStateClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPaymentStateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PaymentStateClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Payment State): %v", err)
	}
}

// GetPaymentStateClient returns the payment-state cache client.
func GetPaymentStateClient() *redis.Client {
	if PaymentStateClient == nil {
		InitPaymentStateCache()
	}
	return PaymentStateClient
}
