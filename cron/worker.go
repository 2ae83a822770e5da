package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"medibook/config"
	"medibook/services/notification"

	"github.com/hibiken/asynq"
)

const TypeNotificationDeliver = "notification:deliver"

// DeliveryPayload is the task body for one queued notification.
type DeliveryPayload struct {
	NotificationID string `json:"notification_id"`
}

// Enqueuer implements notification.DeliveryQueue on top of asynq.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer() *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpts())}
}

// EnqueueDelivery schedules the delivery attempt. Failed deliveries are not
// auto-retried; they stay visible as failed for the reader to act on.
func (e *Enqueuer) EnqueueDelivery(ctx context.Context, notificationID string) error {
	payload, err := json.Marshal(DeliveryPayload{NotificationID: notificationID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeNotificationDeliver, payload, asynq.MaxRetry(0))
	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitDeliveryWorker runs the async delivery worker in the background and
// returns it for shutdown.
func InitDeliveryWorker(dispatcher notification.DispatcherService) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationDeliver, handleDeliveryTask(dispatcher))

	// Start async worker with retry logic
	go func() {
		log.Println("[DeliveryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DeliveryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DeliveryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

func handleDeliveryTask(dispatcher notification.DispatcherService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p DeliveryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DeliveryWorker] invalid payload: %v", err)
			return err
		}

		if err := dispatcher.Deliver(ctx, p.NotificationID); err != nil {
			log.Printf("[DeliveryWorker] delivery failed for %s: %v", p.NotificationID, err)
			return err
		}
		return nil
	}
}
