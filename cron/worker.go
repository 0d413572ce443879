package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mentorhub/config"
	"mentorhub/models"
	"mentorhub/services/audit"
	"mentorhub/services/notification"
	"mentorhub/services/payout"
	"mentorhub/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitTaskWorker runs the async worker in background: audit persistence, push
// delivery, and payout finalization.
func InitTaskWorker(auditWriter *audit.Writer, notifSvc notification.NotificationService, payoutEngine *payout.Engine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAuditRecord, handleAuditTask(auditWriter))
	mux.HandleFunc(tasks.TypeNotifyPush, handlePushTask(notifSvc))
	mux.HandleFunc(tasks.TypePayoutFinalize, handlePayoutFinalizeTask(payoutEngine))

	go monitorRedisConnection()

	go func() {
		log.Println("[TaskWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[TaskWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[TaskWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleAuditTask(writer *audit.Writer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var record models.AuditRecord
		if err := json.Unmarshal(task.Payload(), &record); err != nil {
			log.Printf("[AuditHandler] Invalid payload: %v", err)
			return err
		}
		return writer.Write(ctx, record)
	}
}

func handlePushTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PushHandler] Invalid payload: %v", err)
			return err
		}
		if err := notifSvc.SendPushNotification(ctx, p.ID, p.Title, p.Body, p.Data); err != nil {
			log.Printf("[PushHandler] Failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

func handlePayoutFinalizeTask(engine *payout.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PayoutFinalizePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PayoutFinalizeHandler] Invalid payload: %v", err)
			return err
		}
		return engine.FinalizePayout(ctx, p.PayoutID)
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[TaskWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
