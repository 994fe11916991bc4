// Command mailer consumes the email queue and delivers each message over
// SMTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/queue"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.ReadMailer()
	if err != nil {
		logging.New("info").Error("load config", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{
		URL:       cfg.Rabbit.URL,
		Queue:     cfg.Rabbit.EmailQueue,
		Deliverer: queue.NewMailer(cfg.SMTP),
		Log:       log,
	}
	log.Info("mailer started", "queue", cfg.Rabbit.EmailQueue)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", "err", err)
		os.Exit(1)
	}
	log.Info("mailer stopped")
}
