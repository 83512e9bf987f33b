package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/marketsafe/bot/internal/answer"
	"github.com/marketsafe/bot/internal/audit"
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/db"
	"github.com/marketsafe/bot/internal/entitlement"
	"github.com/marketsafe/bot/internal/intake"
	"github.com/marketsafe/bot/internal/payment"
	"github.com/marketsafe/bot/internal/queue"
	"github.com/marketsafe/bot/internal/tg"
)

func main() {
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	// Connects only if the mysql store or the job repo is actually used, so
	// the bolt-backed configuration runs without a database server.
	lazyDB := db.NewLazy(cfg.DBDSN)

	auditLog, err := audit.NewFileLogger(cfg.PaymentsLog)
	if err != nil {
		log.Fatalf("open payments log: %v", err)
	}
	defer auditLog.Close()

	var store entitlement.Store
	switch cfg.StoreBackend {
	case "bolt":
		bs, err := entitlement.NewBoltStore(cfg.BoltPath)
		if err != nil {
			log.Fatalf("open bolt store: %v", err)
		}
		defer bs.Close()
		store = bs
	default:
		store = entitlement.NewGormStore(lazyDB.Get())
	}

	ledger := entitlement.NewLedger(store, auditLog)
	payments := payment.NewAdapter(ledger, auditLog)

	var sessions intake.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessions = intake.NewRedisStore(client, 24*time.Hour)
	default:
		sessions = intake.NewMemoryStore()
	}
	intakeCtl := intake.NewController(sessions)

	answers := answer.NewService(answer.NewDuckDuckGo(), ledger, cfg.SearchLimit)

	// Questions go through the job queue when the broker is reachable;
	// otherwise the dispatcher answers them inline.
	var (
		jobs *answer.Repo
		pub  *queue.Publisher
	)
	if p, err := queue.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbit unavailable, answering inline: %v", err)
	} else {
		pub = p
		jobs = answer.NewRepo(lazyDB.Get())
		defer pub.Close()
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram auth: %v", err)
	}
	log.Printf("authorized as @%s", bot.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := tg.NewDispatcher(bot, cfg, intakeCtl, answers, payments, ledger, jobs, pub)

	// The long poll occasionally dies on network errors; restart it with a
	// small backoff until shutdown is requested.
	for {
		d.Run(ctx)
		if ctx.Err() != nil {
			log.Printf("bot shutting down")
			return
		}
		log.Printf("update stream stopped, restarting in 5s")
		select {
		case <-ctx.Done():
			log.Printf("bot shutting down")
			return
		case <-time.After(5 * time.Second):
		}
	}
}
