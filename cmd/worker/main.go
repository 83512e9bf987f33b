package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/marketsafe/bot/internal/answer"
	"github.com/marketsafe/bot/internal/audit"
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/db"
	"github.com/marketsafe/bot/internal/entitlement"
	"github.com/marketsafe/bot/internal/queue"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := answer.NewRepo(gdb)

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
		store = entitlement.NewGormStore(gdb)
	}
	// the worker only reads entitlement state, so it never audits
	ledger := entitlement.NewLedger(store, audit.Nop{})

	svc := answer.NewService(answer.NewDuckDuckGo(), ledger, cfg.SearchLimit)

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram auth: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	// The worker may come up before the bot; declare the same topology so
	// Consume never races the publisher's declaration.
	if err := queue.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("declare queues: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m jobMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleJob(ctx, svc, repo, bot, m.JobID); err != nil {
					log.Printf("worker=%d job %s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

// handleJob runs one queued question through the answer service and delivers
// the result back into the originating chat.
func handleJob(ctx context.Context, svc *answer.Service, repo *answer.Repo, bot *tgbotapi.BotAPI, jobID string) error {
	_ = repo.UpdateJobStatusRunning(ctx, jobID)

	j, err := repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	var out string
	switch j.Mode {
	case answer.ModeLegal:
		out, err = svc.LegalAnswer(ctx, j.Query)
	default:
		out, err = svc.WebAnswer(ctx, j.Query)
	}
	if err != nil && out == "" {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		deliver(bot, j.ChatID, "⚠️ Произошла ошибка при поиске. Попробуйте позже.")
		return err
	}
	if err != nil {
		// legal mode returns the statute even when the web search failed
		log.Printf("job %s degraded answer: %v", jobID, err)
	}

	if err := repo.MarkJobSucceeded(ctx, jobID, out); err != nil {
		return err
	}

	deliver(bot, j.ChatID, svc.Frame(ctx, j.UserID, out))
	return nil
}

func deliver(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		log.Printf("deliver to chat %d: %v", chatID, err)
	}
}
