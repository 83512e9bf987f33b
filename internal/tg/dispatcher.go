// Package tg routes Telegram updates to the intake controller, the answer
// service and the payment adapter.
package tg

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marketsafe/bot/internal/answer"
	"github.com/marketsafe/bot/internal/common"
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/entitlement"
	"github.com/marketsafe/bot/internal/intake"
	"github.com/marketsafe/bot/internal/payment"
	"github.com/marketsafe/bot/internal/queue"
)

// question modes a user can be waiting in after pressing an AI menu button.
const (
	modeQuestion = "question"
	modeLegal    = "legal"
)

// BotAPI is the slice of the Telegram client the dispatcher calls.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Dispatcher struct {
	bot      BotAPI
	cfg      config.Config
	intake   *intake.Controller
	answers  *answer.Service
	payments *payment.Adapter
	ledger   *entitlement.Ledger

	// Optional async path. When both are set, questions become queued jobs
	// answered by the worker; otherwise they are answered inline.
	jobs *answer.Repo
	pub  *queue.Publisher

	mu      sync.Mutex
	lanes   map[int64]chan tgbotapi.Update
	waiting map[int64]string
}

func NewDispatcher(
	bot BotAPI,
	cfg config.Config,
	intakeCtl *intake.Controller,
	answers *answer.Service,
	payments *payment.Adapter,
	ledger *entitlement.Ledger,
	jobs *answer.Repo,
	pub *queue.Publisher,
) *Dispatcher {
	return &Dispatcher{
		bot:      bot,
		cfg:      cfg,
		intake:   intakeCtl,
		answers:  answers,
		payments: payments,
		ledger:   ledger,
		jobs:     jobs,
		pub:      pub,
		lanes:    make(map[int64]chan tgbotapi.Update),
		waiting:  make(map[int64]string),
	}
}

// Run consumes the long-poll update stream until the context is cancelled.
// Updates are fanned out to one lane per user, so each user's events are
// handled in arrival order while different users proceed concurrently.
func (d *Dispatcher) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := d.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			d.bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			d.lane(ctx, laneKey(upd)) <- upd
		}
	}
}

func laneKey(upd tgbotapi.Update) int64 {
	if from := upd.SentFrom(); from != nil {
		return from.ID
	}
	return 0
}

func (d *Dispatcher) lane(ctx context.Context, userID int64) chan tgbotapi.Update {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.lanes[userID]
	if !ok {
		ch = make(chan tgbotapi.Update, 16)
		d.lanes[userID] = ch
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case upd := <-ch:
					d.safeHandle(ctx, upd)
				}
			}
		}()
	}
	return ch
}

// safeHandle is the top-level error boundary: one user's malformed update
// must never take the process down for everyone else.
func (d *Dispatcher) safeHandle(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic handling update %d: %v", upd.UpdateID, r)
			if chat := upd.FromChat(); chat != nil {
				d.sendMenu(chat.ID, genericErrorText)
			}
		}
	}()
	d.handle(ctx, upd)
}

func (d *Dispatcher) handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.PreCheckoutQuery != nil:
		// Every pre-checkout is approved; there is no verification at this
		// stage. This is a known simplification, not a security control.
		if _, err := d.bot.Request(tgbotapi.PreCheckoutConfig{
			PreCheckoutQueryID: upd.PreCheckoutQuery.ID,
			OK:                 true,
		}); err != nil {
			log.Printf("pre-checkout answer failed: %v", err)
		}

	case upd.CallbackQuery != nil:
		d.handleCallback(ctx, upd.CallbackQuery)

	case upd.Message != nil:
		d.handleMessage(ctx, upd.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.SuccessfulPayment != nil {
		d.handlePayment(ctx, msg)
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			d.sendMenu(chatID, welcomeText)
		case "cancel":
			// Cancel beats everything: clears the wizard and any waiting
			// question mode, succeeds even when there is nothing to cancel.
			d.setWaiting(userID, "")
			if err := d.intake.Cancel(ctx, userID); err != nil {
				log.Printf("cancel for user %d: %v", userID, err)
			}
			d.sendMenu(chatID, cancelledText)
		default:
			d.sendMenu(chatID, welcomeText)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)

	active, err := d.intake.Active(ctx, userID)
	if err != nil {
		log.Printf("session lookup for user %d: %v", userID, err)
		d.sendMenu(chatID, genericErrorText)
		return
	}
	if active {
		d.handleIntakeText(ctx, chatID, userID, text)
		return
	}

	if mode := d.getWaiting(userID); mode != "" {
		d.handleQuestion(ctx, chatID, userID, text, mode)
		return
	}

	d.sendMenu(chatID, welcomeText)
}

func (d *Dispatcher) handleIntakeText(ctx context.Context, chatID, userID int64, text string) {
	reply, err := d.intake.HandleText(ctx, userID, text)
	if err != nil {
		if errors.Is(err, intake.ErrNoSession) {
			d.sendMenu(chatID, welcomeText)
			return
		}
		log.Printf("intake step for user %d: %v", userID, err)
		d.sendMenu(chatID, genericErrorText)
		return
	}
	d.renderIntakeReply(chatID, reply)
}

func (d *Dispatcher) renderIntakeReply(chatID int64, reply intake.Reply) {
	if reply.Done {
		d.send(chatID, reply.Document)
		d.sendMenu(chatID, reply.Text)
		return
	}
	if reply.ShowSellerMenu {
		d.sendKeyboard(chatID, reply.Text, sellerMenu())
		return
	}
	d.send(chatID, reply.Text)
}

func (d *Dispatcher) handleQuestion(ctx context.Context, chatID, userID int64, query, mode string) {
	if query == "" {
		d.send(chatID, "Пустой запрос. Напишите, пожалуйста, вопрос.")
		return
	}
	d.setWaiting(userID, "")
	d.deliverAnswer(ctx, chatID, userID, query, mode == modeLegal)
}

// deliverAnswer answers a question either inline or through the job queue.
func (d *Dispatcher) deliverAnswer(ctx context.Context, chatID, userID int64, query string, legal bool) {
	d.send(chatID, d.answers.Preamble(ctx, userID, legal))

	if d.jobs != nil && d.pub != nil {
		err := d.enqueueAnswer(ctx, chatID, userID, query, legal)
		if err == nil {
			return
		}
		log.Printf("enqueue answer for user %d: %v, answering inline", userID, err)
	}

	var out string
	var err error
	if legal {
		out, err = d.answers.LegalAnswer(ctx, query)
		if err != nil {
			log.Printf("legal answer for user %d: %v", userID, err)
			out = out + "\n\n" + searchErrorText
		}
	} else {
		out, err = d.answers.WebAnswer(ctx, query)
		if err != nil {
			log.Printf("web answer for user %d: %v", userID, err)
			out = searchErrorText
		}
	}
	if err == nil {
		out = d.answers.Frame(ctx, userID, out)
	}
	d.sendAnswer(chatID, out)
}

func (d *Dispatcher) enqueueAnswer(ctx context.Context, chatID, userID int64, query string, legal bool) error {
	jobID, err := common.NewULID()
	if err != nil {
		return err
	}
	mode := answer.ModeWeb
	if legal {
		mode = answer.ModeLegal
	}
	job := &answer.Job{
		ID:     jobID,
		UserID: userID,
		ChatID: chatID,
		Query:  query,
		Mode:   mode,
		Status: answer.JobQueued,
	}
	if err := d.jobs.CreateJob(ctx, job); err != nil {
		return err
	}

	priority := uint8(queue.PriorityNormal)
	if d.ledger.IsActive(ctx, userID) {
		priority = queue.PriorityPremium
	}
	return d.pub.PublishJob(ctx, job.ID, priority)
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := d.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			log.Printf("callback answer failed: %v", err)
		}
	}()

	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	userID := cq.From.ID

	action := DecodeAction(cq.Data)
	switch action.Kind {
	case ActionDelivery:
		d.sendMenu(chatID, deliveryText)
	case ActionReturns:
		d.sendMenu(chatID, returnsText)
	case ActionHowToReturn:
		d.sendMenu(chatID, howToReturnText)
	case ActionRightsBuyer:
		d.sendMenu(chatID, rightsBuyerText)
	case ActionRightsSeller:
		d.sendMenu(chatID, rightsSellerText)
	case ActionFAQ:
		d.sendMenu(chatID, faqText)
	case ActionContacts:
		d.sendMenu(chatID, contactsText)

	case ActionGenerateClaim:
		d.setWaiting(userID, "")
		reply, err := d.intake.Start(ctx, userID)
		if err != nil {
			log.Printf("intake start for user %d: %v", userID, err)
			d.sendMenu(chatID, genericErrorText)
			return
		}
		d.send(chatID, reply.Text)

	case ActionSeller:
		reply, err := d.intake.SelectSeller(ctx, userID, action.Seller)
		if err != nil {
			if errors.Is(err, intake.ErrNoSession) {
				d.sendMenu(chatID, "Форма претензии не запущена. Нажмите «✍️ Автогенератор претензии».")
				return
			}
			log.Printf("seller select for user %d: %v", userID, err)
			d.sendMenu(chatID, genericErrorText)
			return
		}
		d.renderIntakeReply(chatID, reply)

	case ActionAskAI:
		d.setWaiting(userID, modeQuestion)
		d.sendKeyboard(chatID, askPrompt("🤖 Задайте вопрос — я поищу и сгенерирую понятный ответ."), exampleMenu())
	case ActionLegalAI:
		d.setWaiting(userID, modeLegal)
		d.sendKeyboard(chatID, askPrompt("⚖️ Опишите проблему (например: продавец не вернул деньги за брак)."), exampleMenu())

	case ActionAICancel:
		d.setWaiting(userID, "")
		if err := d.intake.Cancel(ctx, userID); err != nil {
			log.Printf("cancel for user %d: %v", userID, err)
		}
		d.sendMenu(chatID, "Отменено. Возвращаю в меню.")

	case ActionMainMenu:
		d.sendMenu(chatID, "Возвращаю в главное меню.")

	case ActionExample:
		q := exampleQuestions[action.Example]
		d.send(chatID, "🔎 Обрабатываю пример: "+q)
		d.deliverAnswer(ctx, chatID, userID, q, answer.LooksLegal(q))

	case ActionBuyPremium:
		d.sendInvoice(chatID, userID, payment.KindPremium)
	case ActionSupport:
		d.sendInvoice(chatID, userID, payment.KindSupport)
	case ActionConsult:
		d.sendInvoice(chatID, userID, payment.KindConsult)

	case ActionUnknown:
		d.sendMenu(chatID, unknownSectionText)
	}
}

func askPrompt(lead string) string {
	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("\n\nПримеры:\n")
	for _, q := range exampleQuestions {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Dispatcher) sendInvoice(chatID, userID int64, kind string) {
	if d.cfg.ProviderToken == "" {
		d.sendMenu(chatID, notConfiguredText)
		return
	}

	var (
		title, desc, label, startParam string
		amount                         int // minor units (kopecks)
	)
	switch kind {
	case payment.KindPremium:
		title, desc = "MarketSafe — Premium 30 дней", "Расширенные функции: приоритет ответов, расширенные шаблоны претензий."
		label, amount, startParam = "Premium — 30 дней", 29900, "premium-subscription"
	case payment.KindSupport:
		title, desc = "Поддержка MarketSafe", "Спасибо за поддержку проекта — вы помогаете развитию сервиса."
		label, amount, startParam = "Поддержать проект", 10000, "donate"
	case payment.KindConsult:
		title, desc = "MarketSafe — Консультация", "Предварительная оплата консультации. После оплаты с вами свяжется специалист."
		label, amount, startParam = "Консультация юриста", 99900, "consultation"
	}

	payload := fmt.Sprintf("%s:%d", kind, userID)
	inv := tgbotapi.NewInvoice(chatID, title, desc, payload,
		d.cfg.ProviderToken, startParam, "RUB",
		[]tgbotapi.LabeledPrice{{Label: label, Amount: amount}})
	if _, err := d.bot.Send(inv); err != nil {
		log.Printf("send invoice %s to chat %d: %v", kind, chatID, err)
		d.sendMenu(chatID, genericErrorText)
	}
}

func (d *Dispatcher) handlePayment(ctx context.Context, msg *tgbotapi.Message) {
	sp := msg.SuccessfulPayment
	d.send(msg.Chat.ID, fmt.Sprintf(
		"✅ Оплата прошла успешно!\nСумма: %.2f %s\nСпасибо за поддержку проекта MarketSafe ❤️",
		float64(sp.TotalAmount)/100, sp.Currency))

	ack := d.payments.Apply(ctx, payment.Event{
		PayerID:           msg.From.ID,
		CorrelationToken:  sp.InvoicePayload,
		Amount:            int64(sp.TotalAmount),
		Currency:          sp.Currency,
		ProviderReference: sp.ProviderPaymentChargeID,
	})
	d.sendMenu(msg.Chat.ID, ack)
}

func (d *Dispatcher) setWaiting(userID int64, mode string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mode == "" {
		delete(d.waiting, userID)
		return
	}
	d.waiting[userID] = mode
}

func (d *Dispatcher) getWaiting(userID int64) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.waiting[userID]
}

func (d *Dispatcher) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := d.bot.Send(msg); err != nil {
		log.Printf("send to chat %d: %v", chatID, err)
	}
}

// sendAnswer disables link previews so the source list stays compact.
func (d *Dispatcher) sendAnswer(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = mainMenu()
	if _, err := d.bot.Send(msg); err != nil {
		log.Printf("send answer to chat %d: %v", chatID, err)
	}
}

func (d *Dispatcher) sendMenu(chatID int64, text string) {
	d.sendKeyboard(chatID, text, mainMenu())
}

func (d *Dispatcher) sendKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = kb
	if _, err := d.bot.Send(msg); err != nil {
		log.Printf("send to chat %d: %v", chatID, err)
	}
}
