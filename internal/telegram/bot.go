// Package telegram serves the chat dispatcher as a long-polling Telegram
// bot. Every Telegram chat is its own session.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/logger"
)

const (
	baseDelay       = time.Second
	maxDelay        = 15 * time.Second
	idlePause       = 200 * time.Millisecond
	defaultLongPoll = 30 * time.Second
)

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Chat answers one message for a session. *dispatch.Service implements it.
type Chat interface {
	Handle(ctx context.Context, sessionID, input string) (dispatch.Reply, error)
	Reset(ctx context.Context, sessionID string) error
}

type Bot struct {
	api  API
	chat Chat
	log  *logger.Logger

	// PollTimeout is the long-polling wait per GetUpdates call.
	PollTimeout time.Duration

	sleep func(ctx context.Context, d time.Duration) bool
}

// Connect authenticates token against the Telegram API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return api, nil
}

func New(api API, chat Chat, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{api: api, chat: chat, log: log.With("component", "telegram"), PollTimeout: defaultLongPoll, sleep: sleepCtx}
}

// Run polls for updates until ctx is cancelled. Errors from Telegram are
// retried with a growing delay; they never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0
	delay := baseDelay
	for {
		if ctx.Err() != nil {
			return nil
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = int(b.PollTimeout / time.Second)

		updates, err := b.api.GetUpdates(u)
		if err != nil {
			d := max(retryDelay(err), delay)
			b.log.Warn("polling error", "error", err, "retry_in", d.String())
			if !b.sleep(ctx, d) {
				return nil
			}
			delay = min(delay*2, maxDelay)
			continue
		}
		delay = baseDelay

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			b.handle(ctx, upd)
		}
		if len(updates) == 0 && !b.sleep(ctx, idlePause) {
			return nil
		}
	}
}

const helpText = "Hi! Ask me about Nash equilibria, MinMax/Alpha-Beta, CSP or heuristics.\n" +
	"Ask for a problem with e.g. \"give me a nash problem\" and send your answer.\n" +
	"/reset drops the problem you are working on."

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	chatID := msg.Chat.ID
	sessionID := "tg:" + strconv.FormatInt(chatID, 10)

	var text string
	switch msg.Command() {
	case "start", "help":
		text = helpText
	case "reset":
		text = "Done. No problem is pending now."
		if err := b.chat.Reset(ctx, sessionID); err != nil {
			b.log.Error("reset failed", "session_id", sessionID, "error", err)
			text = "Something went wrong. Please try again."
		}
	default:
		reply, err := b.chat.Handle(ctx, sessionID, msg.Text)
		if err != nil {
			b.log.Error("chat failed", "session_id", sessionID, "error", err)
			text = "Something went wrong. Please try again."
		} else {
			text = reply.Text
		}
	}

	for _, part := range SplitMessage(text, maxMessageLen) {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			b.log.Warn("send failed", "chat_id", chatID, "error", err)
			return
		}
	}
}

var retryAfterRe = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// retryDelay reads the wait Telegram asks for on 429s.
func retryDelay(err error) time.Duration {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := retryAfterRe.FindStringSubmatch(s); m != nil {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return baseDelay
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
