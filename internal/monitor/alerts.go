package monitor

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/projectdiscovery/gologger"
)

// Notifier is told about proxies that stopped working.
type Notifier interface {
	Notify(ctx context.Context, dead []string) error
}

// TelegramAlerter posts the offline proxies to a Telegram chat and
// removes its previous alert so only the latest one stays visible.
type TelegramAlerter struct {
	client *resty.Client
	token  string
	chat   string

	mu           sync.Mutex
	lastTgMsgIDs []int
}

// NewTelegramAlerter reads TG_BOT_TOKEN and TG_BOT_CHAT from the environment.
func NewTelegramAlerter() (*TelegramAlerter, error) {
	token, chat := os.Getenv("TG_BOT_TOKEN"), os.Getenv("TG_BOT_CHAT")
	if token == "" || chat == "" {
		return nil, ErrMissingTelegramEnv
	}

	return newTelegramAlerter(tgAPI, token, chat), nil
}

func newTelegramAlerter(api, token, chat string) *TelegramAlerter {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(api, "/")+"/bot"+token).
		SetTimeout(clientTimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(clientRetryWaitTime)

	return &TelegramAlerter{client: client, token: token, chat: chat}
}

// Notify sends a new alert, then deletes the ones sent before it.
func (t *TelegramAlerter) Notify(ctx context.Context, dead []string) error {
	msgID, err := t.sendTgProxyAlert(ctx, dead)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.lastTgMsgIDs {
		if err := t.deleteTgMsg(ctx, m); err != nil {
			gologger.Error().Msgf("Error! %s", err)
		}
	}

	t.lastTgMsgIDs = t.lastTgMsgIDs[:0]
	if msgID != nil {
		t.lastTgMsgIDs = append(t.lastTgMsgIDs, *msgID)
	}

	return nil
}

func (t *TelegramAlerter) sendTgProxyAlert(ctx context.Context, proxies []string) (*int, error) {
	sendResp := &sendTgMsgResponse{}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chat_id":    t.chat,
			"text":       alertText(proxies),
			"parse_mode": "MarkdownV2",
		}).
		SetResult(sendResp).
		Post("/sendMessage")
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, UnsuccessfulRequestError
	}

	return sendResp.Result.MessageID, nil
}

func (t *TelegramAlerter) deleteTgMsg(ctx context.Context, msgID int) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chat_id":    t.chat,
			"message_id": strconv.Itoa(msgID),
		}).
		Post("/deleteMessage")
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return UnsuccessfulRequestError
	}

	return nil
}

// alertText renders the proxies as a MarkdownV2 pre block. Inside it only
// '`' and '\' need escaping.
func alertText(proxies []string) string {
	escape := strings.NewReplacer(`\`, `\\`, "`", "\\`")

	lines := make([]string, len(proxies))
	for i, p := range proxies {
		lines[i] = escape.Replace(p)
	}

	return "Offline proxies: ```copy\n" + strings.Join(lines, "\n") + "```"
}
