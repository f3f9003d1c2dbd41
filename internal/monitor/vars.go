package monitor

import (
	"fmt"
	"time"
)

var (
	tgAPI = "https://api.telegram.org"

	clientTimeout       = 5 * time.Second
	clientRetryWaitTime = 300 * time.Millisecond
	retryCount          = 3
)

var UnsuccessfulRequestError = fmt.Errorf("unsuccessful request")
var ErrMissingTelegramEnv = fmt.Errorf("TG_BOT_TOKEN and TG_BOT_CHAT must be set")

type sendTgMsgResponse struct {
	Result struct {
		MessageID *int `json:"message_id,omitempty"`
	} `json:"result"`
}
