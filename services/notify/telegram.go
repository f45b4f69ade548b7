package notifysvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/notify"
)

type (
	telegramService struct {
		baseURL string // <api url>/bot<token>
		chatID  string
		client  *rest.Client
		logger  core.Logger
		nowFunc func() time.Time
	}

	sendMessageRequest struct {
		ChatID              string `json:"chat_id"`
		Text                string `json:"text"`
		ParseMode           string `json:"parse_mode"`
		DisableNotification bool   `json:"disable_notification"`
	}

	sendMessageResponse struct {
		OK          bool   `json:"ok"`
		ErrorCode   int    `json:"error_code"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
)

var _ notify.Notifier = (*telegramService)(nil)

// NewTelegramService posts submissions to a Telegram chat through the Bot API.
func NewTelegramService(conf *core.Config, logger core.Logger) (notify.Notifier, error) {
	if !conf.Telegram.Configured() {
		return nil, notify.ErrNotConfigured
	}
	return &telegramService{
		baseURL: strings.TrimRight(conf.Telegram.APIURL, "/") + "/bot" + conf.Telegram.BotToken,
		chatID:  conf.Telegram.ChatID,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: conf.Notify.Timeout}},
		logger:  logger,
		nowFunc: time.Now,
	}, nil
}

func (svc *telegramService) Notify(ctx context.Context, sub notify.Submission) (notify.Receipt, error) {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    svc.chatID,
		Text:      notify.Message(sub, svc.nowFunc()),
		ParseMode: "Markdown",
	})
	if err != nil {
		return notify.Receipt{}, errors.Wrap(err, "encoding telegram message")
	}

	res, err := send(ctx, svc.client, rest.Request{
		Method:  rest.Post,
		BaseURL: svc.baseURL + "/sendMessage",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return notify.Receipt{}, errors.Wrap(err, "sending telegram message")
	}

	var data sendMessageResponse
	if err = json.Unmarshal([]byte(res.Body), &data); err != nil {
		return notify.Receipt{}, &notify.APIError{Code: res.StatusCode, Description: "invalid response: " + res.Body}
	}
	if !data.OK {
		return notify.Receipt{}, &notify.APIError{Code: data.ErrorCode, Description: data.Description}
	}
	svc.logger.Info("submission sent to telegram", "student", sub.StudentID, "message_id", data.Result.MessageID)
	return notify.Receipt{MessageID: data.Result.MessageID}, nil
}
