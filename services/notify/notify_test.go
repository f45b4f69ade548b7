package notifysvc

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/notify"
	testutil "github.com/trezcool/ielts/tests"
)

var (
	now = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)
	sub = notify.Submission{
		StudentName:    "Ann Lee",
		StudentID:      "u1",
		Group:          "IELTS 5",
		Book:           "Thoughts and Notions",
		Unit:           "1.1",
		Score:          2,
		TotalQuestions: 3,
		Percentage:     67,
	}
)

func telegramConf(apiURL string) *core.Config {
	return &core.Config{
		Telegram: core.TelegramConfig{BotToken: "123:abc", ChatID: "-42", APIURL: apiURL},
		Notify:   core.NotifyConfig{Timeout: time.Second},
	}
}

func TestNewTelegramService_notConfigured(t *testing.T) {
	_, err := NewTelegramService(&core.Config{Telegram: core.TelegramConfig{BotToken: "123:abc"}}, &testutil.Logger{})
	assert.Equal(t, notify.ErrNotConfigured, err)
}

func TestTelegramService_Notify(t *testing.T) {
	var (
		gotPath string
		gotBody sendMessageRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := ioutil.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":99}}`))
	}))
	defer srv.Close()

	logger := &testutil.Logger{}
	n, err := NewTelegramService(telegramConf(srv.URL+"/"), logger)
	require.NoError(t, err)
	n.(*telegramService).nowFunc = func() time.Time { return now }

	receipt, err := n.Notify(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, notify.Receipt{MessageID: 99}, receipt)
	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, sendMessageRequest{
		ChatID:    "-42",
		Text:      notify.Message(sub, now),
		ParseMode: "Markdown",
	}, gotBody)
	assert.Equal(t, 1, logger.Count("INFO"))
}

func TestTelegramService_Notify_errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *notify.APIError
	}{
		{
			name:   "rejected",
			status: http.StatusBadRequest,
			body:   `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
			want:   &notify.APIError{Code: 400, Description: "Bad Request: chat not found"},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"ok":false,"error_code":401,"description":"Unauthorized"}`,
			want:   &notify.APIError{Code: 401, Description: "Unauthorized"},
		},
		{
			name:   "not json",
			status: http.StatusBadGateway,
			body:   `bad gateway`,
			want:   &notify.APIError{Code: 502, Description: "invalid response: bad gateway"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			n, err := NewTelegramService(telegramConf(srv.URL), &testutil.Logger{})
			require.NoError(t, err)
			_, err = n.Notify(context.Background(), sub)
			assert.Equal(t, tc.want, errors.Cause(err))
		})
	}
}

func TestTelegramService_Notify_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	n, err := NewTelegramService(telegramConf(srv.URL), &testutil.Logger{})
	require.NoError(t, err)
	_, err = n.Notify(context.Background(), sub)
	require.Error(t, err)
	_, isAPIErr := errors.Cause(err).(*notify.APIError)
	assert.False(t, isAPIErr)
}

func TestConsoleService(t *testing.T) {
	before := len(SentMessages)
	receipt, err := NewConsoleServiceMock().Notify(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, notify.Receipt{Simulated: true}, receipt)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, SentMessages, before+1)
	assert.Contains(t, SentMessages[before], "👤 *Student:* Ann Lee")
}

func TestDisabledService(t *testing.T) {
	_, err := NewDisabledService().Notify(context.Background(), sub)
	assert.Equal(t, notify.ErrNotConfigured, err)
}

func TestSendgridService(t *testing.T) {
	conf := &core.Config{
		AppName:          "IELTS",
		DefaultFromEmail: "Platform <noreply@example.com>",
		SendgridAPIKey:   "SG.key",
		Teacher:          core.TeacherConfig{Email: "teacher@example.com"},
		Notify:           core.NotifyConfig{Timeout: time.Second},
	}

	_, err := NewSendgridService(&core.Config{SendgridAPIKey: "SG.key"})
	assert.Equal(t, notify.ErrNotConfigured, err)

	t.Run("ok", func(t *testing.T) {
		var (
			gotAuth string
			gotBody map[string]interface{}
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			b, _ := ioutil.ReadAll(r.Body)
			_ = json.Unmarshal(b, &gotBody)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		n, err := NewSendgridService(conf)
		require.NoError(t, err)
		n.(*sendgridService).host = srv.URL

		_, err = n.Notify(context.Background(), sub)
		require.NoError(t, err)
		assert.Equal(t, "Bearer SG.key", gotAuth)

		personalizations := gotBody["personalizations"].([]interface{})
		p := personalizations[0].(map[string]interface{})
		assert.Equal(t, "[IELTS] Ann Lee - Thoughts and Notions unit 1.1: 67%", p["subject"])
		contents := gotBody["content"].([]interface{})
		text := contents[0].(map[string]interface{})["value"].(string)
		assert.False(t, strings.Contains(text, "*"))
		assert.Contains(t, text, "Student: Ann Lee")
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
		}))
		defer srv.Close()

		n, err := NewSendgridService(conf)
		require.NoError(t, err)
		n.(*sendgridService).host = srv.URL

		_, err = n.Notify(context.Background(), sub)
		apiErr, ok := errors.Cause(err).(*notify.APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
	})
}

func TestTelegramService_Notify_canceled(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	n, err := NewTelegramService(telegramConf(srv.URL), &testutil.Logger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = n.Notify(ctx, sub)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits)
}
