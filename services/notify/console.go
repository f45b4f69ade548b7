package notifysvc

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/trezcool/ielts/core/notify"
)

var (
	// SentMessages keeps the messages "sent" by the console service, for tests.
	SentMessages = make([]string, 0)
	mu           sync.Mutex
)

type consoleService struct {
	disableOutput bool
	nowFunc       func() time.Time
}

var _ notify.Notifier = (*consoleService)(nil)

// NewConsoleService simulates notifications by printing them. Used in development when Telegram is not configured.
func NewConsoleService() notify.Notifier {
	return &consoleService{nowFunc: time.Now}
}

// NewConsoleServiceMock does not print anything.
func NewConsoleServiceMock() notify.Notifier {
	return &consoleService{disableOutput: true, nowFunc: time.Now}
}

func (svc *consoleService) Notify(_ context.Context, sub notify.Submission) (notify.Receipt, error) {
	msg := notify.Message(sub, svc.nowFunc())
	if !svc.disableOutput {
		log.Println(msg)
	}
	mu.Lock()
	SentMessages = append(SentMessages, msg)
	mu.Unlock()
	return notify.Receipt{Simulated: true}, nil
}

type disabledService struct{}

// NewDisabledService is used in production when Telegram is not configured: every notification fails.
func NewDisabledService() notify.Notifier {
	return disabledService{}
}

func (disabledService) Notify(context.Context, notify.Submission) (notify.Receipt, error) {
	return notify.Receipt{}, notify.ErrNotConfigured
}
