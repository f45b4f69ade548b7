package notifysvc

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/notify"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// markdown emphasis does not belong in the e-mail copy
var plainText = strings.NewReplacer("*", "", `\_`, "_", `\[`, "[", "\\`", "`")

type sendgridService struct {
	key        string
	host       string
	from       *sgmail.Email
	to         *sgmail.Email
	subjPrefix string
	client     *rest.Client
	nowFunc    func() time.Time
}

var _ notify.Notifier = (*sendgridService)(nil)

// NewSendgridService e-mails a copy of every submission to the teacher.
func NewSendgridService(conf *core.Config) (notify.Notifier, error) {
	if conf.SendgridAPIKey == "" || conf.Teacher.Email == "" {
		return nil, notify.ErrNotConfigured
	}
	from, err := mail.ParseAddress(conf.DefaultFromEmail)
	if err != nil {
		return nil, errors.Wrap(err, "parsing default from email")
	}
	to, err := mail.ParseAddress(conf.Teacher.Email)
	if err != nil {
		return nil, errors.Wrap(err, "parsing teacher email")
	}
	return &sendgridService{
		key:        conf.SendgridAPIKey,
		host:       host,
		from:       sgmail.NewEmail(from.Name, from.Address),
		to:         sgmail.NewEmail(to.Name, to.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		client:     &rest.Client{HTTPClient: &http.Client{Timeout: conf.Notify.Timeout}},
		nowFunc:    time.Now,
	}, nil
}

func (svc *sendgridService) prepare(sub notify.Submission) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = fmt.Sprintf("%s%s - %s unit %s: %d%%", svc.subjPrefix, sub.StudentName, sub.Book, sub.Unit, sub.Percentage)
	p.AddTos(svc.to)

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", plainText.Replace(notify.Message(sub, svc.nowFunc()))))
	return m
}

func (svc *sendgridService) Notify(ctx context.Context, sub notify.Submission) (notify.Receipt, error) {
	req := sendgrid.GetRequest(svc.key, endpoint, svc.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(svc.prepare(sub))

	res, err := send(ctx, svc.client, req)
	if err != nil {
		return notify.Receipt{}, errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return notify.Receipt{}, &notify.APIError{Code: res.StatusCode, Description: res.Body}
	}
	return notify.Receipt{}, nil
}
