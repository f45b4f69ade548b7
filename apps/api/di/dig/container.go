package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/ielts/apps/api/echo"
	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/notify"
	"github.com/trezcool/ielts/core/progress"
	"github.com/trezcool/ielts/core/reading"
	"github.com/trezcool/ielts/core/teacher"
	logsvc "github.com/trezcool/ielts/services/logger"
	notifysvc "github.com/trezcool/ielts/services/notify"
	"github.com/trezcool/ielts/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ForwarderParam struct {
	dig.In
	Notifier notify.Notifier `name:"forwarder"`
}

type TeacherNotifierParam struct {
	dig.In
	Notifier notify.Notifier `name:"teacherNotifier"`
}

type ServerParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Controller *reading.Controller
	Tracker    *progress.Service
	Teacher    *teacher.Authenticator
	Forwarder  notify.Notifier `name:"forwarder"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) storage.Storage {
	st, err := storage.Open(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage.Engine, err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("progress storage: %s", conf.Storage.Engine))
	return st
}

func newProgressRepository(st storage.Storage) progress.Repository {
	return st.Repo
}

func newCatalog(conf *core.Config, logger core.Logger) *content.Catalog {
	return content.Load(os.DirFS(conf.Content.Dir), logger)
}

// newForwarder returns the notifier behind /api/telegram.
// Without Telegram secrets, notifications are simulated outside of production.
func newForwarder(conf *core.Config, logger core.Logger) notify.Notifier {
	if conf.Telegram.Configured() {
		svc, err := notifysvc.NewTelegramService(conf, logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up telegram: %v", err), err)
		}
		return svc
	}
	if conf.IsProduction() {
		logger.Warn("telegram is not configured: submissions will not be forwarded")
		return notifysvc.NewDisabledService()
	}
	return notifysvc.NewConsoleService()
}

// newTeacherNotifier sends graded submissions to the forwarder, and by e-mail when SendGrid is set up.
func newTeacherNotifier(conf *core.Config, logger core.Logger, fwd ForwarderParam) notify.Notifier {
	var copies []notify.Notifier
	if conf.SendgridAPIKey != "" && conf.Teacher.Email != "" {
		mailSvc, err := notifysvc.NewSendgridService(conf)
		if err != nil {
			logger.Error(fmt.Sprintf("setting up sendgrid: %v", err), err)
		} else {
			copies = append(copies, mailSvc)
		}
	}
	return notify.Fanout(logger, fwd.Notifier, copies...)
}

func newTeacherAuthenticator(conf *core.Config, logger core.Logger) *teacher.Authenticator {
	auth := teacher.NewAuthenticator(conf)
	if !auth.Configured() {
		logger.Warn("teacher password is not configured: the dashboard is locked")
	}
	return auth
}

func newController(
	catalog *content.Catalog,
	tracker *progress.Service,
	notifier TeacherNotifierParam,
	logger core.Logger,
	conf *core.Config,
) *reading.Controller {
	return reading.NewController(catalog, tracker, notifier.Notifier, logger, conf)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, nil /* shutdown */, &echoapi.Deps{
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		Controller: p.Controller,
		Tracker:    p.Tracker,
		Teacher:    p.Teacher,
		Forwarder:  p.Forwarder,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newProgressRepository))
	must(c.Provide(newCatalog))
	must(c.Provide(progress.NewService))
	must(c.Provide(newForwarder, dig.Name("forwarder")))
	must(c.Provide(newTeacherNotifier, dig.Name("teacherNotifier")))
	must(c.Provide(newTeacherAuthenticator))
	must(c.Provide(newController))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
