package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/notify"
	"github.com/trezcool/ielts/core/progress"
	"github.com/trezcool/ielts/core/reading"
	"github.com/trezcool/ielts/core/student"
	"github.com/trezcool/ielts/core/teacher"
	"github.com/trezcool/ielts/services/notify"
	"github.com/trezcool/ielts/storage/inmem"
	"github.com/trezcool/ielts/tests"
)

const (
	teacherPassword = "s3cret"
	availableBook   = "thoughts_and_notions"
	comingSoonBook  = "reading_explorer"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testApp struct {
	*Server
	logger *testutil.Logger
}

func newTestConfig() *core.Config {
	return &core.Config{
		Env:       core.EnvTest,
		TestMode:  true,
		AppName:   "IELTS Test",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
		Notify:  core.NotifyConfig{Timeout: time.Second},
		Teacher: core.TeacherConfig{Password: teacherPassword},
	}
}

// setup returns a server backed by the built-in catalog and in-memory storage.
// The forwarder serves /api/telegram; nil uses the console mock.
func setup(t *testing.T, forwarder notify.Notifier) *testApp {
	t.Helper()
	conf := newTestConfig()
	logger := &testutil.Logger{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	catalog := content.Default()
	tracker := progress.NewService(inmem.NewProgressRepository(inmem.NewDB()), catalog)
	ctrl := reading.NewController(catalog, tracker, notifysvc.NewConsoleServiceMock(), logger, conf)
	if forwarder == nil {
		forwarder = notifysvc.NewConsoleServiceMock()
	}

	srv := NewServer(conf, make(chan os.Signal, 1), &Deps{
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Controller: ctrl,
		Tracker:    tracker,
		Teacher:    teacher.NewAuthenticator(conf),
		Forwarder:  forwarder,
	})
	return &testApp{Server: srv, logger: logger}
}

// do serves the request and returns the recorder.
func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

// login logs a student in and returns their token.
func (app *testApp) login(t *testing.T, name, surname, group string) (string, student.User) {
	t.Helper()
	body := marshalObj(t, student.NewUser{Name: name, Surname: surname, Group: group})
	rec := app.do(http.MethodPost, "/api/students/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User
}

func (app *testApp) teacherToken(t *testing.T) string {
	t.Helper()
	token, err := app.jwt.GenerateToken(app.jwt.TeacherClaims())
	require.NoError(t, err)
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code)
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestServer_home(t *testing.T) {
	app := setup(t, nil)
	rec := app.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to IELTS Test!", rec.Body.String())
}
