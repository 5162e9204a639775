package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/studyplan"
	"github.com/elimuhq/elimu/core/ticket"
	"github.com/elimuhq/elimu/core/user"
	contentsvc "github.com/elimuhq/elimu/services/content"
	emailsvc "github.com/elimuhq/elimu/services/email"
	inmemdb "github.com/elimuhq/elimu/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testLogger struct{}

func (testLogger) Enable(enabled bool)                   {}
func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

type testEnv struct {
	server Server
	usrSvc user.Service
	crsSvc course.Service
	tckSvc ticket.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{
		TestMode:        true,
		Env:             "TEST",
		AppName:         "Elimu",
		SecretKey:       []byte("test-secret-key"),
		FrontendBaseURL: "http://localhost:3000",
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	conf.Server.PasswordResetTimeoutDelta = time.Hour

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	course.RegisterValidators(validate, translator)
	ticket.RegisterValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db), contentsvc.NewDummyGenerator(), testLogger{})
	tckSvc := ticket.NewService(inmemdb.NewTicketRepository(db))

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testLogger{},
		UserSvc:        usrSvc,
		CourseSvc:      crsSvc,
		TicketSvc:      tckSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &testEnv{
		server: server,
		usrSvc: usrSvc,
		crsSvc: crsSvc,
		tckSvc: tckSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, name, username, email, pwd string, roles []string) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Username: username,
		Email:    email,
		Password: pwd,
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) createCourse(t *testing.T, owner user.User, title string, topics ...string) course.Course {
	t.Helper()
	nc := course.NewCourse{Title: title, Difficulty: "beginner"}
	for _, topic := range topics {
		nc.Topics = append(nc.Topics, rawTopic(topic, 1))
	}
	crs, err := env.crsSvc.Create(context.Background(), owner.ID, nc)
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return crs
}

func rawTopic(title string, hours float64) studyplan.RawTopic {
	return studyplan.RawTopic{Title: title, Hours: hours}
}

type httpErr struct {
	Error string `json:"error"`
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

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkData(t *testing.T, rec *httptest.ResponseRecorder, wantData []byte) {
	t.Helper()
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("data = %v; wantData %v", rec.Body.String(), string(wantData))
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("code = %v; wantCode %v; body: %s", rec.Code, wantCode, rec.Body.String())
	}
}

func checkError(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantErr httpErr) {
	t.Helper()
	if rec.Code != wantCode {
		t.Errorf("code = %v; wantCode %v; body: %s", rec.Code, wantCode, rec.Body.String())
	}
	var got httpErr
	decodeBody(t, rec, &got)
	if !reflect.DeepEqual(got, wantErr) {
		t.Errorf("error = %+v; want %+v", got, wantErr)
	}
}
