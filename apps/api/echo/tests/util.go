package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	. "github.com/bassiony1/public-ANEES/apps/api/echo"
	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
	sqlxrepos "github.com/bassiony1/public-ANEES/storage/database/sqlx"
	"github.com/bassiony1/public-ANEES/tests"
)

const downLabel = "down"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type deps struct {
	app      Server
	conf     *core.Config
	levels   *level.Service
	progress *progress.Service
	children *child.Service
}

// fakePredictor answers like the classifier; the "down" label simulates an unreachable one.
type fakePredictor struct{}

func (fakePredictor) Predict(_ context.Context, label, filename string, file io.Reader) (core.PredictResponse, error) {
	if label == downLabel {
		return core.PredictResponse{}, errors.New("connection refused")
	}
	data, _ := io.ReadAll(file)
	body, _ := json.Marshal(map[string]interface{}{"label": label, "filename": filename, "size": len(data)})
	return core.PredictResponse{StatusCode: http.StatusAccepted, Body: body}, nil
}

func setup(t *testing.T) deps {
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(t)
	validate, translator := testutil.NewValidator()

	// set up DB & services
	db := testutil.PrepareDB(t)
	childRepo := sqlxrepos.NewChildRepository(db)
	levelSvc := level.NewService(db, sqlxrepos.NewLevelRepository(db), validate)
	progressSvc := progress.NewService(db, sqlxrepos.NewChildLevelRepository(db), levelSvc, childRepo, validate, logger)
	childSvc := child.NewService(db, childRepo, progressSvc, levelSvc, validate)

	// set up server
	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		LevelSvc:       levelSvc,
		ProgressSvc:    progressSvc,
		ChildSvc:       childSvc,
		Predictor:      fakePredictor{},
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return deps{app: app, conf: conf, levels: levelSvc, progress: progressSvc, children: childSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name        string
	method      string
	path        string
	body        []byte
	contentType string
	token       string
	wantCode    int
	wantData    []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (d deps) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	if tt.contentType != "" {
		req.Header.Set("Content-Type", tt.contentType)
	}
	d.app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, conf *core.Config, c child.Child, isStaff bool) string {
	token, err := GenerateToken(NewClaims(c, isStaff, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func staffToken(t *testing.T, conf *core.Config) string {
	return getToken(t, conf, child.Child{ID: "staff", Username: "admin"}, true)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
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

// checkCodeAndData checks the response code, and the response data unless wantData is nil.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, d deps, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, d.serve(tt))
		})
	}
}
