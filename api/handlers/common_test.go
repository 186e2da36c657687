// Common test helpers
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/chiehyu/popodoc/config"
	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/db/persondb/persondbtest"
	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/bot"
	"github.com/chiehyu/popodoc/services/search"
	"github.com/chiehyu/popodoc/services/session"
	"github.com/chiehyu/popodoc/validation"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/require"
)

const testChannelSecret = "test-channel-secret"

var testPeople = []persondb.Person{
	{ID: 1, City: "台北", Hospital: "台大醫院", Department: "牙科", Name: "王小明", Education: "牙醫學系", University: "台灣大學", GraduationStatus: persondb.GraduationStatusGraduated},
	{ID: 2, City: "台北", Hospital: "馬偕紀念醫院", Department: "小兒科", Name: "陳大文", University: "陽明大學", GraduationStatus: persondb.GraduationStatusGraduated},
	{ID: 3, City: "新北", Hospital: "亞東醫院", Department: "牙科", Name: "王美麗", University: "台灣大學", GraduationStatus: persondb.GraduationStatusStudying},
	{ID: 4, City: "高雄", Hospital: "高雄榮總", Department: "", Name: "林志明", GraduationStatus: persondb.GraduationStatusGraduated},
}

type testCase struct {
	name             string
	queryParams      map[string]string
	expectedStatus   int
	expectedBody     []string
	unexpectedBody   []string
	expectedHeaders  map[string]string
	expectedDataSize int
}

type capturedReply struct {
	replyToken string
	messages   []messaging_api.MessageInterface
}

type fakeReplier struct {
	replies []capturedReply
}

func (f *fakeReplier) Reply(replyToken string, messages []messaging_api.MessageInterface) error {
	f.replies = append(f.replies, capturedReply{replyToken: replyToken, messages: messages})
	return nil
}

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupTestServer(t *testing.T, assert *require.Assertions, people []persondb.Person) (*gin.Engine, *fakeReplier) {

	t.Setenv("ENV", "test")

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	db := &persondbtest.Fake{People: people}
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	replier := &fakeReplier{}
	searchService := search.New(testLogger, db)
	sessions := session.New(testLogger, cfg.GetSessionTTL())
	botService := bot.New(testLogger, searchService, sessions, replier)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupPersonnel(router, testLogger, db, validator, cfg)
	SetupWebhook(router, testLogger, botService, testChannelSecret)

	return router, replier
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, queryParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)

	query := req.URL.Query()
	for key, value := range queryParams {
		query.Set(key, value)
	}
	req.URL.RawQuery = query.Encode()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func decodeDataSlice(t *testing.T, body []byte) []any {
	t.Helper()

	var decoded struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded.Data
}
