package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/fixtures"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type routes interface {
	RegisterRoutes(router gin.IRouter)
}

func newTestRouter(handlers ...routes) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/v1")
	for _, h := range handlers {
		h.RegisterRoutes(v1)
	}
	return router
}

func perform(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, target string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func seededRepository(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	files, err := fixtures.DemoFiles(testNow)
	require.NoError(t, err)
	for _, file := range files {
		_, err := repo.Add(context.Background(), file)
		require.NoError(t, err)
	}
	return repo
}

// streamAssistant streams fixed chunks, then returns err
type streamAssistant struct {
	chunks []string
	err    error
}

func (a *streamAssistant) StreamChat(ctx context.Context, history []domain.Message, userPrompt string, onChunk func(string)) error {
	for _, chunk := range a.chunks {
		onChunk(chunk)
	}
	return a.err
}
