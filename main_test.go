package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bloggie/config"
	"bloggie/models"
	"bloggie/providers/plagiarism"
	"bloggie/services"
	"bloggie/storage"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	return s.response, s.err
}

const stubOptimizedJSON = "```json\n" + `{
	"title": "5 Tips",
	"slug": "5-tips",
	"metaDescription": "Five practical tips.",
	"contentMarkdown": "# Intro",
	"faqs": [],
	"internalLinks": [],
	"seoScores": {"overall": 92, "contentStructure": 88, "readability": 95, "targetKeywords": []}
}` + "\n```"

var testDBSeq int64

func newTestRouter(t *testing.T, generatorResponse string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Eindeutig benannte Shared-Cache-Memory-DB pro Test: bei ":memory:"
	// bekäme jede Pool-Connection ihre eigene Datenbank.
	dsn := fmt.Sprintf("file:maintest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BusinessContext{}, &models.StrategySession{}, &models.BlogPost{}, &models.Feedback{}))

	log := zap.NewNop()
	gen := &stubGenerator{response: generatorResponse}
	checker := &plagiarism.MockChecker{Delay: 0}

	localStore, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{UploadDir: localStore.Dir}

	router := gin.New()
	router.Use(identityMiddleware(services.HeaderIdentity{}))

	setupBusinessContextRoutes(router, services.NewBusinessContextService(db, log), log)
	setupStrategyRoutes(router, services.NewStrategyService(db, log), log)
	setupContentRoutes(router, services.NewOptimizer(gen, log), services.NewSchemaService(gen, log), checker, log)
	setupTextRoutes(router, gen, log)
	setupFeedbackRoutes(router, db, log)
	setupBlogRoutes(router, db, log)
	setupAccountRoutes(router, db, log)
	setupUploadRoutes(router, cfg, localStore, nil, log)

	return router, db
}

func doJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFeedbackMissingRating(t *testing.T) {
	router, db := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/feedback", `{"blogId":"42","userEmail":"a@b.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Feedback{}).Count(&count)
	assert.Zero(t, count)
}

func TestFeedbackSubmit(t *testing.T) {
	router, db := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/feedback", `{"blogId":"42","blogTitle":"5 Tips","userEmail":"a@b.com","overallRating":4,"seoScore":5}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	var count int64
	db.Model(&models.Feedback{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestOptimizeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, stubOptimizedJSON)

	body := `{"blogPost":{"title":"5 Tips","slug":"5-tips","metaDescription":"...","contentMarkdown":"# Intro","faqs":[],"status":"draft"},"isRefining":false}`
	w := doJSON(router, http.MethodPost, "/content/optimize", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Optimized models.OptimizedContent `json:"optimized"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Optimized.SEOScores.Overall, 0)
	assert.LessOrEqual(t, resp.Optimized.SEOScores.Overall, 100)
	require.NotNil(t, resp.Optimized.PlagiarismReport)
	assert.True(t, resp.Optimized.PlagiarismReport.IsSafe)
}

func TestOptimizeMissingBlogPost(t *testing.T) {
	router, _ := newTestRouter(t, stubOptimizedJSON)

	w := doJSON(router, http.MethodPost, "/content/optimize", `{"isRefining":true}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/content/optimize", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlagiarismEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/content/plagiarism-check", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/content/plagiarism-check", `{"optimizedContent":{"title":"5 Tips","contentMarkdown":"# Intro"}}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report models.PlagiarismReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Report.IsSafe)
	assert.Len(t, resp.Report.FlaggedSections, 1)
}

func TestCTAEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/content/cta", `{"optimizedContent":{"title":"x"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := `{"optimizedContent":{"title":"5 Tips","contentMarkdown":"# Intro"},"businessContext":{"businessName":"Sunrise Dental Care","businessType":"Dental Clinic"}}`
	w = doJSON(router, http.MethodPost, "/content/cta", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CTA             models.CTAData `json:"cta"`
		UpdatedMarkdown string         `json:"updatedMarkdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://sunrisedentalcare.bookings.app", resp.CTA.CTALink)
	assert.True(t, strings.HasPrefix(resp.UpdatedMarkdown, "# Intro"))
	assert.Contains(t, resp.UpdatedMarkdown, resp.CTA.CTALink)
}

func TestSchemaEndpointMissingParams(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/content/schema", `{"optimizedContent":{"title":"x"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTextGenerateEmptyPrompt(t *testing.T) {
	router, _ := newTestRouter(t, "hello")

	w := doJSON(router, http.MethodPost, "/text/generate", `{"prompt":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/text/generate", `{"prompt":"write a haiku"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")
}

func TestBusinessContextEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(router, http.MethodPost, "/business-contexts", `{"businessName":"Sunrise Dental Care","businessType":"Dental Clinic"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := `{"businessName":" Sunrise Dental Care ","businessType":"Dental Clinic","services":["Cleanings"],"targetAudience":"Families","positioning":"Gentle dentistry"}`
	w = doJSON(router, http.MethodPost, "/business-contexts", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.BusinessContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Sunrise Dental Care", created.BusinessName)
	assert.NotZero(t, created.ID)

	w = doJSON(router, http.MethodGet, "/business-contexts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.BusinessContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestStrategySessionEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, "")

	// Keine Session vorhanden: Antwort ist JSON null, kein Fehler.
	w := doJSON(router, http.MethodGet, "/strategy-sessions/latest", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))

	w = doJSON(router, http.MethodPost, "/strategy-sessions", `{"businessContextId":1,"keywordStrategy":{"primary":"dental tips"},"topicOptions":["a"]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.StrategySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.NotZero(t, stored.ID)

	w = doJSON(router, http.MethodDelete, "/strategy-sessions", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/strategy-sessions?id=999", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestBlogDelete(t *testing.T) {
	router, db := newTestRouter(t, "")

	post := models.BlogPost{UserID: "user-1", Title: "5 Tips", Slug: "5-tips"}
	require.NoError(t, db.Create(&post).Error)

	w := doJSON(router, http.MethodDelete, "/blogs/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Fremder Blog: 404, nicht 403 (keine Existenz-Info leaken)
	w = doJSON(router, http.MethodDelete, "/blogs/1", "", map[string]string{"X-User-ID": "someone-else"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/blogs/1", "", map[string]string{"X-User-ID": "user-1"})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.BlogPost{}).Count(&count)
	assert.Zero(t, count)
}

func TestAccountDelete(t *testing.T) {
	router, db := newTestRouter(t, "")

	require.NoError(t, db.Create(&models.BusinessContext{UserID: "user-1", BusinessName: "A", BusinessType: "B", TargetAudience: "C", Positioning: "D"}).Error)
	var bizCtx models.BusinessContext
	require.NoError(t, db.First(&bizCtx).Error)
	require.NoError(t, db.Create(&models.StrategySession{BusinessContextID: bizCtx.ID}).Error)
	require.NoError(t, db.Create(&models.BlogPost{UserID: "user-1", Title: "T"}).Error)

	w := doJSON(router, http.MethodDelete, "/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodDelete, "/account", "", map[string]string{"X-User-ID": "user-1"})
	require.Equal(t, http.StatusOK, w.Code)

	var contexts, sessions, posts int64
	db.Model(&models.BusinessContext{}).Count(&contexts)
	db.Model(&models.StrategySession{}).Count(&sessions)
	db.Model(&models.BlogPost{}).Count(&posts)
	assert.Zero(t, contexts)
	assert.Zero(t, sessions)
	assert.Zero(t, posts)
}

func TestUpload(t *testing.T) {
	router, _ := newTestRouter(t, "")

	// Ohne Datei: 400
	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "hero image.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req = httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, storage.PublicPrefix+"/"))
	assert.Contains(t, resp.URL, "hero-image.png")
}
