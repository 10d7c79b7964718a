package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bloggie/config"
	"bloggie/models"
	"bloggie/providers"
	"bloggie/providers/gemini"
	"bloggie/providers/plagiarism"
	"bloggie/services"
	"bloggie/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

var blogsOptimizedCounter prometheus.Counter

func init() {
	blogsOptimizedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blogs_optimized_total",
			Help: "Total number of blog posts run through the optimization stage.",
		},
	)
	prometheus.MustRegister(blogsOptimizedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// identityMiddleware hinterlegt die Aufrufer-ID im Gin-Context. Routen, die
// Identität brauchen, holen sie per callerID; alle anderen ignorieren sie.
func identityMiddleware(provider services.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := provider.CallerID(c.Request); ok {
			c.Set("userID", id)
		}
		c.Next()
	}
}

func callerID(c *gin.Context) (string, bool) {
	id := c.GetString("userID")
	return id, id != ""
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.BusinessContext{}, &models.StrategySession{}, &models.BlogPost{}, &models.Feedback{})

	// Setup Gemini + Plagiarism Checker
	generator, err := gemini.NewClient(context.Background(), cfg, logging)
	if err != nil {
		logging.Fatal("Gemini client creation failed", zap.Error(err))
	}
	checker := plagiarism.NewMockChecker()

	// Setup Services
	optimizer := services.NewOptimizer(generator, logging)
	schemaSvc := services.NewSchemaService(generator, logging)
	contextSvc := services.NewBusinessContextService(db, logging)
	strategySvc := services.NewStrategyService(db, logging)

	// Setup Upload Storage
	localStore, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		logging.Fatal("Upload dir setup failed", zap.Error(err))
	}
	var s3Client *awss3.Client
	if cfg.S3Enabled() {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		logging.Info("S3 upload mirror enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.Use(identityMiddleware(services.HeaderIdentity{}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(storage.PublicPrefix, cfg.UploadDir)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "bloggie-api"})
	})

	// Setup Routes
	setupBusinessContextRoutes(router, contextSvc, logging)
	setupStrategyRoutes(router, strategySvc, logging)
	setupContentRoutes(router, optimizer, schemaSvc, checker, logging)
	setupTextRoutes(router, generator, logging)
	setupFeedbackRoutes(router, db, logging)
	setupBlogRoutes(router, db, logging)
	setupAccountRoutes(router, db, logging)
	setupUploadRoutes(router, cfg, localStore, s3Client, logging)

	// Setup Cron: alte Uploads aufräumen
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		retention := time.Duration(cfg.UploadRetentionDays) * 24 * time.Hour
		removed, err := localStore.Sweep(retention)
		if err != nil {
			logging.Error("Upload sweep failed", zap.Error(err))
		} else {
			logging.Info("Upload sweep completed", zap.Int("removed", removed))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupBusinessContextRoutes(router *gin.Engine, svc *services.BusinessContextService, log *zap.Logger) {
	rg := router.Group("/business-contexts")

	rg.POST("", func(c *gin.Context) {
		var bizCtx models.BusinessContext
		if err := c.ShouldBindJSON(&bizCtx); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if id, ok := callerID(c); ok {
			bizCtx.UserID = id
		}
		if err := svc.Create(&bizCtx); err != nil {
			if errors.Is(err, services.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save business context"})
			return
		}
		c.JSON(http.StatusCreated, bizCtx)
	})

	rg.GET("", func(c *gin.Context) {
		contexts, err := svc.List()
		if err != nil {
			log.Error("Database query for business contexts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, contexts)
	})
}

func setupStrategyRoutes(router *gin.Engine, svc *services.StrategyService, log *zap.Logger) {
	rg := router.Group("/strategy-sessions")

	// GET - jüngste Session, optional nach Business-Kontext gefiltert.
	// Keine Treffer sind kein Fehler: die Antwort ist dann JSON null.
	rg.GET("/latest", func(c *gin.Context) {
		var bizCtxID *uint
		if raw := c.Query("businessContextId"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid businessContextId"})
				return
			}
			id := uint(parsed)
			bizCtxID = &id
		}
		session, err := svc.GetLatest(bizCtxID)
		if err != nil {
			log.Error("Failed to fetch latest strategy session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, session)
	})

	// POST - Upsert-auf-ID: mit ID wird aktualisiert, ohne ID eingefügt.
	rg.POST("", func(c *gin.Context) {
		var session models.StrategySession
		if err := c.ShouldBindJSON(&session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		stored, err := svc.Create(&session)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Strategy session not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save strategy session"})
			return
		}
		c.JSON(http.StatusOK, stored)
	})

	rg.DELETE("", func(c *gin.Context) {
		raw := c.Query("id")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := svc.Delete(uint(id)); err != nil {
			log.Error("Failed to delete strategy session", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func setupContentRoutes(router *gin.Engine, optimizer *services.Optimizer, schemaSvc *services.SchemaService, checker providers.PlagiarismChecker, log *zap.Logger) {
	rg := router.Group("/content")

	// POST - Optimierungs-Stufe. Der blogPost wird als Roh-JSON durchgereicht,
	// damit der Prompt die Eingabe wortwörtlich enthält.
	rg.POST("/optimize", func(c *gin.Context) {
		var req struct {
			BlogPost   json.RawMessage `json:"blogPost"`
			IsRefining bool            `json:"isRefining"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(req.BlogPost) == 0 || string(req.BlogPost) == "null" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "blogPost is required"})
			return
		}
		if !json.Valid(req.BlogPost) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "blogPost is not valid JSON"})
			return
		}

		optimized, err := optimizer.Optimize(c.Request.Context(), req.BlogPost, req.IsRefining)
		if err != nil {
			log.Error("Content optimization failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		blogsOptimizedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{"optimized": optimized})
	})

	rg.POST("/plagiarism-check", func(c *gin.Context) {
		var req struct {
			OptimizedContent *models.OptimizedContent `json:"optimizedContent"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OptimizedContent == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "optimizedContent is required"})
			return
		}
		report, err := checker.Check(c.Request.Context(), req.OptimizedContent)
		if err != nil {
			log.Error("Plagiarism check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Plagiarism check failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"report": report})
	})

	rg.POST("/schema", func(c *gin.Context) {
		var req struct {
			OptimizedContent *models.OptimizedContent `json:"optimizedContent"`
			BusinessContext  *models.BusinessContext  `json:"businessContext"`
			Meta             *models.MetaOption       `json:"meta"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.OptimizedContent == nil || req.BusinessContext == nil || req.Meta == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "optimizedContent, businessContext and meta are required"})
			return
		}
		schemaData, err := schemaSvc.Generate(c.Request.Context(), req.OptimizedContent, req.BusinessContext, *req.Meta)
		if err != nil {
			log.Error("Schema generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"schemaData": schemaData})
	})

	// POST - CTA-Stufe: deterministisch, kein LLM-Aufruf. updatedMarkdown ist
	// eine Vorschau; gespeichert wird nichts (der Mensch editiert zuerst).
	rg.POST("/cta", func(c *gin.Context) {
		var req struct {
			OptimizedContent *models.OptimizedContent `json:"optimizedContent"`
			BusinessContext  *models.BusinessContext  `json:"businessContext"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OptimizedContent == nil || req.BusinessContext == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "optimizedContent and businessContext are required"})
			return
		}
		cta := services.BuildCTA(req.OptimizedContent, req.BusinessContext)
		updated := req.OptimizedContent.ContentMarkdown + services.RenderCTAMarkdown(cta)
		c.JSON(http.StatusOK, gin.H{"cta": cta, "updatedMarkdown": updated})
	})
}

// setupTextRoutes konfiguriert den generischen Text-Passthrough.
func setupTextRoutes(router *gin.Engine, generator providers.TextGenerator, log *zap.Logger) {
	rg := router.Group("/text")

	rg.POST("/generate", func(c *gin.Context) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prompt cannot be empty"})
			return
		}
		text, err := generator.Generate(c.Request.Context(), "", req.Prompt, false)
		if err != nil {
			log.Error("Text generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Text generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text})
	})
}

func setupFeedbackRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/feedback")

	// POST - reine Write-Senke, kein Lese-Pfad.
	rg.POST("", func(c *gin.Context) {
		var payload struct {
			BlogID          string `json:"blogId"`
			BlogTitle       string `json:"blogTitle"`
			UserEmail       string `json:"userEmail"`
			OverallRating   *int   `json:"overallRating"`
			ContentScore    *int   `json:"contentScore"`
			ContentFeedback string `json:"contentFeedback"`
			SEOScore        *int   `json:"seoScore"`
			SEOFeedback     string `json:"seoFeedback"`
			AgentFeedback   string `json:"agentFeedback"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if payload.BlogID == "" || payload.UserEmail == "" || payload.OverallRating == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "blogId, userEmail and overallRating are required"})
			return
		}

		feedback := models.Feedback{
			BlogID:          payload.BlogID,
			BlogTitle:       payload.BlogTitle,
			UserEmail:       payload.UserEmail,
			OverallRating:   *payload.OverallRating,
			ContentScore:    payload.ContentScore,
			ContentFeedback: payload.ContentFeedback,
			SEOScore:        payload.SEOScore,
			SEOFeedback:     payload.SEOFeedback,
			AgentFeedback:   payload.AgentFeedback,
		}
		if err := db.Create(&feedback).Error; err != nil {
			log.Error("Failed to save feedback", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func setupBlogRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/blogs")

	rg.POST("", func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var post models.BlogPost
		if err := c.ShouldBindJSON(&post); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(post.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		post.UserID = caller
		if err := db.Create(&post).Error; err != nil {
			log.Error("Failed to create blog post", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save blog post"})
			return
		}
		c.JSON(http.StatusCreated, post)
	})

	rg.GET("", func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var posts []models.BlogPost
		if err := db.Where("user_id = ?", caller).Order("created_at desc").Find(&posts).Error; err != nil {
			log.Error("Database query for blog posts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, posts)
	})

	// DELETE - 404 deckt "existiert nicht" und "gehört jemand anderem" ab,
	// um keine Existenz-Information zu leaken.
	rg.DELETE("/:id", func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id := c.Param("id")
		res := db.Where("id = ? AND user_id = ?", id, caller).Delete(&models.BlogPost{})
		if res.Error != nil {
			log.Error("Failed to delete blog post", zap.String("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted"})
	})
}

func setupAccountRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	// DELETE - entfernt alle Daten des Aufrufers. Feedback bleibt stehen
	// (per E-Mail verknüpft, nicht per User-ID).
	router.DELETE("/account", func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		contextIDs := db.Model(&models.BusinessContext{}).Select("id").Where("user_id = ?", caller)
		if err := db.Where("business_context_id IN (?)", contextIDs).Delete(&models.StrategySession{}).Error; err != nil {
			log.Error("Failed to delete strategy sessions for account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Where("user_id = ?", caller).Delete(&models.BlogPost{}).Error; err != nil {
			log.Error("Failed to delete blog posts for account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Where("user_id = ?", caller).Delete(&models.BusinessContext{}).Error; err != nil {
			log.Error("Failed to delete business contexts for account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		log.Info("Account data deleted", zap.String("user_id", caller))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func setupUploadRoutes(router *gin.Engine, cfg *config.Config, local *storage.LocalStore, s3Client *awss3.Client, log *zap.Logger) {
	router.POST("/uploads", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}

		url, err := local.Save(fileHeader.Filename, data)
		if err != nil {
			log.Error("Failed to store uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
			return
		}

		// Spiegel ist best effort: ein S3-Fehler kippt den Upload nicht.
		if s3Client != nil {
			key := strings.TrimPrefix(url, storage.PublicPrefix+"/")
			if _, err := storage.MirrorUpload(c.Request.Context(), s3Client, cfg, key, data); err != nil {
				log.Warn("S3 mirror failed", zap.String("key", key), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	})
}
