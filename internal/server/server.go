// Package server exposes the invoice pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailco/taxproc/internal/config"
	"github.com/retailco/taxproc/internal/llm"
	"github.com/retailco/taxproc/internal/parser/pdf"
	"github.com/retailco/taxproc/internal/processor"
	"github.com/retailco/taxproc/internal/taxonomy"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	table    *taxonomy.Table
	timeout  time.Duration
}

// NewServer creates a new API server over the shared process
// configuration. The category table is loaded once at construction;
// failure there is fatal.
func NewServer(serverCfg *Config, appCfg *config.Config) (*Server, error) {
	if err := appCfg.Validate(); err != nil {
		return nil, err
	}

	table, err := taxonomy.Load(appCfg.CategoryFile)
	if err != nil {
		return nil, err
	}

	if !serverCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if serverCfg.Debug {
		router.Use(gin.Logger())
	}

	var clientOpts []llm.ClientOption
	if appCfg.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(appCfg.BaseURL))
	}
	clientOpts = append(clientOpts, llm.WithTimeout(appCfg.Timeout))
	client := llm.NewClient(appCfg.APIKey, clientOpts...)

	pipeline := processor.NewPipeline(
		llm.NewExtractor(client,
			llm.WithExtractionModel(appCfg.ExtractionModel),
			llm.WithExtractionMaxTokens(appCfg.MaxTokens)),
		llm.NewClassifier(client, llm.WithClassificationModel(appCfg.ClassificationModel)),
		llm.NewExemptionDetector(client, llm.WithDetectionModel(appCfg.ClassificationModel)),
		table,
	)

	s := &Server{
		config:   serverCfg,
		router:   router,
		pipeline: pipeline,
		table:    table,
		timeout:  appCfg.Timeout,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/categories", s.handleCategories)
		v1.POST("/process", s.handleProcess)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	names := s.table.Categories()
	categories := make([]CategoryOutput, 0, len(names))
	for _, name := range names {
		rate, _ := s.table.Rate(name)
		categories = append(categories, CategoryOutput{
			Name: name,
			Rate: rate.String(),
		})
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Count:      len(categories),
		Categories: categories,
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	if !pdf.IsPDF(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not a PDF document"})
		return
	}

	name := c.Query("filename")
	if name == "" {
		name = "upload.pdf"
	}

	doc, err := pdf.Prepare(name, body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	result := s.pipeline.Process(ctx, doc)
	if result.Error != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    result.Error.Error(),
			"stage":    string(result.Stage),
			"warnings": result.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{
		Invoice:  result.Invoice,
		Warnings: result.Warnings,
	})
}
