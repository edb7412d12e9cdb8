package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/database"
	"github.com/stockroom/stockroom/internal/handlers"
	middlewareCustom "github.com/stockroom/stockroom/internal/middleware"
	"github.com/stockroom/stockroom/internal/repositories"
	"github.com/stockroom/stockroom/internal/routes"
	"github.com/stockroom/stockroom/internal/services"
	"github.com/stockroom/stockroom/internal/storage"
)

const (
	testJWTSecret   = "integration-test-secret-32-chars!"
	testFrontendURL = "http://localhost:3000"
)

// SentEmail represents a captured email message
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockEmailService captures sent emails for test assertions
type MockEmailService struct {
	mu         sync.Mutex
	SentEmails []SentEmail
}

// Send records the email instead of delivering it
func (m *MockEmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{
		To:      to,
		Subject: subject,
		Body:    htmlBody,
	})
	return nil
}

// WaitForEmail polls until at least n emails were captured. Email delivery is
// fire-and-forget, so tests must wait rather than assert immediately.
func (m *MockEmailService) WaitForEmail(n int, timeout time.Duration) *SentEmail {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		if len(m.SentEmails) >= n {
			email := m.SentEmails[n-1]
			m.mu.Unlock()
			return &email
		}
		m.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// MockUploader records uploads and hands back deterministic URLs
type MockUploader struct {
	mu      sync.Mutex
	Uploads []string
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*storage.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads = append(m.Uploads, fileName)
	return &storage.UploadResult{
		URL:      "https://cdn.test/" + fileName,
		Size:     storage.FormatFileSize(int64(len(data)), 2),
		MimeType: mimeType,
	}, nil
}

// TestServer wraps httptest.Server with the full application wiring on a
// real database, with email and blob storage mocked out.
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	Uploader     *MockUploader
	TokenManager *auth.TokenManager
}

// NewTestServer wires repositories, services, handlers and middleware exactly
// as cmd/api does and serves them over httptest.
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.Default()

	userRepo := repositories.NewUserRepository(db)
	resetTokenRepo := repositories.NewResetTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)

	tokenManager := auth.NewTokenManager(testJWTSecret, 24*time.Hour)
	emailService := &MockEmailService{}
	uploader := &MockUploader{}

	resetService := services.NewPasswordResetService(resetTokenRepo, 30*time.Minute, logger)
	authService := services.NewAuthService(userRepo, tokenManager, resetService, emailService, testFrontendURL, logger)
	productService := services.NewProductService(productRepo, uploader, logger)

	userHandler := handlers.NewUserHandler(authService)
	productHandler := handlers.NewProductHandler(productService, tokenManager)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(testFrontendURL)))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, userHandler, productHandler)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           db,
		EmailService: emailService,
		Uploader:     uploader,
		TokenManager: tokenManager,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// DoJSON issues a JSON request against the test server
func (ts *TestServer) DoJSON(method, path string, body interface{}, token string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return resp, respBody, nil
}
