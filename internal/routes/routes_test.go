package routes_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/campusguard/campusguard-backend/internal/config"
	"github.com/campusguard/campusguard-backend/internal/handlers"
	"github.com/campusguard/campusguard-backend/internal/models"
	"github.com/campusguard/campusguard-backend/internal/routes"
	"github.com/campusguard/campusguard-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	app            *fiber.App
	db             *gorm.DB
	adminToken     string
	counselorToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}, &models.Report{}, &models.ReportUpdate{}, &models.Attachment{}, &models.SystemLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		CORSOrigins:       "*",
		UploadDir:         t.TempDir(),
		MaxAttachmentSize: 1 << 20,
	}

	authService := services.NewAuthService(db, cfg)
	reportService := services.NewReportService(db)
	attachmentService := services.NewAttachmentService(db, cfg.UploadDir, cfg.MaxAttachmentSize)

	ctx := context.Background()
	if _, err := authService.CreateAdmin(ctx, "admin@school.edu", "admin-password", "Admin", "admin"); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	if _, err := authService.CreateAdmin(ctx, "counselor@school.edu", "counselor-password", "Counselor", "counselor"); err != nil {
		t.Fatalf("failed to create counselor: %v", err)
	}
	adminToken, _, err := authService.Login(ctx, "admin@school.edu", "admin-password")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	counselorToken, _, err := authService.Login(ctx, "counselor@school.edu", "counselor-password")
	if err != nil {
		t.Fatalf("counselor login failed: %v", err)
	}

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewReportHandler(reportService),
		handlers.NewAttachmentHandler(attachmentService),
		handlers.NewHealthHandler(db),
	)

	return &testServer{app: app, db: db, adminToken: adminToken, counselorToken: counselorToken}
}

func (ts *testServer) request(t *testing.T, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()
	return resp, payload
}

func TestSubmitReport_ValidationAndPersistence(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.request(t, "POST", "/api/reports/submit",
		`{"category":"invalid","severity":"high","description":"something happened"}`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid category, got %d: %s", resp.StatusCode, body)
	}

	var count int64
	ts.db.Model(&models.Report{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submission must not persist a row, found %d", count)
	}

	resp, body = ts.request(t, "POST", "/api/reports/submit",
		`{"category":"bullying","severity":"high","description":"something happened","reporter_email":"student@school.edu"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	var report models.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if !regexp.MustCompile(`^CG[0-9A-F]{16}$`).MatchString(report.TrackingID) {
		t.Errorf("tracking id %q has wrong shape", report.TrackingID)
	}
	if report.Status != "pending" {
		t.Errorf("expected pending, got %q", report.Status)
	}
}

func TestStatusLookup(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.request(t, "POST", "/api/reports/submit",
		`{"category":"other","severity":"low","description":"lookup test"}`, "")
	var report models.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}

	resp, body := ts.request(t, "GET", "/api/reports/status/"+report.TrackingID, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	resp, _ = ts.request(t, "GET", "/api/reports/status/CG0000000000000000", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tracking id, got %d", resp.StatusCode)
	}
}

func TestListReports_AuthMatrix(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.request(t, "GET", "/api/reports/", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, body := ts.request(t, "GET", "/api/reports/", "", ts.counselorToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for counselor, got %d: %s", resp.StatusCode, body)
	}

	var listing struct {
		Reports []models.Report `json:"reports"`
		Total   int64           `json:"total"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if listing.Reports == nil {
		t.Error("reports must be an array even when empty")
	}
}

func TestUpdateStatus_RolesAndEffects(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.request(t, "POST", "/api/reports/submit",
		`{"category":"harassment","severity":"medium","description":"needs review"}`, "")
	var report models.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}

	path := fmt.Sprintf("/api/reports/%d/status", report.ID)

	resp, _ := ts.request(t, "PUT", path, `{"status":"in_review"}`, ts.counselorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for counselor, got %d", resp.StatusCode)
	}

	resp, body = ts.request(t, "PUT", path, `{"status":"resolved","notes":"handled"}`, ts.adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", resp.StatusCode, body)
	}
	var updated models.Report
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("failed to decode updated report: %v", err)
	}
	if updated.Status != "resolved" {
		t.Errorf("expected resolved, got %q", updated.Status)
	}

	var auditCount int64
	ts.db.Model(&models.ReportUpdate{}).Where("report_id = ?", report.ID).Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("expected 1 audit row, got %d", auditCount)
	}

	resp, _ = ts.request(t, "PUT", path, `{"status":"closed"}`, ts.adminToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", resp.StatusCode)
	}

	resp, _ = ts.request(t, "PUT", "/api/reports/99999/status", `{"status":"resolved"}`, ts.adminToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown report, got %d", resp.StatusCode)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	ts := newTestServer(t)

	ts.request(t, "POST", "/api/reports/submit", `{"category":"bullying","severity":"low","description":"one"}`, "")
	ts.request(t, "POST", "/api/reports/submit", `{"category":"bullying","severity":"low","description":"two"}`, "")
	ts.request(t, "POST", "/api/reports/submit", `{"category":"other","severity":"high","description":"three"}`, "")

	resp, _ := ts.request(t, "GET", "/api/reports/analytics/summary", "", ts.counselorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for counselor on analytics, got %d", resp.StatusCode)
	}

	resp, body := ts.request(t, "GET", "/api/reports/analytics/summary", "", ts.adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var analytics struct {
		TotalReports         int64 `json:"totalReports"`
		SeverityDistribution []struct {
			Severity string `json:"severity"`
			Count    int64  `json:"count"`
		} `json:"severityDistribution"`
	}
	if err := json.Unmarshal(body, &analytics); err != nil {
		t.Fatalf("failed to decode analytics: %v", err)
	}
	if analytics.TotalReports != 3 {
		t.Errorf("expected totalReports 3, got %d", analytics.TotalReports)
	}
	severities := make(map[string]int64)
	for _, sc := range analytics.SeverityDistribution {
		severities[sc.Severity] = sc.Count
	}
	if severities["low"] != 2 || severities["high"] != 1 {
		t.Errorf("unexpected severity distribution: %+v", analytics.SeverityDistribution)
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.request(t, "POST", "/api/auth/login",
		`{"email":"admin@school.edu","password":"wrong-password"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.StatusCode)
	}

	resp, body := ts.request(t, "POST", "/api/auth/login",
		`{"email":"admin@school.edu","password":"admin-password"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var login struct {
		Token string `json:"token"`
		Admin struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"admin"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if login.Token == "" || login.Admin.Role != "admin" {
		t.Errorf("unexpected login response: %s", body)
	}
	if strings.Contains(string(body), "password") {
		t.Error("login response must not leak password material")
	}

	resp, body = ts.request(t, "POST", "/api/auth/verify-token",
		fmt.Sprintf(`{"token":%q}`, login.Token), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var verify struct {
		Valid bool `json:"valid"`
		Admin struct {
			Email string `json:"email"`
		} `json:"admin"`
	}
	if err := json.Unmarshal(body, &verify); err != nil {
		t.Fatalf("failed to decode verify response: %v", err)
	}
	if !verify.Valid || verify.Admin.Email != "admin@school.edu" {
		t.Errorf("unexpected verify response: %s", body)
	}

	resp, _ = ts.request(t, "POST", "/api/auth/verify-token", `{"token":"garbage"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestRegister_AdminOnly(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.request(t, "POST", "/api/auth/register",
		`{"email":"new@school.edu","password":"password123","name":"New","role":"counselor"}`, ts.counselorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for counselor, got %d", resp.StatusCode)
	}

	resp, body := ts.request(t, "POST", "/api/auth/register",
		`{"email":"new@school.edu","password":"password123","name":"New","role":"counselor"}`, ts.adminToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, _ = ts.request(t, "POST", "/api/auth/register",
		`{"email":"new@school.edu","password":"password123","name":"Dup","role":"counselor"}`, ts.adminToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
}

func TestMalformedJSONBody(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.request(t, "POST", "/api/reports/submit", `{"category":`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}
