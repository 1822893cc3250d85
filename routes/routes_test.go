package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ossmanager_go/config"
	"ossmanager_go/services"
	"ossmanager_go/services/websocket"
	"ossmanager_go/store"
	"ossmanager_go/utils"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:         "3000",
		AppEnv:       "test",
		JWTSecret:    "test-secret-test-secret",
		JWTExpiresIn: time.Hour,
		KioskPIN:     "1234",
	}

	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)

	snapshots, err := store.Open(store.NewMemoryBlobStore(), "TEST_DB", store.DefaultSnapshot(hash))
	require.NoError(t, err)

	svc := services.NewAcademyService(snapshots)
	audit := store.NewAuditLogger(snapshots)
	hub := websocket.NewHub()
	go hub.Run()

	app := fiber.New()
	SetupRoutes(app, svc, audit, hub)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		json.Unmarshal(data, &decoded)
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "admin@ossjiujitsu.com",
		"password": "admin123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "admin@ossjiujitsu.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "nobody@ossjiujitsu.com",
		"password": "admin123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserResponsesOmitCredentials(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    "admin@ossjiujitsu.com",
		"password": "admin123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin@ossjiujitsu.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	token := body["token"].(string)

	resp, body = doJSON(t, app, "GET", "/api/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	profile := body["user"].(map[string]interface{})
	assert.NotContains(t, profile, "password_hash")

	resp, body = doJSON(t, app, "GET", "/api/settings/users", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	users := body["users"].([]interface{})
	require.Len(t, users, 1)
	assert.NotContains(t, users[0].(map[string]interface{}), "password_hash")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/students/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/dashboard", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStudentLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, body := doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name":    "Ana Souza",
		"belt":    "blue",
		"plan_id": "1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	student := body["student"].(map[string]interface{})
	id := student["id"].(string)

	resp, body = doJSON(t, app, "GET", "/api/students/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail := body["student"].(map[string]interface{})
	assert.Equal(t, "Ana Souza", detail["name"])
	plan := detail["plan"].(map[string]interface{})
	assert.Equal(t, "Monthly", plan["name"])

	// Validation errors surface as 400.
	resp, _ = doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name": "Bad Stripes", "stripes": 9,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Missing students as 404.
	resp, _ = doJSON(t, app, "GET", "/api/students/missing", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestKioskFlow(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	_, body := doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name": "Bruno Lima",
	})
	id := body["student"].(map[string]interface{})["id"].(string)

	// The roster is public and minimal.
	resp, body := doJSON(t, app, "GET", "/api/kiosk/students", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	roster := body["students"].([]interface{})
	require.Len(t, roster, 1)
	entry := roster[0].(map[string]interface{})
	assert.Equal(t, "Bruno Lima", entry["name"])
	assert.NotContains(t, entry, "phone")

	// Check-in requires no auth.
	resp, _ = doJSON(t, app, "POST", "/api/kiosk/check-ins", "", map[string]string{
		"student_id": id,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Exit is PIN gated.
	resp, _ = doJSON(t, app, "POST", "/api/kiosk/exit", "", map[string]string{"pin": "0000"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", "/api/kiosk/exit", "", map[string]string{"pin": "1234"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The check-in shows up for staff.
	resp, body = doJSON(t, app, "GET", "/api/attendances/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	_, body := doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name": "Carla Dias",
	})
	id := body["student"].(map[string]interface{})["id"].(string)

	resp, _ := doJSON(t, app, "PATCH", "/api/students/"+id+"/overdue", token, map[string]bool{
		"overdue": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/finance/payments", token, map[string]interface{}{
		"student_id": id,
		"amount":     10000,
		"method":     "cash",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/students/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	student := body["student"].(map[string]interface{})
	assert.Equal(t, false, student["overdue"])

	resp, body = doJSON(t, app, "GET", "/api/finance/summary", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10000), body["total_received"])
}

func TestPaymentsExport(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	_, body := doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name": "Elisa Mota",
	})
	id := body["student"].(map[string]interface{})["id"].(string)

	for _, amount := range []int{10000, 5500} {
		resp, _ := doJSON(t, app, "POST", "/api/finance/payments", token, map[string]interface{}{
			"student_id": id,
			"amount":     amount,
			"method":     "cash",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/finance/payments/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "payments.xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Payments")
	require.NoError(t, err)

	// Header plus one row per payment, oldest first.
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Student", "Amount", "Method"}, rows[0])
	assert.Equal(t, "Elisa Mota", rows[1][1])
	assert.Equal(t, "10000", rows[1][2])
	assert.Equal(t, "5500", rows[2][2])
}

func TestAuditTrailOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	_, _ = doJSON(t, app, "POST", "/api/students/", token, map[string]interface{}{
		"name": "Diego Ramos",
	})

	resp, body := doJSON(t, app, "GET", "/api/logs/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	logs := body["logs"].([]interface{})
	require.GreaterOrEqual(t, len(logs), 2)

	// Newest first: enrollment, then the login that preceded it.
	first := logs[0].(map[string]interface{})
	second := logs[1].(map[string]interface{})
	assert.Equal(t, "New student enrolled: Diego Ramos", first["action"])
	assert.Equal(t, "Login: Administrator", second["action"])
	assert.Equal(t, "Administrator", first["user_name"])
}
