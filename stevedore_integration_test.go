package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/stevedore-app/router"
	"github.com/yeremiapane/stevedore-app/utils"
)

func setupIntegrationEnv(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	utils.InitDB(db)
	autoMigrate(db)

	return db, router.SetupRouter(db)
}

func doJSON(r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func TestOperationLifecycleGeneratesDelayAlert(t *testing.T) {
	_, r := setupIntegrationEnv(t)

	// Register and login an operation manager
	w := doJSON(r, "POST", "/register", "", map[string]interface{}{
		"name":     "Dian Sastro",
		"email":    "dian@port.example",
		"password": "secret123",
		"role":     "operation_manager",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/login", "", map[string]interface{}{
		"email":    "dian@port.example",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := decodeData(t, w)["token"].(string)
	assert.NotEmpty(t, token)

	// No token -> 401
	w = doJSON(r, "GET", "/alerts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Create a vessel
	w = doJSON(r, "POST", "/vessels", token, map[string]interface{}{
		"name":        "MV Nusantara Jaya",
		"imo_number":  "IMO9321483",
		"vessel_type": "bulk_carrier",
		"flag":        "ID",
		"status":      "docked",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var vesselResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &vesselResp)
	vesselID := uint(vesselResp["data"].(map[string]interface{})["id"].(float64))

	// Create an operation whose ETA is already five hours past
	eta := time.Now().Add(-5 * time.Hour).Format(time.RFC3339)
	w = doJSON(r, "POST", "/operations", token, map[string]interface{}{
		"vessel_id":              vesselID,
		"operation_type":         "discharge",
		"cargo_type":             "grain",
		"cargo_tonnage":          12000.0,
		"expected_rate_per_hour": 250.0,
		"eta":                    eta,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var opResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &opResp)
	opID := uint(opResp["data"].(map[string]interface{})["id"].(float64))

	// Start the operation
	w = doJSON(r, "PATCH", fmt.Sprintf("/operations/%d/status", opID), token, map[string]interface{}{
		"status": "in_progress",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Run the check sweep
	w = doJSON(r, "POST", "/alerts/check", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The delayed start must have produced a critical delay alert
	w = doJSON(r, "GET", fmt.Sprintf("/operations/%d/alerts", opID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	alerts := decodeData(t, w)["alerts"].([]interface{})

	delayCode := fmt.Sprintf("delay_critical_%d", opID)
	var delayAlertID int
	for _, raw := range alerts {
		alert := raw.(map[string]interface{})
		if alert["alert_code"] == delayCode {
			delayAlertID = int(alert["id"].(float64))
		}
	}
	assert.NotZero(t, delayAlertID, "expected a critical delay alert for the operation")

	// A second sweep must not duplicate it
	w = doJSON(r, "POST", "/alerts/check", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", fmt.Sprintf("/operations/%d/alerts", opID), token, nil)
	alerts = decodeData(t, w)["alerts"].([]interface{})
	seen := 0
	for _, raw := range alerts {
		if raw.(map[string]interface{})["alert_code"] == delayCode {
			seen++
		}
	}
	assert.Equal(t, 1, seen)

	// Dismiss it; it drops from the default view but stays queryable
	w = doJSON(r, "POST", fmt.Sprintf("/alerts/%d/dismiss", delayAlertID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", fmt.Sprintf("/operations/%d/alerts", opID), token, nil)
	alerts = decodeData(t, w)["alerts"].([]interface{})
	for _, raw := range alerts {
		assert.NotEqual(t, delayCode, raw.(map[string]interface{})["alert_code"])
	}

	w = doJSON(r, "GET", fmt.Sprintf("/operations/%d/alerts?include_dismissed=true", opID), token, nil)
	alerts = decodeData(t, w)["alerts"].([]interface{})
	found := false
	for _, raw := range alerts {
		if raw.(map[string]interface{})["alert_code"] == delayCode {
			found = true
		}
	}
	assert.True(t, found, "dismissed alert should still show with include_dismissed")
}

func TestRoleGuardOnAlertEndpoints(t *testing.T) {
	_, r := setupIntegrationEnv(t)

	w := doJSON(r, "POST", "/register", "", map[string]interface{}{
		"name":     "Budi Foreman",
		"email":    "budi@port.example",
		"password": "secret123",
		"role":     "foreman",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/login", "", map[string]interface{}{
		"email":    "budi@port.example",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := decodeData(t, w)["token"].(string)

	// A foreman may read alerts but not trigger the sweep or create them
	w = doJSON(r, "GET", "/alerts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/alerts/check", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "POST", "/alerts", token, map[string]interface{}{
		"title":      "Manual",
		"message":    "Manual",
		"severity":   "info",
		"alert_type": "manual",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Cleanup is admin-only
	w = doJSON(r, "POST", "/alerts/cleanup", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	_, r := setupIntegrationEnv(t)

	w := doJSON(r, "POST", "/register", "", map[string]interface{}{
		"name":     "Sari Admin",
		"email":    "sari@port.example",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/login", "", map[string]interface{}{
		"email":    "sari@port.example",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	token := decodeData(t, w)["token"].(string)

	w = doJSON(r, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
