package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/dto"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/services"
	"github.com/workbenchflow/workbench-api/internal/token"
)

type captureMailer struct {
	codes []string
}

func (m *captureMailer) SendOtp(_ context.Context, _, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *captureMailer) lastCode() string {
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}

type authTestEnv struct {
	router *gin.Engine
	mailer *captureMailer
	db     *gorm.DB
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Otp{}, &models.User{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	log := zerolog.Nop()
	mail := &captureMailer{}
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	tokens := token.NewManager([]byte("test-secret"), "workbench-test", 15*time.Hour)
	otpService := services.NewOtpService(userRepo, otpRepo, 2*time.Minute, 30*time.Second, log)
	authService := services.NewAuthService(userRepo, otpService, mail, tokens, time.Second, log)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/confirm-otp", handler.ConfirmOtp)
	r.POST("/api/auth/again-otp", handler.ResendOtp)
	r.POST("/api/auth/login", handler.Login)
	r.GET("/api/auth/me", middleware.RequireAuth(tokens, userRepo), handler.Me)

	return authTestEnv{router: r, mailer: mail, db: db}
}

func (env authTestEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow_RegisterConfirmLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "alice", created.Username)

	// Login before confirmation is refused
	w = env.postJSON(t, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "ACCOUNT_UNCONFIRMED")

	// Confirm with the mailed code
	w = env.postJSON(t, "/api/auth/confirm-otp", gin.H{
		"email": "alice@example.com",
		"code":  env.mailer.lastCode(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Now login succeeds and yields a working token
	w = env.postJSON(t, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestAuthFlow_WrongCodeReportsAttempts(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	wrong := "000000"
	if env.mailer.lastCode() == wrong {
		wrong = "000001"
	}

	w = env.postJSON(t, "/api/auth/confirm-otp", gin.H{
		"email": "alice@example.com",
		"code":  wrong,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "OTP_CODE_MISMATCH")
	require.Contains(t, w.Body.String(), `"attempts_left":4`)
}

func TestAuthFlow_ResendCooldown(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.postJSON(t, "/api/auth/again-otp", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "wait_seconds")
}

func TestAuthFlow_LoginBadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/login", gin.H{
		"username": "ghost",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthFlow_DuplicateRegistration(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	}
	require.Equal(t, http.StatusCreated, env.postJSON(t, "/api/auth/register", payload).Code)

	w := env.postJSON(t, "/api/auth/register", payload)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestMe_RejectsBadTokens(t *testing.T) {
	env := setupAuthTestEnv(t)

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestMe_DeactivatedAccountRefused(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	}).Code)
	require.Equal(t, http.StatusOK, env.postJSON(t, "/api/auth/confirm-otp", gin.H{
		"email": "alice@example.com",
		"code":  env.mailer.lastCode(),
	}).Code)

	w := env.postJSON(t, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// Deactivate behind the token's back
	require.NoError(t, env.db.Model(&models.User{}).
		Where("username = ?", "alice").
		Update("is_deleted", true).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "ACCOUNT_INACTIVE")
}

func TestMe_VanishedAccountIsUnauthorized(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postJSON(t, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	}).Code)
	require.Equal(t, http.StatusOK, env.postJSON(t, "/api/auth/confirm-otp", gin.H{
		"email": "alice@example.com",
		"code":  env.mailer.lastCode(),
	}).Code)

	w := env.postJSON(t, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// Remove the row entirely; the token now names nobody
	require.NoError(t, env.db.Unscoped().
		Where("username = ?", "alice").
		Delete(&models.User{}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
