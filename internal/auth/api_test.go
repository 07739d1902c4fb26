package auth_test

import (
	"net/http"
	"testing"

	"github.com/minsukim/ptstudio/go-api-server/internal/auth"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/testutil"
	"github.com/minsukim/ptstudio/go-api-server/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnvironment creates all dependencies needed for auth handler tests
func setupTestEnvironment(t *testing.T) (*auth.AuthHandler, *testutil.MockTokenManager) {
	t.Helper()

	// Setup test database
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	// Setup dependencies
	userRepo := user.NewUserRepository()
	mockTokenManager := testutil.NewMockTokenManager()
	authService := auth.NewAuthService(db, userRepo, mockTokenManager)
	authHandler := auth.NewAuthHandler(authService)

	return authHandler, mockTokenManager
}

func signup(t *testing.T, authHandler *auth.AuthHandler, email string) {
	t.Helper()

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/signup", authHandler.Signup)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/signup",
		Body: auth.SignupRequest{
			Name:     "김민수",
			Email:    email,
			Password: "password123",
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
}

func TestSignup_Success(t *testing.T) {
	// Given: Setup test environment
	authHandler, _ := setupTestEnvironment(t)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/signup", authHandler.Signup)

	// Given: Valid signup request
	request := testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/signup",
		Body: auth.SignupRequest{
			Name:     "김민수",
			Email:    "minsu@example.com",
			Password: "password123",
		},
	}

	// When: Execute signup request
	recorder := testutil.ExecuteRequest(t, router, request)

	// Then: Verify response
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	// Given: An account already exists
	authHandler, _ := setupTestEnvironment(t)
	signup(t, authHandler, "minsu@example.com")

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/signup", authHandler.Signup)

	// When: Signup again with the same email
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/signup",
		Body: auth.SignupRequest{
			Name:     "김민수",
			Email:    "minsu@example.com",
			Password: "password123",
		},
	})

	// Then: Conflict with USER-002
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var errResp map[string]any
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, "USER-002", errResp["code"])
}

func TestLogin_Success(t *testing.T) {
	// Given: A registered account
	authHandler, _ := setupTestEnvironment(t)
	signup(t, authHandler, "minsu@example.com")

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	// When: Login with the correct password
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "minsu@example.com",
			Password: "password123",
		},
	})

	// Then: Tokens are issued
	require.Equal(t, http.StatusOK, recorder.Code)

	var response auth.LoginResponse
	testutil.ParseResponse(t, recorder, &response)
	assert.Equal(t, "mock-access-token", response.AccessToken)
	assert.Equal(t, "mock-refresh-token", response.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Given: A registered account
	authHandler, _ := setupTestEnvironment(t)
	signup(t, authHandler, "minsu@example.com")

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	// When: Login with a wrong password
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "minsu@example.com",
			Password: "wrongpass123",
		},
	})

	// Then: Generic AUTH-003 without revealing which field was wrong
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var errResp map[string]any
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, "AUTH-003", errResp["code"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Given: No accounts
	authHandler, _ := setupTestEnvironment(t)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	// When: Login with an unknown email
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		},
	})

	// Then: Same AUTH-003 as a wrong password
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var errResp map[string]any
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, "AUTH-003", errResp["code"])
}
