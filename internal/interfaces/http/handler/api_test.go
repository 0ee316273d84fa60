package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcatalog "github.com/tradenet/backend/internal/application/catalog"
	appdirectory "github.com/tradenet/backend/internal/application/directory"
	appidentity "github.com/tradenet/backend/internal/application/identity"
	"github.com/tradenet/backend/internal/domain/catalog"
	"github.com/tradenet/backend/internal/domain/directory"
	"github.com/tradenet/backend/internal/domain/identity"
	"github.com/tradenet/backend/internal/infrastructure/auth"
	"github.com/tradenet/backend/internal/infrastructure/config"
	"github.com/tradenet/backend/internal/infrastructure/persistence"
	"github.com/tradenet/backend/internal/interfaces/http/middleware"
	"github.com/tradenet/backend/internal/interfaces/http/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	engine     *gin.Engine
	jwtService *auth.JWTService
	db         *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&directory.Seller{},
		&identity.User{},
	))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-handler-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "tradenet-test",
	})

	productRepo := persistence.NewGormProductRepository(db)
	sellerRepo := persistence.NewGormSellerRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	blacklist := auth.NewInMemoryTokenBlacklist()

	productService := appcatalog.NewProductService(productRepo)
	sellerService := appdirectory.NewSellerService(sellerRepo, productRepo)
	authService := appidentity.NewAuthService(userRepo, jwtService, auth.NewBcryptHasher(), blacklist)

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}))

	r := router.NewRouter(engine)
	r.Register(NewProductHandler(productService))
	r.Register(NewSellerHandler(sellerService))
	r.Register(NewAuthHandler(authService))
	r.Setup()

	return &testServer{engine: engine, jwtService: jwtService, db: db}
}

func (ts *testServer) token(t *testing.T, isStaff bool) string {
	pair, err := ts.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  uuid.New(),
		Email:   "tester@example.com",
		IsStaff: isStaff,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestAPI_AnonymousAccessIsRejected(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/products"},
		{http.MethodGet, "/api/v1/sellers"},
		{http.MethodPost, "/api/v1/sellers"},
		{http.MethodPost, "/api/v1/admin/sellers/debt-reset"},
	} {
		w := ts.request(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestAPI_ProductUpdateKeepsReleaseDate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Phone",
		"model": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeData(t, w)
	productID := created["id"].(string)
	released := created["released_at"].(string)

	w = ts.request(t, http.MethodPatch, "/api/v1/products/"+productID, token, gin.H{
		"model": "11",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData(t, w)

	assert.Equal(t, "Phone", updated["name"])
	assert.Equal(t, "11", updated["model"])
	assert.Equal(t, released, updated["released_at"])
}

func TestAPI_SellerCreateWithProducts(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Laptop",
		"model": "X-200",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decodeData(t, w)["id"].(string)

	w = ts.request(t, http.MethodPost, "/api/v1/sellers", token, gin.H{
		"name":        "Acme Factory",
		"seller_type": "factory",
		"country":     "de",
		"products":    []string{productID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	seller := decodeData(t, w)

	assert.Equal(t, float64(0), seller["trade_network_level"])
	assert.Equal(t, "0.00", seller["debt"])
	assert.Equal(t, "DE", seller["country"])
	assert.Nil(t, seller["supplier"])
	products := seller["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, productID, products[0])
}

func TestAPI_SellerCreateAcceptsLongEmail(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	// longer than 100 characters, within the 200-character column limit
	email := strings.Repeat("a", 140) + "@example.com"
	w := ts.request(t, http.MethodPost, "/api/v1/sellers", token, gin.H{
		"name":        "Long Mail",
		"seller_type": "factory",
		"email":       email,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, email, decodeData(t, w)["email"])
}

func TestAPI_SellerUpdateIgnoresDebt(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodPost, "/api/v1/sellers", token, gin.H{
		"name":        "Debtor",
		"seller_type": "retail network",
		"debt":        "50.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := decodeData(t, w)["id"].(string)

	w = ts.request(t, http.MethodPatch, "/api/v1/sellers/"+sellerID, token, gin.H{
		"name": "Renamed",
		"debt": "0.00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData(t, w)

	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "50.00", updated["debt"])
}

func TestAPI_DebtResetIsStaffOnly(t *testing.T) {
	ts := newTestServer(t)
	userToken := ts.token(t, false)
	staffToken := ts.token(t, true)

	w := ts.request(t, http.MethodPost, "/api/v1/sellers", userToken, gin.H{
		"name":        "Debtor",
		"seller_type": "individual entrepreneur",
		"debt":        "50.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := decodeData(t, w)["id"].(string)

	// Non-staff callers are rejected
	w = ts.request(t, http.MethodPost, "/api/v1/admin/sellers/debt-reset", userToken, gin.H{
		"sellers": []string{sellerID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff callers clear the debt
	w = ts.request(t, http.MethodPost, "/api/v1/admin/sellers/debt-reset", staffToken, gin.H{
		"sellers": []string{sellerID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["updated_count"])

	w = ts.request(t, http.MethodGet, "/api/v1/sellers/"+sellerID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decodeData(t, w)["debt"])

	// Resetting again touches nothing
	w = ts.request(t, http.MethodPost, "/api/v1/admin/sellers/debt-reset", staffToken, gin.H{
		"sellers": []string{sellerID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeData(t, w)["updated_count"])
}

func TestAPI_SupplierChainLevels(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	create := func(name, sellerType string, supplierID string) map[string]any {
		body := gin.H{"name": name, "seller_type": sellerType}
		if supplierID != "" {
			body["supplier"] = supplierID
		}
		w := ts.request(t, http.MethodPost, "/api/v1/sellers", token, body)
		require.Equal(t, http.StatusCreated, w.Code)
		return decodeData(t, w)
	}

	factory := create("Factory", "factory", "")
	distributor := create("Distributor", "retail network", factory["id"].(string))
	shop := create("Shop", "individual entrepreneur", distributor["id"].(string))

	assert.Equal(t, float64(0), factory["trade_network_level"])
	assert.Equal(t, float64(1), distributor["trade_network_level"])
	assert.Equal(t, float64(2), shop["trade_network_level"])

	// Deleting the factory detaches the distributor, dropping the chain
	w := ts.request(t, http.MethodDelete, "/api/v1/sellers/"+factory["id"].(string), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.request(t, http.MethodGet, "/api/v1/sellers/"+distributor["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	reloaded := decodeData(t, w)
	assert.Nil(t, reloaded["supplier"])
	assert.Equal(t, float64(0), reloaded["trade_network_level"])

	w = ts.request(t, http.MethodGet, "/api/v1/sellers/"+shop["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["trade_network_level"])
}

func TestAPI_SellerListIgnoresHostileSortParam(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodPost, "/api/v1/sellers", token, gin.H{
		"name":        "Acme",
		"seller_type": "factory",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// SQL expressions and statements in order_by must not reach the database
	for _, orderBy := range []string{
		"(SELECT COUNT(*) FROM users)",
		"name; DROP TABLE sellers",
	} {
		w = ts.request(t, http.MethodGet, "/api/v1/sellers?order_by="+url.QueryEscape(orderBy), token, nil)
		require.Equal(t, http.StatusOK, w.Code, orderBy)
	}

	// the sellers table survived and still lists
	w = ts.request(t, http.MethodGet, "/api/v1/sellers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, ts.db.Table("sellers").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAPI_DebtResetWithEmptyBodyResetsAll(t *testing.T) {
	ts := newTestServer(t)
	userToken := ts.token(t, false)
	staffToken := ts.token(t, true)

	w := ts.request(t, http.MethodPost, "/api/v1/sellers", userToken, gin.H{
		"name":        "Debtor",
		"seller_type": "factory",
		"debt":        "25.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, http.MethodPost, "/api/v1/admin/sellers/debt-reset", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["updated_count"])
}

func TestAPI_SellerCreateRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodPost, "/api/v1/sellers", token, gin.H{
		"name":        "Oddball",
		"seller_type": "wholesaler",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error.Message, "seller_type")
}

func TestAPI_UnknownSellerReturns404(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, false)

	w := ts.request(t, http.MethodGet, "/api/v1/sellers/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_AuthFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeData(t, w)
	assert.Equal(t, "user@example.com", registered["email"])
	assert.Equal(t, false, registered["is_staff"])

	w = ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decodeData(t, w)
	accessToken := tokens["access_token"].(string)
	refreshToken := tokens["refresh_token"].(string)

	w = ts.request(t, http.MethodGet, "/api/v1/auth/me", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", decodeData(t, w)["email"])

	w = ts.request(t, http.MethodPost, "/api/v1/auth/logout", accessToken, gin.H{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	// Both tokens are revoked after logout
	w = ts.request(t, http.MethodGet, "/api/v1/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.request(t, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_LoginWithBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
