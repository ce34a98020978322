package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	_ "github.com/spesasmart/pricing/docs"
	"github.com/spesasmart/pricing/internal/auth"
)

const testSecret = "router-test-secret"

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockPricingService{best: sampleBest()}
	r := NewRouter(NewHandler(svc), auth.NewVerifier(testSecret, ""), RouterOptions{RateLimitPerMinute: 100})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+testProduct.String()+"/best-price", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	out := decodeMap(t, w.Body.Bytes())
	if out["offer_price"] != 2.3 || out["chain_slug"] != "lidl" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestNewRouter_DealsRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", status: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + signToken(t, testUser.String(), time.Now().Add(-time.Hour)), status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + signToken(t, testUser.String(), time.Now().Add(time.Hour)), status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockPricingService{}
			r := NewRouter(NewHandler(svc), auth.NewVerifier(testSecret, ""), RouterOptions{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/deals", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && svc.gotUser != testUser {
				t.Fatalf("principal not propagated: %s", svc.gotUser)
			}
		})
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&mockPricingService{}), auth.NewVerifier(testSecret, ""), RouterOptions{RateLimitPerMinute: 2})
	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil))
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last)
	}
}

func TestNewRouter_CORSBeforeRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const origin = "https://app.spesasmart.it"
	r := NewRouter(NewHandler(&mockPricingService{}), auth.NewVerifier(testSecret, ""), RouterOptions{
		AllowedOrigins:     []string{origin},
		RateLimitPerMinute: 1,
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/chains", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("preflight %d was rate limited", i+1)
		}
	}

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
			t.Fatalf("request %d (status %d): Access-Control-Allow-Origin=%q", i+1, w.Code, got)
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("statuses=%v, want [200 429]", codes)
	}
}

func TestNewRouter_ServesSwaggerDoc(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&mockPricingService{}), auth.NewVerifier(testSecret, ""), RouterOptions{})
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	out := decodeMap(t, w.Body.Bytes())
	paths, ok := out["paths"].(map[string]any)
	if !ok {
		t.Fatalf("missing paths in doc: %v", out)
	}
	for _, path := range []string{
		"/api/v1/products/{id}/best-price",
		"/api/v1/offers/active",
		"/api/v1/offers/best",
		"/api/v1/categories/{category}/offers",
	} {
		if _, ok := paths[path]; !ok {
			t.Fatalf("%s not documented: %v", path, paths)
		}
	}
}

func TestNewRouter_OfferRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&mockPricingService{catalog: sampleCatalog()}), auth.NewVerifier(testSecret, ""), RouterOptions{})
	for _, path := range []string{"/api/v1/offers/active", "/api/v1/offers/best", "/api/v1/categories/Latticini/offers"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
