package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func adminRouter(tokens AdminTokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuth(tokens), func(c *gin.Context) {
		claims := c.MustGet(CtxAdminClaimsKey).(*AdminClaims)
		c.String(http.StatusOK, claims.Subject)
	})
	return r
}

func doAdmin(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	tokens := AdminTokens{Secret: []byte("test-secret"), Issuer: "device-compare-api", Duration: time.Hour}
	r := adminRouter(tokens)

	good, err := tokens.Sign("ops")
	if err != nil {
		t.Fatal(err)
	}

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:             "viewer",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(tokens.Secret)
	if err != nil {
		t.Fatal(err)
	}

	otherSecret, err := AdminTokens{Secret: []byte("other"), Duration: time.Hour}.Sign("ops")
	if err != nil {
		t.Fatal(err)
	}

	expired, err := AdminTokens{Secret: tokens.Secret, Duration: -time.Minute}.Sign("ops")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		auth string
		want int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAdmin(r, tt.auth)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "ops" {
				t.Fatalf("subject = %q", w.Body.String())
			}
		})
	}
}

func TestSignDefaultsDuration(t *testing.T) {
	tokens := AdminTokens{Secret: []byte("test-secret"), Issuer: AdminIssuer}
	s, err := tokens.Sign("ops")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(s)
	if err != nil {
		t.Fatalf("zero-duration token rejected: %v", err)
	}
	if claims.Role != AdminRole || claims.Issuer != AdminIssuer {
		t.Fatalf("claims = %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != DefaultAdminTokenTTL {
		t.Fatalf("ttl = %v", ttl)
	}
}
