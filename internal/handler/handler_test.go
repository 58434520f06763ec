package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
	"w9ayt_delivery_server/pkg/util/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15, 168)
	if err := InitTrans("en"); err != nil {
		panic(err)
	}
	m.Run()
}

// stubCompanyService returns canned catalogue data or a fixed error.
type stubCompanyService struct {
	companies []model.Company
	err       error
}

func (s *stubCompanyService) GetProfile(uint) (*model.Company, error) { return nil, s.err }
func (s *stubCompanyService) UpdateProfile(uint, request.UpdateCompanyProfileRequest) error {
	return s.err
}
func (s *stubCompanyService) ListApproved() ([]model.Company, error) {
	return s.companies, s.err
}
func (s *stubCompanyService) ListAll(string) ([]model.Company, error) { return s.companies, s.err }
func (s *stubCompanyService) Validate(uint, string) error { return s.err }

func doRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var rsp Response
	if err := json.Unmarshal(w.Body.Bytes(), &rsp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return rsp
}

func TestSuccessEnvelope(t *testing.T) {
	approved := model.Company{Name: "Rapide", Validation: model.CompanyApproved}
	approved.ID = 1
	h := NewCompanyHandler(&stubCompanyService{companies: []model.Company{approved}})

	r := gin.New()
	r.GET("/api/companies", h.ListApproved)

	w := doRequest(r, http.MethodGet, "/api/companies", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	rsp := decodeEnvelope(t, w)
	if rsp.Code != errorx.CodeSuccess || rsp.Msg != "success" {
		t.Fatalf("unexpected envelope %+v", rsp)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{errorx.New(errorx.CodeNotFound, "no such company"), http.StatusNotFound, "no such company"},
		{errorx.New(errorx.CodeForbidden, "not yours"), http.StatusForbidden, "not yours"},
		{errorx.New(errorx.CodeConflict, "already approved"), http.StatusConflict, "already approved"},
		{errorx.New(errorx.CodeUnauthorized, "token expired"), http.StatusUnauthorized, "token expired"},
		// Internal failures are masked.
		{errorx.New(errorx.CodeDBError, "mysql: gone away"), http.StatusInternalServerError, errorx.ErrServerBusy.Msg},
	}

	for _, tc := range cases {
		h := NewCompanyHandler(&stubCompanyService{err: tc.err})
		r := gin.New()
		r.GET("/api/companies", h.ListApproved)

		w := doRequest(r, http.MethodGet, "/api/companies", "", "")
		if w.Code != tc.wantStatus {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
		rsp := decodeEnvelope(t, w)
		if rsp.Msg != tc.wantMsg {
			t.Fatalf("%v: msg = %q, want %q", tc.err, rsp.Msg, tc.wantMsg)
		}
	}
}

func TestValidationErrorsAreTranslated(t *testing.T) {
	h := NewCompanyHandler(&stubCompanyService{})
	r := gin.New()
	r.PUT("/api/admin/companies/:id/validate", h.Validate)

	// Decision must be approved or rejected.
	w := doRequest(r, http.MethodPut, "/api/admin/companies/3/validate", "", `{"decision":"maybe"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	rsp := decodeEnvelope(t, w)
	if rsp.Code != errorx.CodeInvalidParam || rsp.Msg == "" {
		t.Fatalf("unexpected envelope %+v", rsp)
	}
	if strings.Contains(rsp.Msg, "Field validation") {
		t.Fatalf("raw validator message leaked: %q", rsp.Msg)
	}
}

func TestParamUintRejectsGarbage(t *testing.T) {
	h := NewCompanyHandler(&stubCompanyService{})
	r := gin.New()
	r.PUT("/api/admin/companies/:id/validate", h.Validate)

	for _, id := range []string{"abc", "0", "-4"} {
		w := doRequest(r, http.MethodPut, "/api/admin/companies/"+id+"/validate", "", `{"decision":"approved"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: status = %d", id, w.Code)
		}
	}
}

func TestJWTAuthGate(t *testing.T) {
	r := gin.New()
	r.GET("/api/protected", middleware.JWTAuth(), func(c *gin.Context) {
		HandleSuccess(c, gin.H{"user_id": middleware.UserID(c)})
	})

	if w := doRequest(r, http.MethodGet, "/api/protected", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}

	// Refresh tokens must not open API routes.
	refresh, _, err := jwt.GenerateRefreshToken(7, model.RoleClient)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	if w := doRequest(r, http.MethodGet, "/api/protected", refresh, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token: status = %d", w.Code)
	}

	access, err := jwt.GenerateAccessToken(7, model.RoleClient)
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	w := doRequest(r, http.MethodGet, "/api/protected", access, "")
	if w.Code != http.StatusOK {
		t.Fatalf("access token: status = %d (%s)", w.Code, w.Body.String())
	}
	var body struct {
		Data struct {
			UserID int64 `json:"user_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Data.UserID != 7 {
		t.Fatalf("identity not propagated: %s", w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/api/client/only",
		middleware.JWTAuth(), middleware.RequireRole(model.RoleClient),
		func(c *gin.Context) { HandleSuccess(c, nil) })

	driverToken, err := jwt.GenerateAccessToken(9, model.RoleDriver)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w := doRequest(r, http.MethodGet, "/api/client/only", driverToken, ""); w.Code != http.StatusForbidden {
		t.Fatalf("driver on client route: status = %d", w.Code)
	}

	clientToken, err := jwt.GenerateAccessToken(9, model.RoleClient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w := doRequest(r, http.MethodGet, "/api/client/only", clientToken, ""); w.Code != http.StatusOK {
		t.Fatalf("client on client route: status = %d", w.Code)
	}
}
