package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/mailer"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/revocation"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type outbox struct {
	mu   sync.Mutex
	msgs []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

// lastLink returns the path and query of the link in the most recent mail.
func (o *outbox) lastLink(t *testing.T) *url.URL {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs, "no mail sent")
	for _, field := range strings.Fields(o.msgs[len(o.msgs)-1].Body) {
		if u, err := url.Parse(field); err == nil && u.Scheme != "" && u.Query().Get("token") != "" {
			return u
		}
	}
	t.Fatal("no link in mail")
	return nil
}

type testServer struct {
	e    *echo.Echo
	mail *outbox
	m    *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb := db.NewTestDB(t)
	r := &repo.GormRepo{DB: gdb}
	mail := &outbox{}
	m := metrics.New("storefront")

	authSvc := &service.AuthService{
		Repo:    r,
		Signer:  tokens.NewSigner([]byte("test-secret")),
		Revoked: revocation.NewGormStore(gdb),
		Mailer:  mail,
	}

	e := echo.New()
	e.Use(m.Middleware())
	Register(e, &Deps{
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Products:  &ProductHTTP{Svc: &service.ProductService{Repo: r}},
		Accounts:  &AccountHTTP{Svc: authSvc, Metrics: m},
		Customers: &CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Staff:     &StaffHTTP{Svc: &service.StaffService{Repo: r}},
		Authn:     authSvc,
		Ready:     func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics:   m,
	})
	return &testServer{e: e, mail: mail, m: m}
}

func (s *testServer) do(t *testing.T, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	d, _ := decode(t, rec)["detail"].(string)
	return d
}

func TestAccountFlow_EndToEnd(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/register",
		`{"user_name":"alice","password":"secret1","email":"Alice@Example.com","first_name":"Alice"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode(t, rec)
	assert.Equal(t, "alice", reg["user_name"])
	assert.Equal(t, "alice@example.com", reg["email"])
	assert.Equal(t, false, reg["is_email_verified"])

	rec = s.do(t, http.MethodPost, "/api/v1/customers/login", `{"user_name":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Email not verified", detail(t, rec))

	link := s.mail.lastLink(t)
	assert.Equal(t, service.ConfirmPath, link.Path)
	rec = s.do(t, http.MethodGet, link.RequestURI(), "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.DetailVerified, detail(t, rec))

	rec = s.do(t, http.MethodGet, link.RequestURI(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DetailAlreadyVerified, detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/customers/login", `{"user_name":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode(t, rec)
	tok, _ := login["token"].(string)
	require.NotEmpty(t, tok)
	assert.EqualValues(t, 7*24*3600, login["token_expires_in"])

	rec = s.do(t, http.MethodGet, "/api/v1/customers/me", "", "bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice", decode(t, rec)["user_name"])
	_, hasPassword := decode(t, rec)["password"]
	assert.False(t, hasPassword)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/logout", "", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DetailLoggedOut, detail(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/customers/me", "", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.DetailTokenRevoked, detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/customers/login", `{"user_name":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh, _ := decode(t, rec)["token"].(string)
	rec = s.do(t, http.MethodGet, "/api/v1/customers/me", "", "Bearer "+fresh)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMe_MissingOrBadBearer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/customers/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.DetailMissingBearer, detail(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/customers/me", "", "Token abc")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.DetailMissingBearer, detail(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/customers/me", "", "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.DetailTokenInvalid, detail(t, rec))
}

func TestLogout_MissingBearerAndMalformed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/logout", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/logout", "", "Bearer garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DetailLoggedOut, detail(t, rec))
}

func TestRegister_MalformedJSONIsEmptyBody(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{not json`, `[]`, `{"user_name": 5}`} {
		rec := s.do(t, http.MethodPost, "/api/v1/customers/register", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "user_name is required", detail(t, rec), body)
	}
}

func TestRegister_DuplicateAnyCase(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/register", `{"user_name":"bob","password":"secret1","email":"bob@example.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/register", `{"user_name":"BOB","password":"secret1","email":"other@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_name already exists", detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/customers/register", `{"user_name":"bobby","password":"secret1","email":"BOB@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already in use", detail(t, rec))
}

func TestPasswordReset_TokenFromQuery(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/customers/register", `{"user_name":"carol","password":"secret1","email":"carol@example.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodGet, s.mail.lastLink(t).RequestURI(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/customers/password/reset", `{"email":"nobody@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DetailResetSent, detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/customers/password/reset", `{"user_name":"carol"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DetailResetSent, detail(t, rec))

	link := s.mail.lastLink(t)
	assert.Equal(t, service.ResetConfirmPath, link.Path)

	rec = s.do(t, http.MethodPost, link.RequestURI(), `{"new_password":"newsecret","password_confirm":"newsecret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.DetailPasswordUpdated, detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/customers/login", `{"user_name":"carol","password":"newsecret"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/customers/login", `{"user_name":"carol","password":"secret1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogAdminAndListing(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/brands", `{"brand_name":"Trek"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	brandID := decode(t, rec)["brand_id"]

	rec = s.do(t, http.MethodPost, "/api/v1/admin/brands", `{"brand_name":" trek "}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "brand_name already exists", detail(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/admin/categories", `{"category_name":"Road Bikes"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	categoryID := decode(t, rec)["category_id"]

	for i, name := range []string{"Madone", "Domane", "Emonda"} {
		body, _ := json.Marshal(map[string]any{
			"product_name": name, "brand_id": brandID, "category_id": categoryID,
			"model_year": 2022 + i, "list_price": 1000.5 + float64(i),
		})
		rec = s.do(t, http.MethodPost, "/api/v1/admin/products", string(body), "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Trek", decode(t, rec)["brand_name"])
	}

	rec = s.do(t, http.MethodGet, "/api/v1/products?page=1&page_size=2&order_by=%2BPrice&order=asc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	items := page["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Madone", items[0].(map[string]any)["product_name"])
	pg := page["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pg["total"])
	assert.EqualValues(t, 2, pg["total_pages"])
	assert.Equal(t, true, pg["has_next"])
	assert.Equal(t, false, pg["has_prev"])
	assert.Equal(t, map[string]any{"order_by": "price", "direction": "asc"}, page["ordering"])

	rec = s.do(t, http.MethodGet, "/api/v1/brands?name=RE&order=asc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var brands []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Trek", brands[0]["brand_name"])

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/brands/"+jsonID(brandID), "", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "brand is referenced by products", detail(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/products/search?q=domane", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	assert.Equal(t, service.SearchSourceDatabase, res["source"])
	assert.Len(t, res["items"], 1)

	rec = s.do(t, http.MethodGet, "/api/v1/products/search", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "q is required", detail(t, rec))
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestDetail_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/v1/products/999",
		"/api/v1/products/abc",
		"/api/v1/admin/customers/0",
		"/api/v1/admin/staff/42",
	} {
		rec := s.do(t, http.MethodGet, target, "", "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Not found", detail(t, rec), target)
	}

	rec := s.do(t, http.MethodPatch, "/api/v1/admin/brands/7", `{"brand_name":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCustomerAndStaffCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/customers", `{"user_name":"dave","password":"pw1234","email":"dave@example.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := jsonID(decode(t, rec)["customer_id"])

	rec = s.do(t, http.MethodPut, "/api/v1/admin/customers/"+id, `{"city":"Lyon"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lyon", decode(t, rec)["city"])

	rec = s.do(t, http.MethodGet, "/api/v1/admin/customers?q=DAVE", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/admin/customers/"+id, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/admin/customers/"+id, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/staff", `{"username":"mgr","password":"pw1234","first_name":"Mona"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	staff := decode(t, rec)
	assert.Equal(t, true, staff["active"])
	mgrID := jsonID(staff["staff_id"])

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/staff/"+mgrID, `{"manager_id":`+mgrID+`}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "manager_id cannot reference itself", detail(t, rec))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", "").Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_http_requests_total{method="GET",path="/health/live",status="200"} 1`)
}

func TestErrorHandler_RendersDetail(t *testing.T) {
	e := echo.New()

	cases := []struct {
		err    error
		code   int
		detail string
	}{
		{echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest, "bad"},
		{echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{errors.New("boom"), http.StatusInternalServerError, detailInternal},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		ErrorHandler(tc.err, c)
		assert.Equal(t, tc.code, rec.Code)
		assert.Equal(t, tc.detail, detail(t, rec))
	}
}

func TestAdminProduct_NullClearsBrand(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/brands", `{"brand_name":"Giant"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	brandID := jsonID(decode(t, rec)["brand_id"])

	rec = s.do(t, http.MethodPost, "/api/v1/admin/products",
		`{"product_name":"Defy","brand_id":`+brandID+`,"model_year":2023,"list_price":1800}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := jsonID(decode(t, rec)["product_id"])

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/"+productID, `{"list_price":1700}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Giant", decode(t, rec)["brand_name"])

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/products/"+productID, `{"brand_id":null}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Nil(t, body["brand_id"])
	assert.Nil(t, body["brand_name"])

	rec = s.do(t, http.MethodPost, "/api/v1/admin/products",
		`{"product_name":"Too dear","model_year":2023,"list_price":100000000}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "list_price must be <= 99999999.99", detail(t, rec))
}
