package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "nightcity/internal/config"
	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	h "nightcity/internal/http/handlers"
	"nightcity/internal/repositories"
	"nightcity/internal/services"
	"nightcity/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type memUsers struct{ users []models.User }

func (m *memUsers) Create(_ context.Context, u *models.User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return 0, repositories.ErrDuplicate
		}
	}
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *u)
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

type memBookings struct {
	bookings []models.Booking
	failNext bool
}

func (m *memBookings) Insert(_ context.Context, b *models.Booking) error {
	if m.failNext {
		return errors.New("deadlock found when trying to get lock")
	}
	b.ID = int64(len(m.bookings) + 1)
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id int64) (models.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, repositories.ErrNotFound
}

func (m *memBookings) ListByUser(_ context.Context, userID int64) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) ListAll(context.Context) ([]models.Booking, error) {
	return m.bookings, nil
}

type memPricing struct{ rows []models.Pricing }

func (m memPricing) FindCovering(_ context.Context, districtID int64, start, end time.Time) ([]models.Pricing, error) {
	var out []models.Pricing
	for _, p := range m.rows {
		if p.DistrictID == districtID && p.Covers(start, end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memPricing) FindDefaultPrice(_ context.Context, districtID int64) (utils.Money, bool, error) {
	for _, p := range m.rows {
		if p.DistrictID == districtID {
			return p.DefaultPrice, true, nil
		}
	}
	return 0, false, nil
}

type memDistricts struct{ list []models.District }

func (m memDistricts) List(context.Context) ([]models.District, error) { return m.list, nil }

func (m memDistricts) GetByID(_ context.Context, id int64) (models.District, error) {
	for _, d := range m.list {
		if d.ID == id {
			return d, nil
		}
	}
	return models.District{}, repositories.ErrNotFound
}

type fixture struct {
	router   *gin.Engine
	users    *memUsers
	bookings *memBookings
	tokens   services.TokenService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }
	f := fixture{
		users:    &memUsers{},
		bookings: &memBookings{},
		tokens:   services.TokenService{Secret: []byte("router-test"), TTL: time.Hour, Now: clock},
	}
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	hd := h.Handler{
		Tokens:   f.tokens,
		Users:    f.users,
		Bookings: f.bookings,
		Pricing: memPricing{rows: []models.Pricing{{
			ID: 1, DistrictID: 3,
			PricePerPerson: utils.MoneyFromUnits(100),
			StartDate:      day(6, 1), EndDate: day(6, 10),
			DefaultPrice: utils.MoneyFromUnits(50),
		}}},
		Districts: memDistricts{list: []models.District{
			{ID: 1, Name: "Watson"}, {ID: 3, Name: "City Center"}, {ID: 4, Name: "Pacifica"},
		}},
		StaticRoot: t.TempDir(),
		Now:        clock,
	}
	env := intconfig.Env{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	f.router = NewRouter(env, hd)
	return f
}

func (f fixture) token(t *testing.T, id domain.Identity) string {
	t.Helper()
	raw, _, err := f.tokens.Issue(id)
	require.NoError(t, err)
	return raw
}

func (f fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
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
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const createBody = `{"district_id":3,"trip_start_date":"2024-06-02","trip_end_date":"2024-06-05","number_of_travelers":2}`

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateBookingEndpoint(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, domain.Identity{UserID: 7, SecurityLevel: -1})

	w := f.do(http.MethodPost, "/api/bookings", createBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode(t, w)
	assert.Equal(t, float64(7), got["user_id"])
	assert.Equal(t, float64(200), got["total_price"])
	assert.Equal(t, "Confirmed", got["status"])
	assert.Equal(t, "2024-06-02", got["trip_start_date"])
	assert.Equal(t, "2024-06-05", got["trip_end_date"])
	require.Len(t, f.bookings.bookings, 1)
	assert.Equal(t, testNow, f.bookings.bookings[0].BookingDate)
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/bookings", createBody, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBookingErrors(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, domain.Identity{UserID: 7})

	cases := []struct {
		name   string
		body   string
		status int
		code   string
		field  string
	}{
		{"date order", `{"district_id":3,"trip_start_date":"2024-06-05","trip_end_date":"2024-06-05","number_of_travelers":2}`, 400, "validation_error", "trip_end_date"},
		{"traveler count", `{"district_id":3,"trip_start_date":"2024-06-02","trip_end_date":"2024-06-05","number_of_travelers":11}`, 400, "validation_error", "number_of_travelers"},
		{"bad date", `{"district_id":3,"trip_start_date":"06/02/2024","trip_end_date":"2024-06-05","number_of_travelers":2}`, 400, "validation_error", "trip_start_date"},
		{"no pricing", `{"district_id":9,"trip_start_date":"2024-06-02","trip_end_date":"2024-06-05","number_of_travelers":2}`, 422, "pricing_unavailable", ""},
		{"malformed", `{"district_id":`, 400, "invalid_payload", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/bookings", tc.body, token)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			got := decode(t, w)
			assert.Equal(t, tc.code, got["code"])
			if tc.field != "" {
				details, _ := got["details"].(map[string]any)
				assert.Equal(t, tc.field, details["field"])
			}
		})
	}
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBookingStorageFailureHidesCause(t *testing.T) {
	f := newFixture(t)
	f.bookings.failNext = true
	token := f.token(t, domain.Identity{UserID: 7})

	w := f.do(http.MethodPost, "/api/bookings", createBody, token)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
	assert.Equal(t, "internal_error", decode(t, w)["code"])
}

func TestQuoteEndpoint(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/bookings/quote",
		`{"district_id":3,"trip_start_date":"2024-07-01","trip_end_date":"2024-07-05","number_of_travelers":3}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.Equal(t, float64(50), got["price_per_traveler"])
	assert.Equal(t, float64(150), got["total_price"])
	assert.Empty(t, f.bookings.bookings)
}

func TestAdminBookingList(t *testing.T) {
	f := newFixture(t)
	user := f.token(t, domain.Identity{UserID: 7, SecurityLevel: -1})
	admin := f.token(t, domain.Identity{UserID: 1, SecurityLevel: 1})

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/bookings", createBody, user).Code)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/bookings", "", user).Code)

	w := f.do(http.MethodGet, "/api/bookings", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = f.do(http.MethodGet, "/api/bookings/mine", "", user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestReceiptEndpoint(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, domain.Identity{UserID: 7})
	other := f.token(t, domain.Identity{UserID: 8})
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/bookings", createBody, owner).Code)

	w := f.do(http.MethodGet, "/api/bookings/1/receipt", "", owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/bookings/1/receipt", "", other).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/bookings/9/receipt", "", owner).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/bookings/abc/receipt", "", owner).Code)
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	f := newFixture(t)
	register := `{"full_name":"Valerie","email":"v@nightcity.test","phone_number":"555","country":"NUSA","date_of_birth":"1995-03-14","password":"samurai2077"}`

	w := f.do(http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookie := w.Result().Cookies()
	require.NotEmpty(t, cookie)
	assert.Equal(t, "JwtToken", cookie[0].Name)
	assert.True(t, cookie[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie[0].SameSite)

	w = f.do(http.MethodPost, "/api/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/api/auth/login", `{"email":"v@nightcity.test","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/auth/login", `{"email":"v@nightcity.test","password":"samurai2077"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// Cookie-only access works the same as the bearer header.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "JwtToken", Value: token})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode(t, rec)
	user, _ := profile["user"].(map[string]any)
	assert.Equal(t, "v@nightcity.test", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	other := f.token(t, domain.Identity{UserID: 99})
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/users/1", "", other).Code)

	w = f.do(http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies())
	assert.Equal(t, "", w.Result().Cookies()[0].Value)
}

func TestDistrictEndpoints(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/districts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 3)

	w = f.do(http.MethodGet, "/api/districts/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, float64(4), got["prev_id"])
	assert.Equal(t, float64(3), got["next_id"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/districts/2", "", "").Code)
}

func TestDBCheckWithoutDatabase(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/api/db-check", "", "").Code)
}
