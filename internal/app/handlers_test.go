package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolo-service/internal/config"
	"bolo-service/internal/database"
	"bolo-service/internal/gcal"
	"bolo-service/internal/store"
	"bolo-service/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeEngine struct {
	syncRes      *gcal.Result
	syncErr      error
	callbackErr  error
	callbackCode string
}

func (f *fakeEngine) ConsentURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeEngine) HandleCallback(_ context.Context, code string) error {
	f.callbackCode = code
	return f.callbackErr
}

func (f *fakeEngine) Sync(_ context.Context, _ string) (*gcal.Result, error) {
	return f.syncRes, f.syncErr
}

type fakeDispatcher struct {
	enqueued []string
	err      error
}

func (f *fakeDispatcher) Enqueue(bookingID string) (*tasks.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, bookingID)
	return &tasks.Job{ID: "job-1", BookingID: bookingID, Done: make(chan tasks.Outcome, 1)}, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func newTestApp(t *testing.T) (*App, pgxmock.PgxPoolIface, *fakeEngine, *fakeDispatcher) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	engine := &fakeEngine{}
	dispatcher := &fakeDispatcher{}
	a := &App{
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cfg: &config.Config{
			StaticTokens:       []string{"test-token"},
			SettingsURL:        "/settings",
			GoogleClientID:     "cid",
			GoogleClientSecret: "secret",
			GoogleRedirectURL:  "http://localhost/oauth2callback",
		},
		Bookings:       store.NewBookingRepository(mock),
		Requests:       store.NewRequestRepository(mock),
		Musicians:      store.NewMusicianRepository(mock),
		Invoices:       store.NewInvoiceRepository(mock),
		Municipalities: store.NewMunicipalityRepository(mock),
		Stats:          store.NewStatsRepository(mock),
		Engine:         engine,
		Dispatcher:     dispatcher,
	}
	return a, mock, engine, dispatcher
}

func doRequest(a *App, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// status workflow
// ---------------------------------------------------------------------------

func TestUpdateStatusDispatchesSync(t *testing.T) {
	a, mock, _, dispatcher := newTestApp(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status=$1`)).
		WithArgs(store.StatusConfirmed, "b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	w := doRequest(a, http.MethodPut, "/api/bookings/b-1/status", `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"b-1"}, dispatcher.enqueued)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp["sync_job_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	a, _, _, dispatcher := newTestApp(t)

	w := doRequest(a, http.MethodPut, "/api/bookings/b-1/status", `{"status":"postponed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, dispatcher.enqueued)
}

func TestUpdateStatusNotFound(t *testing.T) {
	a, mock, _, _ := newTestApp(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status=$1`)).
		WithArgs(store.StatusCancelled, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	w := doRequest(a, http.MethodPut, "/api/bookings/missing/status", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusSucceedsWhenQueueFull(t *testing.T) {
	a, mock, _, dispatcher := newTestApp(t)
	dispatcher.err = tasks.ErrQueueFull

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status=$1`)).
		WithArgs(store.StatusOption, "b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	w := doRequest(a, http.MethodPut, "/api/bookings/b-1/status", `{"status":"option"}`)

	// The status change sticks even when the sync could not be queued.
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "sync_job_id")
}

// ---------------------------------------------------------------------------
// manual sync
// ---------------------------------------------------------------------------

func TestSyncNow(t *testing.T) {
	a, _, engine, _ := newTestApp(t)
	engine.syncRes = &gcal.Result{EventID: "ev-1", Created: true}

	w := doRequest(a, http.MethodPost, "/api/bookings/b-1/sync", "")

	require.Equal(t, http.StatusOK, w.Code)
	var res gcal.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ev-1", res.EventID)
}

func TestSyncNowNotConnected(t *testing.T) {
	a, _, engine, _ := newTestApp(t)
	engine.syncErr = gcal.ErrNotConnected

	w := doRequest(a, http.MethodPost, "/api/bookings/b-1/sync", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncNowProviderFailure(t *testing.T) {
	a, _, engine, _ := newTestApp(t)
	engine.syncErr = &gcal.CalendarAPIError{StatusCode: 500, Body: "backendError"}

	w := doRequest(a, http.MethodPost, "/api/bookings/b-1/sync", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "backendError")
}

func TestSyncNowBookingMissing(t *testing.T) {
	a, _, engine, _ := newTestApp(t)
	engine.syncErr = store.ErrNotFound

	w := doRequest(a, http.MethodPost, "/api/bookings/missing/sync", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---------------------------------------------------------------------------
// OAuth flow
// ---------------------------------------------------------------------------

func TestGoogleConnectRedirects(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	w := doRequest(a, http.MethodGet, "/api/calendar/connect", "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://accounts.example.com/consent")
}

func TestGoogleCallbackSuccess(t *testing.T) {
	a, _, engine, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth2callback?code=auth-code", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/settings?calendar_connected=1", w.Header().Get("Location"))
	assert.Equal(t, "auth-code", engine.callbackCode)
}

func TestGoogleCallbackProviderError(t *testing.T) {
	a, _, engine, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth2callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "calendar_connected=0")
	assert.Empty(t, engine.callbackCode, "no exchange on provider error")
}

func TestGoogleCallbackMissingCode(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth2callback", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---------------------------------------------------------------------------
// bookings
// ---------------------------------------------------------------------------

func TestCreateBookingValidation(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	w := doRequest(a, http.MethodPost, "/api/bookings", `{"place":"Ondara","date":"18-07-2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestKanbanGroupsByStatus(t *testing.T) {
	a, mock, _, _ := newTestApp(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "code", "place", "concept", "venue_detail", "date", "start_time",
		"duration_minutes", "status", "fee_cents", "mileage_km", "notes",
		"client_id", "client_name", "gcal_event_id", "created_at", "updated_at",
	}).
		AddRow("b-1", "B26-001", "Ondara", "", "", now, "", nil, store.StatusConfirmed,
			int64(0), 0, "", nil, "", nil, now, now).
		AddRow("b-2", "B26-002", "Dénia", "", "", now, "", nil, store.StatusOption,
			int64(0), 0, "", nil, "", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY b.date`)).
		WithArgs("", 0).
		WillReturnRows(rows)

	w := doRequest(a, http.MethodGet, "/api/bookings/board", "")

	require.Equal(t, http.StatusOK, w.Code)
	var board map[string][]store.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Len(t, board[store.StatusConfirmed], 1)
	assert.Len(t, board[store.StatusOption], 1)
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func TestAuthRejectsMissingToken(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsWrongToken(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
