package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"messageapi/internal/config"
	"messageapi/internal/logging"
	"messageapi/internal/message"
	"messageapi/internal/message/mocks"
)

func newTestRouter(t *testing.T, store message.Store, pageSize int) http.Handler {
	t.Helper()
	log := logging.Discard()
	return NewRouter(NewHandler(store, config.APIConfig{ItemsPerPage: pageSize}, log), log)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestTeapot(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mocks.NewMockStore(ctrl), 30)

	rec := serve(router, http.MethodGet, "/")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Take a break, make some tea."}`, rec.Body.String())
}

func TestListMessages(t *testing.T) {
	created := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	msg, err := message.NewAt("The quick fox", "jumps", created)
	require.NoError(t, err)

	tests := []struct {
		name       string
		target     string
		mockSetup  func(*mocks.MockStore)
		wantStatus int
		check      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "collection envelope",
			target: "/api/messages",
			mockSetup: func(store *mocks.MockStore) {
				store.EXPECT().
					List(gomock.Any(), message.Filter{}, message.Page{Number: 1, Size: 30}).
					Return([]*message.Message{msg}, int64(1), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "application/ld+json; charset=utf-8", rec.Header().Get("Content-Type"))

				body := decode[map[string]any](t, rec)
				assert.Equal(t, "/api/contexts/Message", body["@context"])
				assert.Equal(t, "/api/messages", body["@id"])
				assert.Equal(t, "Collection", body["@type"])
				assert.Equal(t, float64(1), body["totalItems"])
				assert.NotContains(t, body, "view")

				members := body["member"].([]any)
				require.Len(t, members, 1)
				member := members[0].(map[string]any)
				assert.Equal(t, "Message", member["@type"])
				assert.Equal(t, msg.ID.String(), member["id"])
				assert.Equal(t, "The quick fox", member["title"])
				assert.Equal(t, "jumps", member["body"])
				assert.Equal(t, "2024-04-01T09:00:00Z", member["createdDate"])
				assert.Equal(t, "2024-04-01T09:00:00Z", member["updatedDate"])

				search := body["search"].(map[string]any)
				assert.Equal(t, "/api/messages{?id,title}", search["template"])
			},
		},
		{
			name:   "empty collection",
			target: "/api/messages?title=slow",
			mockSetup: func(store *mocks.MockStore) {
				store.EXPECT().
					List(gomock.Any(), message.Filter{Title: "slow"}, gomock.Any()).
					Return([]*message.Message{}, int64(0), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decode[Collection](t, rec)
				assert.Equal(t, int64(0), body.TotalItems)
				assert.NotNil(t, body.Member)
				assert.Empty(t, body.Member)
			},
		},
		{
			name:   "id and title filters",
			target: "/api/messages?id=" + msg.ID.String() + "&title=quick",
			mockSetup: func(store *mocks.MockStore) {
				store.EXPECT().
					List(gomock.Any(), message.Filter{ID: &msg.ID, Title: "quick"}, message.Page{Number: 1, Size: 30}).
					Return([]*message.Message{msg}, int64(1), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "pagination view",
			target: "/api/messages?page=2&title=quick",
			mockSetup: func(store *mocks.MockStore) {
				store.EXPECT().
					List(gomock.Any(), message.Filter{Title: "quick"}, message.Page{Number: 2, Size: 30}).
					Return([]*message.Message{msg}, int64(100), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decode[Collection](t, rec)
				require.NotNil(t, body.View)
				assert.Equal(t, "PartialCollectionView", body.View.Type)
				assert.Equal(t, "/api/messages?page=2&title=quick", body.View.ID)
				assert.Equal(t, "/api/messages?page=1&title=quick", body.View.First)
				assert.Equal(t, "/api/messages?page=4&title=quick", body.View.Last)
				assert.Equal(t, "/api/messages?page=1&title=quick", body.View.Previous)
				assert.Equal(t, "/api/messages?page=3&title=quick", body.View.Next)
			},
		},
		{
			name:       "malformed id",
			target:     "/api/messages?id=not-a-uuid",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "application/problem+json; charset=utf-8", rec.Header().Get("Content-Type"))
				problem := decode[Problem](t, rec)
				assert.Equal(t, http.StatusBadRequest, problem.Status)
				assert.Contains(t, problem.Detail, "id")
			},
		},
		{
			name:       "zero page",
			target:     "/api/messages?page=0",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "page past int range",
			target:     "/api/messages?page=9223372036854775807",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				problem := decode[Problem](t, rec)
				assert.Contains(t, problem.Detail, "page")
			},
		},
		{
			name:       "page overflowing the offset",
			target:     "/api/messages?page=307445734561825861",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "page beyond int64",
			target:     "/api/messages?page=99999999999999999999",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				problem := decode[Problem](t, rec)
				assert.Contains(t, problem.Detail, "out of range")
			},
		},
		{
			name:       "non numeric page",
			target:     "/api/messages?page=two",
			mockSetup:  func(*mocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "storage failure",
			target: "/api/messages",
			mockSetup: func(store *mocks.MockStore) {
				store.EXPECT().
					List(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, int64(0), errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				problem := decode[Problem](t, rec)
				assert.NotContains(t, problem.Detail, "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			tt.mockSetup(store)

			rec := serve(newTestRouter(t, store, 30), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestListMessages_ConfiguredPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		List(gomock.Any(), message.Filter{}, message.Page{Number: 1, Size: 5}).
		Return([]*message.Message{}, int64(0), nil)

	rec := serve(newTestRouter(t, store, 5), http.MethodGet, "/api/messages")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMessageContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := serve(newTestRouter(t, mocks.NewMockStore(ctrl), 30), http.MethodGet, "/api/contexts/Message")

	assert.Equal(t, http.StatusOK, rec.Code)
	doc := decode[ContextDocument](t, rec)
	assert.Equal(t, "Message/title", doc.Context["title"])
	assert.Equal(t, "http://www.w3.org/ns/hydra/core#", doc.Context["hydra"])
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantBody: `{"status":"healthy"}`},
		{name: "unhealthy", pingErr: assert.AnError, wantStatus: http.StatusServiceUnavailable, wantBody: `{"status":"unhealthy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			store.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			rec := serve(newTestRouter(t, store, 30), http.MethodGet, "/health")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mocks.NewMockStore(ctrl), 30)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodPost, "/api/messages").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/messages/"+uuid.NewString()).Code)

	for _, path := range []string{"/", "/health", "/api/messages", "/api/contexts/Message"} {
		preflight := serve(router, http.MethodOptions, path)
		assert.Equal(t, http.StatusNoContent, preflight.Code, path)
		assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "bad request", err: &badRequestError{param: "page", msg: "bad"}, status: http.StatusBadRequest},
		{name: "validation", err: &message.ValidationError{Field: "title", Rule: "required"}, status: http.StatusUnprocessableEntity},
		{name: "conflict", err: &message.ConflictError{ID: uuid.New()}, status: http.StatusConflict},
		{name: "not found", err: message.ErrNotFound, status: http.StatusNotFound},
		{name: "storage", err: errors.New("disk full"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler := recoverMiddleware(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(handler, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
