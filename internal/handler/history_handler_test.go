package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/handler"
	"github.com/Cascadia376/invoice-automator-sub000/mocks"
)

func setupHistoryRouter(repo *mocks.MockPostingHistoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHistoryHandler(repo)

	r := gin.New()
	history := r.Group("/api/v1/posting-history")
	{
		history.GET("", h.List)
		history.GET("/:runID", h.ListByRun)
	}
	return r
}

func TestHistoryHandler_List(t *testing.T) {
	repo := new(mocks.MockPostingHistoryRepo)
	router := setupHistoryRouter(repo)

	records := []domain.PostingRecord{
		{ID: uuid.New(), RunID: uuid.New(), InvoiceID: uuid.New(), Outcome: domain.OutcomeSuccess, PostedAt: time.Now().UTC()},
	}
	repo.On("List", mock.Anything, 0, 50).Return(records, 1, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posting-history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Success bool                   `json:"success"`
		Data    []domain.PostingRecord `json:"data"`
		Meta    *handler.PagMeta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Len(t, env.Data, 1)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)
	assert.Equal(t, 50, env.Meta.Limit)
}

func TestHistoryHandler_List_ClampsLimit(t *testing.T) {
	repo := new(mocks.MockPostingHistoryRepo)
	router := setupHistoryRouter(repo)

	repo.On("List", mock.Anything, 0, 50).Return([]domain.PostingRecord{}, 0, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posting-history?limit=9999", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertCalled(t, "List", mock.Anything, 0, 50)
}

func TestHistoryHandler_ListByRun(t *testing.T) {
	repo := new(mocks.MockPostingHistoryRepo)
	router := setupHistoryRouter(repo)

	runID := uuid.New()
	records := []domain.PostingRecord{
		{ID: uuid.New(), RunID: runID, InvoiceID: uuid.New(), Outcome: domain.OutcomeFailed, Reason: "duplicate"},
	}
	repo.On("ListByRun", mock.Anything, runID).Return(records, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posting-history/"+runID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
}

func TestHistoryHandler_ListByRun_InvalidID(t *testing.T) {
	repo := new(mocks.MockPostingHistoryRepo)
	router := setupHistoryRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posting-history/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "ListByRun")
}
