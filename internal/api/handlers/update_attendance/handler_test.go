package update_attendance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/estatehub/EstateHub-VisitService/internal/api/middleware"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits"
	"github.com/estatehub/EstateHub-VisitService/internal/service/visits/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type stubVisitsService struct {
	err error
}

func (s *stubVisitsService) SetAttendance(ctx context.Context, visitID int64, req *models.AttendanceRequest) (*models.VisitResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.VisitResponse{ID: visitID, Status: req.Status}, nil
}

func doRequest(t *testing.T, svc VisitsService, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(svc, nopLogger{})
	router := mux.NewRouter()
	router.Handle("/visits/{visitId}/visit-status", middleware.Auth(http.HandlerFunc(h.Handle))).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/visits/5/visit-status", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "200")
	req.Header.Set(middleware.HeaderUserRole, "agent")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"посещено", nil, http.StatusOK},
		{"визит еще не наступил", visits.ErrTooEarly, http.StatusBadRequest},
		{"заявка не подтверждена", visits.ErrInvalidTransition, http.StatusConflict},
		{"чужая заявка", visits.ErrAccessDenied, http.StatusForbidden},
		{"заявка не найдена", visits.ErrVisitNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &stubVisitsService{err: tt.serviceErr}, `{"status":"visited"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
