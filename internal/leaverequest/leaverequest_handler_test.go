package leaverequest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	balanceerrors "github.com/parryG11/hr/internal/balance/errors"
	"github.com/parryG11/hr/internal/leaverequest"
	leaverequesterrors "github.com/parryG11/hr/internal/leaverequest/errors"
)

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveRequestService struct {
	createFn  func(ctx context.Context, actorID string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error)
	getAllFn  func(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequestResponse, error)
	getByIDFn func(ctx context.Context, id string) (leaverequest.LeaveRequestResponse, error)
	updateFn  func(ctx context.Context, actorID, id string, req leaverequest.UpdateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error)
	approveFn func(ctx context.Context, actorID, id string) (leaverequest.LeaveRequestResponse, error)
	rejectFn  func(ctx context.Context, actorID, id, rejectionReason string) (leaverequest.LeaveRequestResponse, error)
	cancelFn  func(ctx context.Context, actorID, id string) (leaverequest.LeaveRequestResponse, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeLeaveRequestService) Create(ctx context.Context, actorID string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.createFn(ctx, actorID, req)
}
func (f *fakeLeaveRequestService) GetAll(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequestResponse, error) {
	return f.getAllFn(ctx, filter)
}
func (f *fakeLeaveRequestService) GetByID(ctx context.Context, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveRequestService) Update(ctx context.Context, actorID, id string, req leaverequest.UpdateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeLeaveRequestService) Approve(ctx context.Context, actorID, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.approveFn(ctx, actorID, id)
}
func (f *fakeLeaveRequestService) Reject(ctx context.Context, actorID, id, rejectionReason string) (leaverequest.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, actorID, id, rejectionReason)
}
func (f *fakeLeaveRequestService) Cancel(ctx context.Context, actorID, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.cancelFn(ctx, actorID, id)
}
func (f *fakeLeaveRequestService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestLeaveRequestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()
	body := `{"employeeId":"` + employeeID + `","leaveTypeId":"` + leaveTypeID + `","startDate":"2024-03-01","endDate":"2024-03-05","reason":"family matters"}`

	newCreateContext := func(w *httptest.ResponseRecorder) *gin.Context {
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)
		return c
	}

	t.Run("success returns 201 with the pending request", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			createFn: func(ctx context.Context, aid string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, employeeID, req.EmployeeID)
				return leaverequest.LeaveRequestResponse{
					ID:          uuid.New().String(),
					EmployeeID:  req.EmployeeID,
					LeaveTypeID: req.LeaveTypeID,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					TotalDays:   5,
					Status:      leaverequest.StatusPending,
					CreatedBy:   aid,
				}, nil
			},
		}

		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		h.Create(newCreateContext(w))

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Nil(t, env.Error)
	})

	t.Run("negative insufficient balance maps to 422", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			createFn: func(ctx context.Context, aid string, req leaverequest.CreateLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, balanceerrors.NewInsufficientBalance(
					decimal.NewFromInt(5), decimal.NewFromInt(2))
			},
		}

		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		h.Create(newCreateContext(w))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

		var details map[string]string
		assert.NoError(t, json.Unmarshal(env.Error.Details, &details))
		assert.Equal(t, "5", details["requested"])
		assert.Equal(t, "2", details["available"])
	})

	t.Run("negative malformed body returns 400", func(t *testing.T) {
		h := leaverequest.NewHandler(&fakeLeaveRequestService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{"employeeId":"nope"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveRequestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("negative invalid transition maps to 400 with the current status", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, id string) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{},
					leaverequesterrors.NewInvalidTransition(leaverequest.StatusCancelled, leaverequest.StatusApproved)
			},
		}

		h := leaverequest.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leave-requests/"+requestID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Set("user_id", actorID)

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)

		var details map[string]string
		assert.NoError(t, json.Unmarshal(env.Error.Details, &details))
		assert.Equal(t, leaverequest.StatusCancelled, details["currentStatus"])
	})
}
