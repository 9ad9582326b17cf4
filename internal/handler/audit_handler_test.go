package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"idportal/internal/model"
	"idportal/internal/service"
	svcmocks "idportal/internal/service/mocks"
)

func TestAuditHandler_GetAuditLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockAuditService(ctrl)

	r, _, admin := testRouter(model.RoleSuperAdmin)
	NewAuditHandler(svc).RegisterAdminRoutes(admin)

	svc.EXPECT().GetAuditLogs(gomock.Any(), 2, 10).Return([]service.AuditLogResponse{
		{ID: "a1", Username: "admin@example.org", Action: model.ActionCreateAdminUser},
	}, int64(11), nil)

	w := doJSON(t, r, http.MethodGet, "/api/admin/audit-logs?page=2&limit=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []service.AuditLogResponse `json:"items"`
		Total int64                      `json:"total"`
		Page  int                        `json:"page"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "a1", page.Items[0].ID)
}

func TestAuditHandler_Failures(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockAuditService(ctrl)

	r, _, admin := testRouter(model.RoleAdmin)
	NewAuditHandler(svc).RegisterAdminRoutes(admin)

	svc.EXPECT().GetAuditLogs(gomock.Any(), 1, 20).Return(nil, int64(0), errors.New("store offline"))
	w := doJSON(t, r, http.MethodGet, "/api/admin/audit-logs", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	operator, _, opAdmin := testRouter(model.RoleOperator)
	NewAuditHandler(svc).RegisterAdminRoutes(opAdmin)
	w = doJSON(t, operator, http.MethodGet, "/api/admin/audit-logs", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
