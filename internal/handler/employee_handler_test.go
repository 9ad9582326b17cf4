package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"idportal/internal/model"
	"idportal/internal/service"
	svcmocks "idportal/internal/service/mocks"
	"idportal/internal/validation"
)

type EmployeeHandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *svcmocks.MockEmployeeService
	router *gin.Engine
}

func TestEmployeeHandlerSuite(t *testing.T) {
	suite.Run(t, new(EmployeeHandlerSuite))
}

func (s *EmployeeHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = svcmocks.NewMockEmployeeService(s.ctrl)
	s.router = s.routerAs(model.RoleAdmin)
}

func (s *EmployeeHandlerSuite) routerAs(role string) *gin.Engine {
	r, _, admin := testRouter(role)
	NewEmployeeHandler(s.svc).RegisterAdminRoutes(admin)
	return r
}

func validEmployeeInput() validation.EmployeeInput {
	return validation.EmployeeInput{
		EmpNo:                "50012345",
		EmpName:              "Asha Verma",
		Designation:          "Clerk",
		Department:           "ACCOUNTS",
		Station:              "BHUBANESWAR",
		DOB:                  "1985-03-12",
		Address:              "Plot 7, Sahid Nagar",
		MobileNumber:         "9876543210",
		EmergencyContactName: "Ravi Verma",
		EmergencyContactNo:   "9123456780",
	}
}

func (s *EmployeeHandlerSuite) TestListEmployees_PassesFilters() {
	s.svc.EXPECT().ListEmployees(gomock.Any(), service.EmployeeListFilter{
		Status:     "Closed",
		Department: "ACCOUNTS",
		Page:       1,
		Limit:      20,
	}).Return([]service.EmployeeResponse{{ID: "e1", EmpName: "Asha Verma"}}, int64(1), nil)

	w := doJSON(s.T(), s.router, http.MethodGet, "/api/admin/employees?status=Closed&department=ACCOUNTS", nil)

	s.Equal(http.StatusOK, w.Code)
	var page struct {
		Items []service.EmployeeResponse `json:"items"`
		Total int64                      `json:"total"`
	}
	decode(s.T(), w, &page)
	s.Equal(int64(1), page.Total)
	s.Equal("Asha Verma", page.Items[0].EmpName)
}

func (s *EmployeeHandlerSuite) TestCreateEmployee() {
	in := validEmployeeInput()
	s.svc.EXPECT().CreateEmployee(gomock.Any(), in, testActor).Return(&service.EmployeeResponse{ID: "e1", EmpNo: in.EmpNo}, nil)

	w := doJSON(s.T(), s.router, http.MethodPost, "/api/admin/employees", in)

	s.Equal(http.StatusCreated, w.Code)
	var data service.EmployeeResponse
	decode(s.T(), w, &data)
	s.Equal("e1", data.ID)
}

func (s *EmployeeHandlerSuite) TestCreateEmployee_ValidationErrors() {
	errs := validation.Errors{}
	errs.Add("mobileNumber", "Mobile number must be 10 digits starting with 6-9")
	s.svc.EXPECT().CreateEmployee(gomock.Any(), gomock.Any(), testActor).Return(nil, errs)

	w := doJSON(s.T(), s.router, http.MethodPost, "/api/admin/employees", validEmployeeInput())

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal("Please correct the errors in the form.", env.Error)
	s.Contains(env.Errors, "mobileNumber")
}

func (s *EmployeeHandlerSuite) TestGetEmployee_NotFound() {
	s.svc.EXPECT().GetEmployee(gomock.Any(), "missing").Return(nil, service.ErrEmployeeNotFound)

	w := doJSON(s.T(), s.router, http.MethodGet, "/api/admin/employees/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EmployeeHandlerSuite) TestStaticRoutesWinOverID() {
	s.svc.EXPECT().SearchEmployees(gomock.Any(), "Ash").Return([]service.EmployeeResponse{{ID: "e1"}}, nil)
	s.svc.EXPECT().EmployeesByDateRange(gomock.Any(), "2024-01-01", "2024-01-31").Return([]service.EmployeeResponse{}, nil)
	s.svc.EXPECT().ExportEmployees(gomock.Any()).Return([]service.EmployeeResponse{}, nil)

	w := doJSON(s.T(), s.router, http.MethodGet, "/api/admin/employees/search?q=Ash", nil)
	s.Equal(http.StatusOK, w.Code)

	w = doJSON(s.T(), s.router, http.MethodGet, "/api/admin/employees/range?start=2024-01-01&end=2024-01-31", nil)
	s.Equal(http.StatusOK, w.Code)

	w = doJSON(s.T(), s.router, http.MethodGet, "/api/admin/employees/export", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "employees.json")
}

func (s *EmployeeHandlerSuite) TestUpdateEmployeeStatus() {
	s.svc.EXPECT().UpdateEmployeeStatus(gomock.Any(), "e1", "Closed", testActor).Return(nil)

	w := doJSON(s.T(), s.router, http.MethodPut, "/api/admin/employees/e1/status", service.EmployeeStatusRequest{Status: "Closed"})

	s.Equal(http.StatusOK, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal("Employee status updated to Closed.", env.Message)
}

func (s *EmployeeHandlerSuite) TestBulkUpdateStatus_EmptySelection() {
	s.svc.EXPECT().BulkUpdateStatus(gomock.Any(), []string{}, "Closed", testActor).Return(service.ErrEmptySelection)

	w := doJSON(s.T(), s.router, http.MethodPut, "/api/admin/employees/bulk/status",
		service.BulkStatusRequest{IDs: []string{}, Status: "Closed"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeHandlerSuite) TestDestructiveRoutesRequireAdminRole() {
	operator := s.routerAs(model.RoleOperator)

	w := doJSON(s.T(), operator, http.MethodDelete, "/api/admin/employees/e1", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = doJSON(s.T(), operator, http.MethodPost, "/api/admin/employees/bulk/delete", service.BulkDeleteRequest{IDs: []string{"e1"}})
	s.Equal(http.StatusForbidden, w.Code)

	w = doJSON(s.T(), operator, http.MethodDelete, "/api/admin/files", service.DeleteFileRequest{Path: "employees/e1/photo-a.jpg"})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *EmployeeHandlerSuite) TestDeleteEmployee() {
	s.svc.EXPECT().DeleteEmployee(gomock.Any(), "e1", testActor).Return(nil)

	w := doJSON(s.T(), s.router, http.MethodDelete, "/api/admin/employees/e1", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *EmployeeHandlerSuite) TestBulkDelete() {
	s.svc.EXPECT().BulkDelete(gomock.Any(), []string{"e1", "e2"}, testActor).Return(nil)

	w := doJSON(s.T(), s.router, http.MethodPost, "/api/admin/employees/bulk/delete", service.BulkDeleteRequest{IDs: []string{"e1", "e2"}})

	s.Equal(http.StatusOK, w.Code)
}

func (s *EmployeeHandlerSuite) TestDeleteFile_InvalidPath() {
	s.svc.EXPECT().DeleteFile(gomock.Any(), "../etc/passwd", testActor).Return(service.ErrInvalidFilePath)

	w := doJSON(s.T(), s.router, http.MethodDelete, "/api/admin/files", service.DeleteFileRequest{Path: "../etc/passwd"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeHandlerSuite) TestUploadFile() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="face.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	s.Require().NoError(err)
	_, _ = part.Write([]byte("png-bytes"))
	s.Require().NoError(mw.Close())

	s.svc.EXPECT().UploadFile(gomock.Any(), "e1", model.EmployeeSlotPhoto, gomock.Any(), testActor).
		DoAndReturn(func(_ context.Context, _, _ string, f service.UploadedFile, _ service.Actor) (*service.FileUploadResponse, error) {
			s.Equal("face.png", f.Name)
			s.Equal("image/png", f.ContentType)
			rc, err := f.Open()
			s.Require().NoError(err)
			defer rc.Close()
			body, _ := io.ReadAll(rc)
			s.Equal("png-bytes", string(body))
			return &service.FileUploadResponse{URL: "http://localhost:8080/files/employees/e1/photo-face.png"}, nil
		})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/employees/e1/files/%s", model.EmployeeSlotPhoto), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusCreated, w.Code)
	var data service.FileUploadResponse
	decode(s.T(), w, &data)
	s.Equal("http://localhost:8080/files/employees/e1/photo-face.png", data.URL)
}

func (s *EmployeeHandlerSuite) TestUploadFile_MissingPart() {
	w := doJSON(s.T(), s.router, http.MethodPost, "/api/admin/employees/e1/files/photo", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
}
