package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"idportal/internal/model"
	"idportal/internal/service"
	svcmocks "idportal/internal/service/mocks"
	"idportal/internal/validation"
)

type ApplicationHandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	appSvc    *svcmocks.MockApplicationService
	statusSvc *svcmocks.MockStatusService
	router    *gin.Engine
}

func TestApplicationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerSuite))
}

func (s *ApplicationHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.appSvc = svcmocks.NewMockApplicationService(s.ctrl)
	s.statusSvc = svcmocks.NewMockStatusService(s.ctrl)

	r, api, admin := testRouter(model.RoleOperator)
	h := NewApplicationHandler(s.appSvc, s.statusSvc, nil)
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(admin)
	s.router = r
}

type formFile struct {
	field, name, contentType string
	body                     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/applications", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *ApplicationHandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ApplicationHandlerSuite) TestSubmit_PassesFieldsFamilyAndFiles() {
	photo := bytes.Repeat([]byte{0xff}, 2048)
	req := multipartRequest(s.T(),
		map[string]string{
			"applicantType": string(model.ApplicantGazetted),
			"employeeName":  "Asha Verma",
			"familyMembers": `[{"name":"Ravi Verma","relationship":"Son","dob":"2012-04-01"}]`,
		},
		formFile{field: model.SlotPhoto, name: "me.jpg", contentType: "image/jpeg", body: photo},
		formFile{field: model.SlotSignature, name: "sig.png", contentType: "image/png", body: []byte("png")},
	)

	s.appSvc.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in service.SubmitApplicationRequest) (*service.SubmitApplicationResponse, error) {
			s.Equal(string(model.ApplicantGazetted), in.Fields["applicantType"])
			s.Equal("Asha Verma", in.Fields["employeeName"])
			s.NotContains(in.Fields, "familyMembers")

			s.Require().Len(in.FamilyMembers, 1)
			s.Equal("Ravi Verma", in.FamilyMembers[0].Name)
			s.Equal("2012-04-01", in.FamilyMembers[0].DOB)

			s.Require().Contains(in.Files, model.SlotPhoto)
			f := in.Files[model.SlotPhoto]
			s.Equal("me.jpg", f.Name)
			s.Equal("image/jpeg", f.ContentType)
			s.Equal(int64(len(photo)), f.Size)
			rc, err := f.Open()
			s.Require().NoError(err)
			defer rc.Close()
			got, _ := io.ReadAll(rc)
			s.Equal(photo, got)

			s.Contains(in.Files, model.SlotSignature)
			s.NotContains(in.Files, model.SlotHindiName)

			return &service.SubmitApplicationResponse{
				ApplicationID: "ECR-1-ABCDEFGHI",
				Message:       "Application submitted successfully. Your application ID is ECR-1-ABCDEFGHI.",
			}, nil
		})

	w := s.serve(req)

	s.Equal(http.StatusCreated, w.Code)
	var data service.SubmitApplicationResponse
	env := decode(s.T(), w, &data)
	s.Equal("success", env.Status)
	s.Equal("ECR-1-ABCDEFGHI", data.ApplicationID)
	s.Equal(data.Message, env.Message)
}

func (s *ApplicationHandlerSuite) TestSubmit_MalformedFamilyMembersIsFieldError() {
	req := multipartRequest(s.T(), map[string]string{
		"applicantType": string(model.ApplicantGazetted),
		"familyMembers": `[{"name":`,
	})

	w := s.serve(req)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal([]string{"Family members could not be read."}, env.Errors["familyMembers"])
}

func (s *ApplicationHandlerSuite) TestSubmit_ValidationErrorsAreReturnedPerField() {
	errs := validation.Errors{}
	errs.Add("employeeName", "Employee name is required")
	errs.Add("familyMembers[0].dob", "Date of birth is required")
	s.appSvc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, errs)

	w := s.serve(multipartRequest(s.T(), map[string]string{"applicantType": string(model.ApplicantNonGazetted)}))

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal([]string{"Employee name is required"}, env.Errors["employeeName"])
	s.Equal([]string{"Date of birth is required"}, env.Errors["familyMembers[0].dob"])
}

func (s *ApplicationHandlerSuite) TestSubmit_ServerFailureIsGenericFormError() {
	s.appSvc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, service.ErrSubmissionFailed)

	w := s.serve(multipartRequest(s.T(), map[string]string{"applicantType": string(model.ApplicantGazetted)}))

	s.Equal(http.StatusInternalServerError, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal([]string{service.ErrSubmissionFailed.Error()}, env.Errors[validation.FormField])
}

func (s *ApplicationHandlerSuite) TestSubmit_NotMultipart() {
	w := doJSON(s.T(), s.router, http.MethodPost, "/api/applications", map[string]string{"applicantType": "gazetted"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ApplicationHandlerSuite) TestCheckStatus() {
	in := service.StatusCheckRequest{ApplicationID: "ECR-1-ABCDEFGHI", DateOfBirth: "1985-03-12"}
	s.statusSvc.EXPECT().CheckStatus(gomock.Any(), in).Return(&service.StatusCheckResponse{
		ApplicationID:  in.ApplicationID,
		Status:         string(model.StatusPending),
		ApplicantName:  "Asha Verma",
		SubmissionDate: "01 Jan 2024, 10:30 AM",
		Message:        "Application found.",
	}, nil)

	w := doJSON(s.T(), s.router, http.MethodPost, "/api/applications/status", in)

	s.Equal(http.StatusOK, w.Code)
	var data service.StatusCheckResponse
	decode(s.T(), w, &data)
	s.Equal(string(model.StatusPending), data.Status)
	s.Equal("Asha Verma", data.ApplicantName)
}

func (s *ApplicationHandlerSuite) TestCheckStatus_Errors() {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrStatusNotFound, http.StatusNotFound},
		{service.ErrMalformedDOB, http.StatusBadRequest},
		{errors.New("store offline"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.err.Error(), func() {
			s.statusSvc.EXPECT().CheckStatus(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := doJSON(s.T(), s.router, http.MethodPost, "/api/applications/status",
				service.StatusCheckRequest{ApplicationID: "ECR-1-X", DateOfBirth: "1985-03-12"})

			s.Equal(tt.status, w.Code)
			env := decode(s.T(), w, nil)
			if tt.status == http.StatusInternalServerError {
				s.Equal("Internal server error", env.Error)
			} else {
				s.Equal(tt.err.Error(), env.Error)
			}
		})
	}
}

func (s *ApplicationHandlerSuite) TestCheckStatus_MissingFields() {
	w := doJSON(s.T(), s.router, http.MethodPost, "/api/applications/status", map[string]string{"applicationId": "ECR-1-X"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ApplicationHandlerSuite) TestAdminRoutesRequireSession() {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/applications", nil)
	w := s.serve(req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ApplicationHandlerSuite) TestListApplications() {
	s.appSvc.EXPECT().ListApplications(gomock.Any(), service.ApplicationFilter{Status: string(model.StatusPending), Page: 2, Limit: 5}).
		Return([]service.ApplicationResponse{{ApplicationID: "ECR-2"}}, int64(6), nil)

	w := doJSON(s.T(), s.router, http.MethodGet, "/api/admin/applications?status=pending&page=2&limit=5", nil)

	s.Equal(http.StatusOK, w.Code)
	var page struct {
		Items []service.ApplicationResponse `json:"items"`
		Total int64                         `json:"total"`
		Page  int                           `json:"page"`
		Limit int                           `json:"limit"`
	}
	decode(s.T(), w, &page)
	s.Equal(int64(6), page.Total)
	s.Equal(2, page.Page)
	s.Require().Len(page.Items, 1)
	s.Equal("ECR-2", page.Items[0].ApplicationID)
}

func (s *ApplicationHandlerSuite) TestGetApplication_NotFound() {
	s.appSvc.EXPECT().GetApplication(gomock.Any(), "ECR-404").Return(nil, service.ErrApplicationNotFound)

	w := doJSON(s.T(), s.router, http.MethodGet, "/api/admin/applications/ECR-404", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ApplicationHandlerSuite) TestUpdateStatus() {
	s.appSvc.EXPECT().UpdateStatus(gomock.Any(), "ECR-1", string(model.StatusApproved), testActor).
		Return(&service.UpdateApplicationStatusResponse{
			Application: service.ApplicationResponse{ApplicationID: "ECR-1", Status: string(model.StatusApproved)},
			Message:     "Application status updated to approved successfully.",
		}, nil)

	w := doJSON(s.T(), s.router, http.MethodPut, "/api/admin/applications/ECR-1/status",
		service.UpdateApplicationStatusRequest{Status: string(model.StatusApproved)})

	s.Equal(http.StatusOK, w.Code)
	env := decode(s.T(), w, nil)
	s.Equal("Application status updated to approved successfully.", env.Message)
}

func (s *ApplicationHandlerSuite) TestUpdateStatus_RejectsUnknownStatus() {
	w := doJSON(s.T(), s.router, http.MethodPut, "/api/admin/applications/ECR-1/status",
		map[string]string{"status": "pending"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ApplicationHandlerSuite) TestUpdateStatus_AlreadyDecided() {
	err := fmt.Errorf("%w: application is already rejected", service.ErrInvalidTransition)
	s.appSvc.EXPECT().UpdateStatus(gomock.Any(), "ECR-1", string(model.StatusApproved), testActor).Return(nil, err)

	w := doJSON(s.T(), s.router, http.MethodPut, "/api/admin/applications/ECR-1/status",
		service.UpdateApplicationStatusRequest{Status: string(model.StatusApproved)})

	s.Equal(http.StatusConflict, w.Code)
	env := decode(s.T(), w, nil)
	s.Contains(env.Error, "Failed to update status.")
	s.Contains(env.Error, "already rejected")
}

func TestSubmitRequestFromForm_IgnoresUnknownFileParts(t *testing.T) {
	form := &multipart.Form{
		Value: map[string][]string{"applicantType": {"gazetted"}, "empty": {}},
		File: map[string][]*multipart.FileHeader{
			"somethingElse": {{Filename: "x.jpg", Size: 3}},
			model.SlotPhoto:  {{Filename: "p.jpg", Size: 5}},
		},
	}

	req, errs := submitRequestFromForm(form)

	assert.Empty(t, errs)
	assert.Equal(t, "gazetted", req.Fields["applicantType"])
	assert.NotContains(t, req.Fields, "empty")
	assert.Len(t, req.Files, 1)
	assert.Equal(t, int64(5), req.Files[model.SlotPhoto].Size)
	assert.Nil(t, req.FamilyMembers)
}

func (s *ApplicationHandlerSuite) TestSubmit_OnePartPerFamilyMember() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("applicantType", string(model.ApplicantNonGazetted)))
	s.Require().NoError(mw.WriteField("familyMembers", `{"name":"Anita Sahoo","relationship":"Spouse","dob":"1990-02-10T18:30:00.000Z"}`))
	s.Require().NoError(mw.WriteField("familyMembers", `{"name":"Ravi Sahoo","relationship":"Son","dob":"2012-04-01"}`))
	s.Require().NoError(mw.Close())

	s.appSvc.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in service.SubmitApplicationRequest) (*service.SubmitApplicationResponse, error) {
			s.Require().Len(in.FamilyMembers, 2)
			s.Equal("Anita Sahoo", in.FamilyMembers[0].Name)
			s.Equal("1990-02-10T18:30:00.000Z", in.FamilyMembers[0].DOB)
			s.Equal("Ravi Sahoo", in.FamilyMembers[1].Name)
			return &service.SubmitApplicationResponse{ApplicationID: "ECR-1-ABCDEFGHI"}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/applications", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.serve(req)

	s.Equal(http.StatusCreated, w.Code)
}

func TestSubmitRequestFromForm_FamilyMembers(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		names   []string
		wantErr bool
	}{
		{
			name:   "one object per part",
			values: []string{`{"name":"A","relationship":"Son","dob":"2012-04-01"}`, `{"name":"B","relationship":"Wife","dob":"1990-01-01"}`},
			names:  []string{"A", "B"},
		},
		{
			name:   "array in a single part",
			values: []string{`[{"name":"A","relationship":"Son","dob":"2012-04-01"},{"name":"B","relationship":"Wife","dob":"1990-01-01"}]`},
			names:  []string{"A", "B"},
		},
		{
			name:   "blank parts are skipped",
			values: []string{"  ", `{"name":"A","relationship":"Son","dob":"2012-04-01"}`},
			names:  []string{"A"},
		},
		{
			name:    "unreadable part",
			values:  []string{`{"name":"A","relationship":"Son","dob":"2012-04-01"}`, `{"name":`},
			names:   []string{"A"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := &multipart.Form{Value: map[string][]string{"familyMembers": tt.values}}

			req, errs := submitRequestFromForm(form)

			var got []string
			for _, fm := range req.FamilyMembers {
				got = append(got, fm.Name)
			}
			assert.Equal(t, tt.names, got)
			assert.Equal(t, tt.wantErr, errs.Has("familyMembers"))
			assert.NotContains(t, req.Fields, "familyMembers")
		})
	}
}
