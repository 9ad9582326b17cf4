package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"idportal/internal/model"
	"idportal/internal/service"
	"idportal/internal/validation"
	"idportal/pkg/pagination"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxSubmissionBytes bounds a whole multipart submission: four scans at the
// per-file limit plus the form fields.
const maxSubmissionBytes = 4*validation.MaxFileSize + 1<<20

const familyMembersField = "familyMembers"

var applicationSlots = []string{
	model.SlotPhoto,
	model.SlotSignature,
	model.SlotHindiName,
	model.SlotHindiDesignation,
}

type ApplicationHandler struct {
	applicationService service.ApplicationService
	statusService      service.StatusService
	statusLimit        gin.HandlerFunc
}

// NewApplicationHandler wires the public application endpoints. statusLimit
// guards the status lookup and may be nil.
func NewApplicationHandler(applicationService service.ApplicationService, statusService service.StatusService, statusLimit gin.HandlerFunc) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		statusService:      statusService,
		statusLimit:        statusLimit,
	}
}

func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	applications := router.Group("/applications")
	{
		applications.POST("", h.SubmitApplication)
		if h.statusLimit != nil {
			applications.POST("/status", h.statusLimit, h.CheckStatus)
		} else {
			applications.POST("/status", h.CheckStatus)
		}
	}
}

func (h *ApplicationHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	applications := admin.Group("/applications")
	{
		applications.GET("", h.ListApplications)
		applications.GET("/:id", h.GetApplication)
		applications.PUT("/:id/status", h.UpdateStatus)
	}
}

// SubmitApplication godoc
// @Summary      Submit an ID card application
// @Description  Accepts the application form as multipart/form-data. familyMembers is repeated with one JSON object per member (a single JSON array is also accepted); scans are sent in the uploadPhoto, uploadSignature, uploadHindiName and uploadHindiDesignation parts.
// @Tags         applications
// @Accept       mpfd
// @Produce      json
// @Param        applicantType    formData  string  true   "gazetted or non-gazetted"
// @Param        familyMembers    formData  string  false  "One family member as a JSON object; repeat the part per member"
// @Param        uploadPhoto      formData  file    true   "Photo"
// @Param        uploadSignature  formData  file    true   "Signature"
// @Success      201  {object}  response.Response{data=service.SubmitApplicationResponse}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /applications [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "Submission is too large."))
			return
		}
		bindError(c, err)
		return
	}

	req, errs := submitRequestFromForm(form)
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, response.Invalid(errs))
		return
	}

	result, err := h.applicationService.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(http.StatusCreated, result.Message, result))
}

func submitRequestFromForm(form *multipart.Form) (service.SubmitApplicationRequest, validation.Errors) {
	req := service.SubmitApplicationRequest{
		Fields: make(map[string]string, len(form.Value)),
		Files:  make(map[string]service.UploadedFile),
	}
	errs := validation.Errors{}

	for name, values := range form.Value {
		if name == familyMembersField || len(values) == 0 {
			continue
		}
		req.Fields[name] = values[0]
	}

	// Browsers send one part per member; an array in a single part is accepted too.
	for _, value := range form.Value[familyMembersField] {
		raw := strings.TrimSpace(value)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "[") {
			var members []validation.FamilyMemberInput
			if err := json.Unmarshal([]byte(raw), &members); err != nil {
				errs.Add(familyMembersField, "Family members could not be read.")
				continue
			}
			req.FamilyMembers = append(req.FamilyMembers, members...)
			continue
		}
		var member validation.FamilyMemberInput
		if err := json.Unmarshal([]byte(raw), &member); err != nil {
			errs.Add(familyMembersField, "Family members could not be read.")
			continue
		}
		req.FamilyMembers = append(req.FamilyMembers, member)
	}

	for _, slot := range applicationSlots {
		headers := form.File[slot]
		if len(headers) == 0 {
			continue
		}
		req.Files[slot] = uploadedFile(headers[0])
	}
	return req, errs
}

func uploadedFile(fh *multipart.FileHeader) service.UploadedFile {
	return service.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// CheckStatus godoc
// @Summary      Check application status
// @Description  Looks up an application by ID and applicant date of birth (yyyy-MM-dd)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StatusCheckRequest  true  "Lookup"
// @Success      200      {object}  response.Response{data=service.StatusCheckResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /applications/status [post]
func (h *ApplicationHandler) CheckStatus(c *gin.Context) {
	var req service.StatusCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.statusService.CheckStatus(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, result.Message, result))
}

// ListApplications godoc
// @Summary      List applications
// @Description  Newest first, optionally filtered by status
// @Tags         admin-applications
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, approved or rejected"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=response.Page}
// @Router       /admin/applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	params := pagination.Parse(c)

	applications, total, err := h.applicationService.ListApplications(c.Request.Context(), service.ApplicationFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Result(applications, total)))
}

// GetApplication returns one application with its documents
// @Summary      Get application
// @Tags         admin-applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=service.ApplicationResponse}
// @Failure      404  {object}  response.Response
// @Router       /admin/applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	result, err := h.applicationService.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateStatus approves or rejects a pending application
// @Summary      Update application status
// @Tags         admin-applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                                  true  "Application ID"
// @Param        payload  body      service.UpdateApplicationStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=service.UpdateApplicationStatusResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /admin/applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.applicationService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) || errors.Is(err, service.ErrApplicationNotFound) {
			status := http.StatusConflict
			if errors.Is(err, service.ErrApplicationNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, response.Error(status, "Failed to update status. "+err.Error()))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, result.Message, result))
}
