package handler

import (
	"net/http"

	"idportal/internal/middleware"
	"idportal/internal/model"
	"idportal/internal/service"
	"idportal/internal/validation"
	"idportal/pkg/pagination"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	destructive := middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin)

	employees := admin.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/search", h.SearchEmployees)
		employees.GET("/range", h.EmployeesByDateRange)
		employees.GET("/export", h.ExportEmployees)
		employees.PUT("/bulk/status", h.BulkUpdateStatus)
		employees.POST("/bulk/delete", destructive, h.BulkDelete)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", destructive, h.DeleteEmployee)
		employees.PUT("/:id/status", h.UpdateEmployeeStatus)
		employees.POST("/:id/files/:slot", h.UploadFile)
	}
	admin.DELETE("/files", destructive, h.DeleteFile)
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Workflow status"
// @Param        department  query     string  false  "Department"
// @Param        station     query     string  false  "Station"
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  response.Response{data=response.Page}
// @Router       /admin/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), service.EmployeeListFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Station:    c.Query("station"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Result(employees, total)))
}

// CreateEmployee godoc
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      validation.EmployeeInput  true  "Employee"
// @Success      201      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      422      {object}  response.Response
// @Router       /admin/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req validation.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.employeeService.CreateEmployee(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	result, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req validation.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteEmployee godoc
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Employee deleted successfully.", nil))
}

// SearchEmployees matches employee names by prefix, at most 20 results
func (h *EmployeeHandler) SearchEmployees(c *gin.Context) {
	result, err := h.employeeService.SearchEmployees(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// EmployeesByDateRange lists employees whose application date falls within
// start and end (yyyy-MM-dd, inclusive)
func (h *EmployeeHandler) EmployeesByDateRange(c *gin.Context) {
	result, err := h.employeeService.EmployeesByDateRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *EmployeeHandler) ExportEmployees(c *gin.Context) {
	result, err := h.employeeService.ExportEmployees(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="employees.json"`)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *EmployeeHandler) UpdateEmployeeStatus(c *gin.Context) {
	var req service.EmployeeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.employeeService.UpdateEmployeeStatus(c.Request.Context(), c.Param("id"), req.Status, actorFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Employee status updated to "+req.Status+".", nil))
}

// BulkUpdateStatus godoc
// @Summary      Update the status of several employees
// @Description  Applies to every listed employee or to none
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BulkStatusRequest  true  "IDs and status"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /admin/employees/bulk/status [put]
func (h *EmployeeHandler) BulkUpdateStatus(c *gin.Context) {
	var req service.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.employeeService.BulkUpdateStatus(c.Request.Context(), req.IDs, req.Status, actorFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Employee statuses updated successfully.", nil))
}

func (h *EmployeeHandler) BulkDelete(c *gin.Context) {
	var req service.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.employeeService.BulkDelete(c.Request.Context(), req.IDs, actorFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Employees deleted successfully.", nil))
}

// UploadFile godoc
// @Summary      Upload an employee photo or signature
// @Tags         employees
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Employee ID"
// @Param        slot  path      string  true  "photo or signature"
// @Param        file  formData  file    true  "Image"
// @Success      201   {object}  response.Response{data=service.FileUploadResponse}
// @Failure      422   {object}  response.Response
// @Router       /admin/employees/{id}/files/{slot} [post]
func (h *EmployeeHandler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, validation.MaxFileSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		bindError(c, err)
		return
	}

	result, err := h.employeeService.UploadFile(c.Request.Context(), c.Param("id"), c.Param("slot"), uploadedFile(fh), actorFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// DeleteFile removes a stored file by storage path or public URL
func (h *EmployeeHandler) DeleteFile(c *gin.Context) {
	var req service.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.employeeService.DeleteFile(c.Request.Context(), req.Path, actorFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "File deleted successfully.", nil))
}
