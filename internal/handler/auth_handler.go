package handler

import (
	"net/http"
	"time"

	"idportal/internal/middleware"
	"idportal/internal/model"
	"idportal/internal/service"
	"idportal/internal/validation"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
	loginLimit   gin.HandlerFunc
}

// NewAuthHandler wires sign-in endpoints. secureCookie marks the session
// cookie Secure and SameSite=None; loginLimit may be nil.
func NewAuthHandler(authService service.AuthService, secureCookie bool, loginLimit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie, loginLimit: loginLimit}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	if h.loginLimit != nil {
		router.POST("/admin/login", h.loginLimit, h.Login)
	} else {
		router.POST("/admin/login", h.Login)
	}
	router.POST("/admin/logout", h.Logout)
}

func (h *AuthHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/session", h.Session)

	users := admin.Group("/users", middleware.RequireRole(model.RoleSuperAdmin))
	{
		users.GET("", h.ListAdminUsers)
		users.POST("", h.CreateAdminUser)
	}
}

// Login handles POST /admin/login and sets the session cookie
// @Summary      Admin login
// @Description  Authenticates an admin by email and password, returning a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest   true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	maxAge := int(time.Until(result.Expires).Seconds())
	middleware.SetTokenCookies(c, result.Token, maxAge, h.secureCookie)

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Login successful.", result))
}

// Logout clears the session cookie. Tokens are stateless, so a copied bearer
// token stays valid until it expires.
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookies(c, h.secureCookie)
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Logged out.", nil))
}

// Session returns the resolved admin session
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SessionResponse}
// @Failure      401  {object}  response.Response
// @Router       /admin/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, service.ToSessionResponse(session)))
}

func (h *AuthHandler) ListAdminUsers(c *gin.Context) {
	users, err := h.authService.ListAdminUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// CreateAdminUser godoc
// @Summary      Create admin user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      validation.AdminUserInput  true  "Admin user"
// @Success      201      {object}  response.Response{data=service.AdminUserResponse}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /admin/users [post]
func (h *AuthHandler) CreateAdminUser(c *gin.Context) {
	var req validation.AdminUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.CreateAdminUser(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}
