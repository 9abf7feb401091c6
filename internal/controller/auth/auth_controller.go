package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/internal/controller"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/lshigami/kwizify/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	auth.POST("/signup", c.Signup)
	auth.POST("/login", c.Login)
	auth.POST("/signin", c.Signin)
	auth.GET("/me", middleware.JWTAuth(c.authService), c.Me)
}

// Signup godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Registration data"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username or email already registered"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	user, err := c.authService.Signup(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to register user")
		return
	}
	ctx.JSON(http.StatusCreated, service.ToUserResponse(user))
}

// Login godoc
// @Summary Log in with username or email
// @Description Accepts OAuth2 password-grant form fields or a JSON body.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param username formData string true "Username or email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse "Incorrect username or password"
// @Failure 403 {object} dto.ErrorResponse "Inactive user"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !controller.Bind(ctx, &req) {
		return
	}
	c.login(ctx, req)
}

// Signin godoc
// @Summary Log in with a JSON body
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse "Incorrect username or password"
// @Failure 403 {object} dto.ErrorResponse "Inactive user"
// @Router /auth/signin [post]
func (c *AuthController) Signin(ctx *gin.Context) {
	var req dto.LoginRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	c.login(ctx, req)
}

func (c *AuthController) login(ctx *gin.Context, req dto.LoginRequest) {
	token, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to log in")
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	v, ok := ctx.Get(middleware.ContextUser)
	user, isUser := v.(*model.User)
	if !ok || !isUser {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}
	ctx.JSON(http.StatusOK, service.ToUserResponse(user))
}
