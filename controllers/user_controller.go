package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/middleware"
	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

// UserController handles account and authentication requests.
type UserController struct {
	users services.UserService
}

// NewUserController creates a UserController.
func NewUserController(users services.UserService) *UserController {
	return &UserController{users: users}
}

// Register handles POST /users/register.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, svcErr := uc.users.Register(c.Request.Context(), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /users/login.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, svcErr := uc.users.Login(c.Request.Context(), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /users/me.
func (uc *UserController) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, svcErr := uc.users.GetProfile(c.Request.Context(), userID)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /users/me.
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, svcErr := uc.users.UpdateProfile(c.Request.Context(), userID, &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /users/me/password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if svcErr := uc.users.ChangePassword(c.Request.Context(), userID, &req); svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List handles GET /users (admin).
func (uc *UserController) List(c *gin.Context) {
	page, limit := paginationParams(c)

	users, total, svcErr := uc.users.ListUsers(c.Request.Context(), page, limit)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      users,
		"pagination": models.NewPagination(total, page, limit),
	})
}

// Get handles GET /users/:id (admin).
func (uc *UserController) Get(c *gin.Context) {
	user, svcErr := uc.users.GetUser(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id (admin).
func (uc *UserController) Update(c *gin.Context) {
	var req models.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, svcErr := uc.users.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id (admin).
func (uc *UserController) Delete(c *gin.Context) {
	if svcErr := uc.users.DeleteUser(c.Request.Context(), c.Param("id")); svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
