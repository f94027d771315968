package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,pwd,max=128"`
}

type updateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Password *string `json:"password" binding:"omitempty,pwd,max=128"`
}

type userURI struct {
	ID string `uri:"id" binding:"required"`
}

type listUsersQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

type searchUsersQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

type batchUsersRequest struct {
	IDs []string `json:"ids" binding:"required,max=100"`
}

type batchUsersResponse struct {
	Users []entity.ExternalUserData `json:"users"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.CreateUser(c.Request.Context(), application.CreateUserInput{
		Email: req.Email, Name: req.Name, Password: req.Password,
	}).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, out, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	var uri userURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.GetUserByID(c.Request.Context(), uri.ID).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "user", nil)
}

// Head answers existence checks without a body.
func (h *UserHandler) Head(c *gin.Context) {
	if _, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id")).Unwrap(); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.GetUsers(c.Request.Context(), application.ListUsersInput{Limit: q.Limit, Offset: q.Offset}).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "users", gin.H{"limit": out.Limit, "offset": out.Offset, "count": len(out.Users)})
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q.Q, q.Size).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Batch serves the remote user adapter's multi-id lookup. Unknown ids are skipped.
func (h *UserHandler) Batch(c *gin.Context) {
	var req batchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	users, err := h.Svc.GetUsersByIDs(c.Request.Context(), req.IDs).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, batchUsersResponse{Users: users}, "users", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var uri userURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	out, err := h.Svc.UpdateUser(c.Request.Context(), uri.ID, application.UpdateUserInput{
		Email: req.Email, Name: req.Name, Password: req.Password,
	}).Unwrap()
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, out, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	var uri userURI
	if err := c.ShouldBindUri(&uri); err != nil {
		_ = c.Error(bindingError(err))
		return
	}
	if _, err := h.Svc.DeleteUser(c.Request.Context(), uri.ID).Unwrap(); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
