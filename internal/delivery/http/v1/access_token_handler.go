package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AccessTokenHandler struct {
	tokenUC domain.AccessTokenUsecase
}

// NewAccessTokenHandler mounts the owner's recruiter link management on
// protected and the public validation endpoint, behind validateLimit, on public.
func NewAccessTokenHandler(public, protected *gin.RouterGroup, tokenUC domain.AccessTokenUsecase, validateLimit gin.HandlerFunc) {
	handler := &AccessTokenHandler{tokenUC: tokenUC}

	public.POST("/recruiter-access/validate", validateLimit, handler.Validate)

	links := protected.Group("/recruiter-access")
	{
		links.POST("", handler.Issue)
		links.GET("", handler.List)
		links.GET("/active", handler.ListActive)
		links.GET("/statistics", handler.Statistics)
		links.GET("/:id", handler.Get)
		links.PATCH("/:id", handler.Update)
		links.DELETE("/:id", handler.Delete)
		links.POST("/:id/revoke", handler.Revoke)
		links.POST("/:id/activate", handler.Reactivate)
	}
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// Issue godoc
// @Summary      Create a recruiter link
// @Description  Issue a time-limited token granting access to Recruiter content
// @Tags         recruiter-access
// @Accept       json
// @Produce      json
// @Param        request  body      domain.IssueTokenRequest  true  "Label, note and duration"
// @Success      201      {object}  response.Response{data=domain.AccessTokenView}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /recruiter-access [post]
// @Security     BearerAuth
func (h *AccessTokenHandler) Issue(c *gin.Context) {
	var req domain.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	view, err := h.tokenUC.Issue(c.Request.Context(), ownerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Recruiter link created", view)
}

// List godoc
// @Summary      List recruiter links
// @Tags         recruiter-access
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.AccessTokenView}
// @Failure      401  {object}  response.Response
// @Router       /recruiter-access [get]
// @Security     BearerAuth
func (h *AccessTokenHandler) List(c *gin.Context) {
	views, err := h.tokenUC.List(c.Request.Context(), ownerID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter links", views)
}

// ListActive godoc
// @Summary      List usable recruiter links
// @Description  Links that are active and not yet expired
// @Tags         recruiter-access
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.AccessTokenView}
// @Router       /recruiter-access/active [get]
// @Security     BearerAuth
func (h *AccessTokenHandler) ListActive(c *gin.Context) {
	views, err := h.tokenUC.ListActive(c.Request.Context(), ownerID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Active recruiter links", views)
}

// Statistics godoc
// @Summary      Recruiter link statistics
// @Tags         recruiter-access
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TokenStatistics}
// @Router       /recruiter-access/statistics [get]
// @Security     BearerAuth
func (h *AccessTokenHandler) Statistics(c *gin.Context) {
	stats, err := h.tokenUC.Statistics(c.Request.Context(), ownerID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link statistics", stats)
}

// Get godoc
// @Summary      Get a recruiter link
// @Tags         recruiter-access
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  response.Response{data=domain.AccessTokenView}
// @Failure      404  {object}  response.Response
// @Router       /recruiter-access/{id} [get]
// @Security     BearerAuth
func (h *AccessTokenHandler) Get(c *gin.Context) {
	view, err := h.tokenUC.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link", view)
}

// Update godoc
// @Summary      Edit a recruiter link
// @Description  Only label and note can change
// @Tags         recruiter-access
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Link ID"
// @Param        request  body      domain.UpdateTokenRequest  true  "Label and note"
// @Success      200      {object}  response.Response{data=domain.AccessTokenView}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /recruiter-access/{id} [patch]
// @Security     BearerAuth
func (h *AccessTokenHandler) Update(c *gin.Context) {
	var req domain.UpdateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	view, err := h.tokenUC.Update(c.Request.Context(), ownerID(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link updated", view)
}

// Delete godoc
// @Summary      Delete a recruiter link
// @Tags         recruiter-access
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recruiter-access/{id} [delete]
// @Security     BearerAuth
func (h *AccessTokenHandler) Delete(c *gin.Context) {
	if err := h.tokenUC.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link deleted", nil)
}

// Revoke godoc
// @Summary      Revoke a recruiter link
// @Tags         recruiter-access
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  response.Response{data=domain.AccessTokenView}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recruiter-access/{id}/revoke [post]
// @Security     BearerAuth
func (h *AccessTokenHandler) Revoke(c *gin.Context) {
	view, err := h.tokenUC.Revoke(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link revoked", view)
}

// Reactivate godoc
// @Summary      Reactivate a revoked recruiter link
// @Tags         recruiter-access
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  response.Response{data=domain.AccessTokenView}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /recruiter-access/{id}/activate [post]
// @Security     BearerAuth
func (h *AccessTokenHandler) Reactivate(c *gin.Context) {
	view, err := h.tokenUC.Reactivate(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter link reactivated", view)
}

// Validate godoc
// @Summary      Check a recruiter token
// @Description  Public and rate limited. Never reveals whose portfolio the token opens.
// @Tags         recruiter-access
// @Accept       json
// @Produce      json
// @Param        request  body      ValidateTokenRequest  true  "Token"
// @Success      200      {object}  response.Response{data=domain.TokenValidation}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /recruiter-access/validate [post]
func (h *AccessTokenHandler) Validate(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.Error(apperror.BadRequest("token is required"))
		return
	}

	result := h.tokenUC.Validate(c.Request.Context(), req.Token)
	response.Success(c, http.StatusOK, "Token checked", result)
}

func ownerID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
