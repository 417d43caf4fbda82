package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	authUC domain.AuthUsecase
}

func NewMeHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &MeHandler{authUC: authUC}
	protected.GET("/me", handler.Me)
}

// Me godoc
// @Summary      Current owner account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
// @Security     BearerAuth
func (h *MeHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), ownerID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User details", user)
}
