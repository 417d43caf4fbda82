package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JustificationHandler struct {
	justificationUC domain.JustificationUsecase
}

func NewJustificationHandler(protected *gin.RouterGroup, justificationUC domain.JustificationUsecase) {
	handler := &JustificationHandler{justificationUC: justificationUC}
	protected.PUT("/skills/:id/justifications", handler.Set)
}

// Set godoc
// @Summary      Link a skill to the items that back it
// @Description  Omitted lists are left unchanged, empty lists clear the link set
// @Tags         skills
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Skill ID"
// @Param        request  body      domain.SkillJustifications  true  "Related item ids"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /skills/{id}/justifications [put]
// @Security     BearerAuth
func (h *JustificationHandler) Set(c *gin.Context) {
	var req domain.SkillJustifications
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.justificationUC.SetJustifications(c.Request.Context(), ownerID(c), c.Param("id"), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill justifications updated", req)
}
