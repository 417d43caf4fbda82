package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	portfolioUC domain.PortfolioUsecase
	fileUC      domain.SupportingFileUsecase
}

// NewPortfolioHandler mounts the public portfolio reads. reader must resolve
// the optional owner session and recruiter secret.
func NewPortfolioHandler(public *gin.RouterGroup, portfolioUC domain.PortfolioUsecase, fileUC domain.SupportingFileUsecase, reader ...gin.HandlerFunc) {
	handler := &PortfolioHandler{portfolioUC: portfolioUC, fileUC: fileUC}

	portfolio := public.Group("/portfolio", reader...)
	{
		portfolio.GET("/slug/:slug", handler.GetBySlug)
		portfolio.GET("/:user_id", handler.Get)
		portfolio.GET("/:user_id/files/:file_id/download", handler.DownloadFile)
	}
}

func recruiterSecret(c *gin.Context) string {
	return c.GetString(string(domain.KeyRecruiterSecret))
}

// Get godoc
// @Summary      Read a portfolio
// @Description  Returns the items the caller may see: Public for everyone, Recruiter with a valid link, everything for the owner.
// @Tags         portfolio
// @Produce      json
// @Param        user_id  path      string  true   "Owner ID"
// @Param        access   query     string  false  "Recruiter token"
// @Success      200      {object}  response.Response{data=domain.PortfolioView}
// @Failure      404      {object}  response.Response
// @Router       /portfolio/{user_id} [get]
func (h *PortfolioHandler) Get(c *gin.Context) {
	view, err := h.portfolioUC.GetPortfolio(c.Request.Context(), c.Param("user_id"), recruiterSecret(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Portfolio", view)
}

// GetBySlug godoc
// @Summary      Read a portfolio by its public slug
// @Tags         portfolio
// @Produce      json
// @Param        slug    path      string  true   "Profile slug"
// @Param        access  query     string  false  "Recruiter token"
// @Success      200     {object}  response.Response{data=domain.PortfolioView}
// @Failure      404     {object}  response.Response
// @Router       /portfolio/slug/{slug} [get]
func (h *PortfolioHandler) GetBySlug(c *gin.Context) {
	view, err := h.portfolioUC.GetPortfolioBySlug(c.Request.Context(), c.Param("slug"), recruiterSecret(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Portfolio", view)
}

// DownloadFile godoc
// @Summary      Download a supporting file
// @Description  Redirects to a short-lived storage link when the file and its parent item are visible to the caller
// @Tags         portfolio
// @Param        user_id  path  string  true   "Owner ID"
// @Param        file_id  path  string  true   "File ID"
// @Param        access   query string  false  "Recruiter token"
// @Success      302
// @Failure      404  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /portfolio/{user_id}/files/{file_id}/download [get]
func (h *PortfolioHandler) DownloadFile(c *gin.Context) {
	link, err := h.fileUC.DownloadLink(c.Request.Context(), c.Param("user_id"), c.Param("file_id"), recruiterSecret(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, link.URL)
}
