package v1

import (
	"errors"
	"fmt"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SnapshotHandler struct {
	snapshotUC     domain.SnapshotUsecase
	importMaxBytes int64
}

func NewSnapshotHandler(protected *gin.RouterGroup, snapshotUC domain.SnapshotUsecase, importMaxBytes int64) {
	handler := &SnapshotHandler{snapshotUC: snapshotUC, importMaxBytes: importMaxBytes}

	me := protected.Group("/portfolio/me")
	{
		me.GET("/export", handler.Export)
		me.POST("/import", handler.Import)
	}
}

// Export godoc
// @Summary      Export the caller's portfolio
// @Description  json returns the bare snapshot document, ready to be imported again. xlsx returns a workbook.
// @Tags         snapshot
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query     string  false  "json (default) or xlsx"
// @Success      200     {object}  domain.PortfolioSnapshot
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /portfolio/me/export [get]
// @Security     BearerAuth
func (h *SnapshotHandler) Export(c *gin.Context) {
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		snap, err := h.snapshotUC.Export(c.Request.Context(), ownerID(c))
		if err != nil {
			c.Error(err)
			return
		}
		filename := fmt.Sprintf("portfolio_%s.json", snap.ExportedAt.Format("20060102_150405"))
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.JSON(http.StatusOK, snap)
	case "xlsx":
		data, filename, err := h.snapshotUC.ExportWorkbook(c.Request.Context(), ownerID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.Data(http.StatusOK, xlsxContentType, data)
	default:
		c.Error(apperror.BadRequest("format must be json or xlsx"))
	}
}

// Import godoc
// @Summary      Import a portfolio snapshot
// @Description  Applies the snapshot in one transaction. merge updates and adds, replace deletes all items first.
// @Tags         snapshot
// @Accept       json
// @Produce      json
// @Param        mode      query     string                   false  "merge (default) or replace; overrides import_mode in the body"
// @Param        snapshot  body      domain.SnapshotDocument  true   "Snapshot document"
// @Success      200       {object}  response.Response{data=domain.ImportResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      413       {object}  response.Response
// @Router       /portfolio/me/import [post]
// @Security     BearerAuth
func (h *SnapshotHandler) Import(c *gin.Context) {
	if h.importMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.importMaxBytes)
	}

	var doc domain.SnapshotDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, apperror.KindValidation,
				fmt.Sprintf("Snapshot exceeds %d bytes", tooLarge.Limit), err))
			return
		}
		c.Error(apperror.BadRequest("Snapshot must be a JSON document"))
		return
	}

	result, err := h.snapshotUC.Import(c.Request.Context(), ownerID(c), &doc, c.Query("mode"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Portfolio imported", result)
}
