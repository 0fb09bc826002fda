// controllers/yarn_controller.go
package controllers

import (
	"errors"
	"net/http"

	"yarn_inventory/models"
	"yarn_inventory/service"

	"github.com/gin-gonic/gin"
)

const (
	msgCreated  = "Yarn created successfully"
	msgUpdated  = "Yarn updated successfully"
	msgDeleted  = "Yarn deleted successfully"
	msgNotFound = "Yarn not found"
	msgDBError  = "Database error"
)

type YarnController struct {
	Svc *service.YarnService
}

func NewYarnController(svc *service.YarnService) *YarnController {
	return &YarnController{Svc: svc}
}

// writeError maps service error kinds onto status codes. Storage causes are
// logged by the service and never reach the client.
func writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: ve.Message, Fields: ve.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgNotFound})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgDBError})
	}
}

func bindInput(c *gin.Context) (models.YarnInput, bool) {
	var in models.YarnInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: service.MsgInvalidBody})
		return in, false
	}
	return in, true
}

// GET /api/yarn?brand=&color=
func (yc *YarnController) List(c *gin.Context) {
	items, err := yc.Svc.List(c.Request.Context(), service.ListFilter{
		Brand: c.Query("brand"),
		Color: c.Query("color"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/yarn/:id
func (yc *YarnController) Get(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	y, err := yc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, y)
}

// POST /api/yarn
func (yc *YarnController) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	id, err := yc.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CreateYarnResponse{ID: id, Message: msgCreated})
}

// PUT /api/yarn/:id
func (yc *YarnController) Update(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	if err := yc.Svc.Update(c.Request.Context(), id, in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: msgUpdated})
}

// DELETE /api/yarn/:id
func (yc *YarnController) Delete(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := yc.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: msgDeleted})
}
