package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"yarn_inventory/client"
	"yarn_inventory/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgUnreachable = "Could not reach the yarn API"

// PageData is the base data passed to all templates.
type PageData struct {
	Title string
	Error string
}

type listPage struct {
	PageData
	Items []models.Yarn
	Brand string
	Color string
}

type formPage struct {
	PageData
	Action  string
	Submit  string
	Editing bool
	Form    YarnForm
}

// Server holds the dependencies of the page handlers.
type Server struct {
	API    client.Client
	Logger *zap.Logger
}

func NewServer(api client.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{API: api, Logger: logger}
}

// failure turns an API call error into the status and message a page shows.
func (s *Server) failure(c *gin.Context, op string, err error) (int, string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if len(apiErr.Fields) > 0 {
			msg += ": " + strings.Join(apiErr.Fields, ", ")
		}
		return apiErr.Status, msg
	}
	s.Logger.Error(op+" failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	return http.StatusBadGateway, msgUnreachable
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// YarnList handles GET /.
func (s *Server) YarnList(c *gin.Context) {
	brand, color := c.Query("brand"), c.Query("color")
	s.renderList(c, http.StatusOK, brand, color, "")
}

func (s *Server) renderList(c *gin.Context, status int, brand, color, errMsg string) {
	page := listPage{
		PageData: PageData{Title: "Yarn Inventory", Error: errMsg},
		Items:    []models.Yarn{},
		Brand:    brand,
		Color:    color,
	}

	items, err := s.API.List(c.Request.Context(), brand, color)
	if err != nil {
		code, msg := s.failure(c, "list yarn", err)
		if status == http.StatusOK {
			status = code
		}
		if page.Error == "" {
			page.Error = msg
		}
	} else {
		page.Items = items
	}

	c.HTML(status, pageList, page)
}

// YarnDelete handles POST /delete/:id.
func (s *Server) YarnDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.renderList(c, http.StatusBadRequest, "", "", "Invalid ID")
		return
	}
	if err := s.API.Delete(c.Request.Context(), id); err != nil {
		code, msg := s.failure(c, "delete yarn", err)
		s.renderList(c, code, "", "", msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func createPage(f YarnForm, errMsg string) formPage {
	return formPage{
		PageData: PageData{Title: "Add Yarn", Error: errMsg},
		Action:   "/create",
		Submit:   "Add yarn",
		Form:     f,
	}
}

func editPage(id int64, f YarnForm, errMsg string) formPage {
	return formPage{
		PageData: PageData{Title: "Edit Yarn", Error: errMsg},
		Action:   "/edit/" + strconv.FormatInt(id, 10),
		Submit:   "Save changes",
		Editing:  true,
		Form:     f,
	}
}

// YarnCreate handles GET /create.
func (s *Server) YarnCreate(c *gin.Context) {
	c.HTML(http.StatusOK, pageForm, createPage(YarnForm{Status: models.YarnStatusActive}, ""))
}

// YarnCreateSubmit handles POST /create.
func (s *Server) YarnCreateSubmit(c *gin.Context) {
	var f YarnForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusBadRequest, pageForm, createPage(f, "Invalid form submission"))
		return
	}
	in, err := f.Input()
	if err != nil {
		c.HTML(http.StatusBadRequest, pageForm, createPage(f, err.Error()))
		return
	}
	if _, err := s.API.Create(c.Request.Context(), in); err != nil {
		code, msg := s.failure(c, "create yarn", err)
		c.HTML(code, pageForm, createPage(f, msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// YarnEdit handles GET /edit/:id.
func (s *Server) YarnEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.HTML(http.StatusBadRequest, pageForm, editPage(0, YarnForm{}, "Invalid ID"))
		return
	}
	y, err := s.API.Get(c.Request.Context(), id)
	if err != nil {
		code, msg := s.failure(c, "get yarn", err)
		c.HTML(code, pageForm, editPage(id, YarnForm{}, msg))
		return
	}
	c.HTML(http.StatusOK, pageForm, editPage(id, formFromYarn(y), ""))
}

// YarnEditSubmit handles POST /edit/:id.
func (s *Server) YarnEditSubmit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.HTML(http.StatusBadRequest, pageForm, editPage(0, YarnForm{}, "Invalid ID"))
		return
	}
	var f YarnForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusBadRequest, pageForm, editPage(id, f, "Invalid form submission"))
		return
	}
	in, err := f.Input()
	if err != nil {
		c.HTML(http.StatusBadRequest, pageForm, editPage(id, f, err.Error()))
		return
	}
	if err := s.API.Update(c.Request.Context(), id, in); err != nil {
		code, msg := s.failure(c, "update yarn", err)
		c.HTML(code, pageForm, editPage(id, f, msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
