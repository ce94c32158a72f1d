package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/sessions"

	"github.com/flarexio/grocerize"
	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/mailer"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

func LoadTemplates(r *gin.Engine) {
	r.SetHTMLTemplate(templates)
}

type Pages struct {
	endpoints   grocerize.EndpointSet
	site        conf.Site
	store       sessions.Store
	sessionName string
}

func NewPages(endpoints grocerize.EndpointSet, site conf.Site, store sessions.Store, sessionName string) *Pages {
	return &Pages{
		endpoints:   endpoints,
		site:        site,
		store:       store,
		sessionName: sessionName,
	}
}

// RegisterPages mounts the HTML pages on r.
func RegisterPages(r gin.IRoutes, p *Pages) {
	// GET /
	r.GET("/", p.Home)

	// POST /
	r.POST("/", p.AddItem)

	// GET /alph
	r.GET("/alph", p.ToggleOrder)

	// GET /clearall
	r.GET("/clearall", p.ClearItems)

	// GET /send
	r.GET("/send", p.render("send.html", "Email List"))

	// POST /send
	r.POST("/send", p.SendList)

	// GET /emailsent
	r.GET("/emailsent", p.render("emailsent.html", "Email Sent!"))

	// GET /invalidemail
	r.GET("/invalidemail", p.render("invalidemail.html", "Oops!"))

	// GET /items/:id
	r.GET("/items/:id", p.EditItem)

	// POST /items/:id (_method=PUT|DELETE)
	r.POST("/items/:id", p.MethodOverride)

	// PUT /items/:id
	r.PUT("/items/:id", p.UpdateItem)

	// DELETE /items/:id
	r.DELETE("/items/:id", p.DeleteItem)

	// GET /items/:id/delete
	r.GET("/items/:id/delete", p.ConfirmDelete)

	// GET /items/:id/inc
	r.GET("/items/:id/inc", p.redirectAfter(p.endpoints.IncrementItem))

	// GET /items/:id/dec
	r.GET("/items/:id/dec", p.redirectAfter(p.endpoints.DecrementItem))
}

func (p *Pages) data(title string, extra gin.H) gin.H {
	h := gin.H{
		"Title": title,
		"Site":  p.site,
	}

	for k, v := range extra {
		h[k] = v
	}

	return h
}

func (p *Pages) render(name string, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, p.data(title, nil))
	}
}

func (p *Pages) fail(c *gin.Context, err error) {
	code := statusCode(err)

	c.Abort()
	c.Error(err)
	c.HTML(code, "error.html", p.data("Oops!", gin.H{"Error": err.Error()}))
}

func (p *Pages) order(s *session) item.Order {
	if s.Alphabetized() {
		return item.Alphabetical
	}

	return item.Recent
}

func (p *Pages) Home(c *gin.Context) {
	s := p.session(c)

	resp, err := p.endpoints.Items(c, p.order(s))
	if err != nil {
		p.fail(c, err)
		return
	}

	list, ok := resp.(grocerize.ItemsResponse)
	if !ok {
		p.fail(c, grocerize.ErrInvalidRequest)
		return
	}

	flash, popped := s.PopFlash()
	if popped {
		if err := s.Save(); err != nil {
			p.fail(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "home.html", p.data("Items", gin.H{
		"Items":        list.Items,
		"Count":        list.Count,
		"Alphabetized": s.Alphabetized(),
		"Flash":        flash,
	}))
}

func (p *Pages) AddItem(c *gin.Context) {
	req := grocerize.AddItemRequest{
		Text: c.PostForm("text"),
	}

	if _, err := p.endpoints.AddItem(c, req); err != nil {
		if statusCode(err) != http.StatusBadRequest {
			p.fail(c, err)
			return
		}

		s := p.session(c)
		s.Flash(`Could not add "` + req.Text + `": ` + err.Error())
		if err := s.Save(); err != nil {
			p.fail(c, err)
			return
		}
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) ToggleOrder(c *gin.Context) {
	s := p.session(c)
	s.FlipAlphabetized()

	if err := s.Save(); err != nil {
		p.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (p *Pages) ClearItems(c *gin.Context) {
	if _, err := p.endpoints.ClearItems(c, nil); err != nil {
		p.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (p *Pages) SendList(c *gin.Context) {
	s := p.session(c)

	req := grocerize.SendListRequest{
		Email: c.PostForm("email"),
		Order: p.order(s),
	}

	_, err := p.endpoints.SendList(c, req)
	if err != nil {
		if errors.Is(err, mailer.ErrInvalidEmail) || errors.Is(err, mailer.ErrNoMXRecord) {
			c.Redirect(http.StatusSeeOther, "/invalidemail")
			return
		}

		p.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/emailsent")
}

func (p *Pages) find(c *gin.Context) (*item.Item, bool) {
	id, err := itemID(c)
	if err != nil {
		p.fail(c, err)
		return nil, false
	}

	resp, err := p.endpoints.Item(c, id)
	if err != nil {
		p.fail(c, err)
		return nil, false
	}

	i, ok := resp.(*item.Item)
	if !ok {
		p.fail(c, grocerize.ErrInvalidRequest)
		return nil, false
	}

	return i, true
}

func (p *Pages) EditItem(c *gin.Context) {
	i, ok := p.find(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "edit.html", p.data("Edit Item", gin.H{"Item": i}))
}

func (p *Pages) ConfirmDelete(c *gin.Context) {
	i, ok := p.find(c)
	if !ok {
		return
	}

	title := "Confirm Deletion of " + i.Name
	c.HTML(http.StatusOK, "delete.html", p.data(title, gin.H{"Item": i}))
}

// MethodOverride lets plain HTML forms reach the PUT and DELETE handlers.
func (p *Pages) MethodOverride(c *gin.Context) {
	switch strings.ToUpper(c.PostForm("_method")) {
	case http.MethodPut:
		p.UpdateItem(c)
	case http.MethodDelete:
		p.DeleteItem(c)
	default:
		p.fail(c, grocerize.ErrInvalidRequest)
	}
}

func (p *Pages) UpdateItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		p.fail(c, err)
		return
	}

	var req grocerize.UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		p.fail(c, grocerize.ErrInvalidRequest)
		return
	}
	req.ID = id

	if _, err := p.endpoints.UpdateItem(c, req); err != nil {
		p.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) DeleteItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		p.fail(c, err)
		return
	}

	if _, err := p.endpoints.DeleteItem(c, id); err != nil {
		p.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// redirectAfter runs an item endpoint and sends the visitor back to the list.
func (p *Pages) redirectAfter(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := itemID(c)
		if err != nil {
			p.fail(c, err)
			return
		}

		if _, err := endpoint(c, id); err != nil {
			p.fail(c, err)
			return
		}

		c.Redirect(http.StatusFound, "/")
	}
}
