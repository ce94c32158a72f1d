package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/flarexio/grocerize"
	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/mailer"
	"github.com/flarexio/grocerize/persistence/inmem"
)

type staticResolver map[string][]*net.MX

func (r staticResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	records, ok := r[name]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}

	return records, nil
}

type outbox struct {
	messages []*mailer.Message
}

func (o *outbox) Send(ctx context.Context, msg *mailer.Message) error {
	o.messages = append(o.messages, msg)
	return nil
}

type transportTestSuite struct {
	suite.Suite
	router  *gin.Engine
	svc     grocerize.Service
	outbox  *outbox
	cookies []*http.Cookie
}

func (suite *transportTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *transportTestSuite) SetupTest() {
	items, err := inmem.NewItemRepository()
	suite.Require().NoError(err)

	resolver := staticResolver{
		"example.com": {{Host: "mx.example.com.", Pref: 10}},
	}

	suite.outbox = new(outbox)
	suite.svc = grocerize.NewService(items, suite.outbox, resolver, nil)
	suite.cookies = nil

	endpoints := grocerize.NewEndpointSet(suite.svc)

	store := NewSessionStore(conf.Session{
		Secret: "0123456789abcdef0123456789abcdef",
		MaxAge: time.Hour,
	})

	site := conf.Site{
		Title:       "Grocerizer",
		Description: "the amazing grocery list",
	}

	r := gin.New()
	LoadTemplates(r)
	RegisterPages(r, NewPages(endpoints, site, store, "grocerize"))
	RegisterAPI(r.Group("/api/v1"), endpoints)

	suite.router = r
}

func (suite *transportTestSuite) do(method string, path string, body string, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, cookie := range suite.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		suite.cookies = cookies
	}

	return w
}

func (suite *transportTestSuite) form(method string, path string, values url.Values) *httptest.ResponseRecorder {
	return suite.do(method, path, values.Encode(), "application/x-www-form-urlencoded")
}

func (suite *transportTestSuite) jsonRequest(method string, path string, body string) *httptest.ResponseRecorder {
	return suite.do(method, path, body, "application/json")
}

func (suite *transportTestSuite) decodeItem(w *httptest.ResponseRecorder) *item.Item {
	var i *item.Item
	err := json.Unmarshal(w.Body.Bytes(), &i)
	suite.Require().NoError(err)
	return i
}

func (suite *transportTestSuite) TestAPIAddAndMerge() {
	w := suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"3 apples"}`)
	suite.Equal(http.StatusCreated, w.Code)

	first := suite.decodeItem(w)
	suite.Equal("apples", first.Name)
	suite.Equal(3, first.Amount)

	w = suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"2 apples"}`)
	suite.Equal(http.StatusCreated, w.Code)

	merged := suite.decodeItem(w)
	suite.Equal(first.ID, merged.ID)
	suite.Equal(5, merged.Amount)

	w = suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"12 eggs!"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.jsonRequest(http.MethodPost, "/api/v1/items", `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *transportTestSuite) TestAPIListOrder() {
	for _, text := range []string{"bread", "an apple", "2 carrots"} {
		w := suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"`+text+`"}`)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.do(http.MethodGet, "/api/v1/items?order=alpha", "", "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp grocerize.ItemsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	suite.Require().NoError(err)
	suite.Equal("alpha", resp.Order)
	suite.Equal(3, resp.Count)
	suite.Require().Len(resp.Items, 3)
	suite.Equal("apple", resp.Items[0].Name)
	suite.Equal("carrots", resp.Items[2].Name)

	w = suite.do(http.MethodGet, "/api/v1/items", "", "")
	suite.Require().Equal(http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &resp)
	suite.Require().NoError(err)
	suite.Equal("recent", resp.Order)
	suite.Equal("carrots", resp.Items[0].Name)

	w = suite.do(http.MethodGet, "/api/v1/items?order=random", "", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *transportTestSuite) TestAPIItemLifecycle() {
	w := suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"milk"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.decodeItem(w).ID.String()

	w = suite.do(http.MethodPatch, "/api/v1/items/"+id+"/increment", "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(2, suite.decodeItem(w).Amount)

	w = suite.jsonRequest(http.MethodPut, "/api/v1/items/"+id, `{"name":"oat milk","amount":4}`)
	suite.Equal(http.StatusOK, w.Code)
	updated := suite.decodeItem(w)
	suite.Equal("oat milk", updated.Name)
	suite.Equal(4, updated.Amount)

	w = suite.jsonRequest(http.MethodPut, "/api/v1/items/"+id, `{"name":"oat milk","amount":0}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/items/"+id+"/decrement", "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(3, suite.decodeItem(w).Amount)

	w = suite.do(http.MethodDelete, "/api/v1/items/"+id, "", "")
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/items/"+id, "", "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/items/not-an-id", "", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *transportTestSuite) TestAPIClearItems() {
	w := suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"milk"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/items", "", "")
	suite.Equal(http.StatusNoContent, w.Code)

	count, err := suite.svc.Count(context.Background())
	suite.NoError(err)
	suite.Equal(0, count)
}

func (suite *transportTestSuite) TestAPISendList() {
	w := suite.jsonRequest(http.MethodPost, "/api/v1/items", `{"text":"3 apples"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.jsonRequest(http.MethodPost, "/api/v1/list/send", `{"email":"someone@example.com"}`)
	suite.Equal(http.StatusAccepted, w.Code)
	suite.Require().Len(suite.outbox.messages, 1)
	suite.Equal("3 apples\n", suite.outbox.messages[0].Body)

	w = suite.jsonRequest(http.MethodPost, "/api/v1/list/send", `{"email":"someone@nowhere.test"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Len(suite.outbox.messages, 1)
}

func (suite *transportTestSuite) TestPagesAddAndList() {
	w := suite.form(http.MethodPost, "/", url.Values{"text": {"3 apples"}})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	w = suite.form(http.MethodPost, "/", url.Values{"text": {"a banana"}})
	suite.Equal(http.StatusSeeOther, w.Code)

	w = suite.do(http.MethodGet, "/", "", "")
	suite.Equal(http.StatusOK, w.Code)

	body := w.Body.String()
	suite.Contains(body, "Items | Grocerizer")
	suite.Contains(body, "2 items")
	suite.Contains(body, "apples")
	suite.Contains(body, "banana")
	suite.Contains(body, "Sort alphabetically")
	suite.Less(strings.Index(body, "banana"), strings.Index(body, "apples"))
}

func (suite *transportTestSuite) TestPagesToggleOrder() {
	for _, text := range []string{"bread", "an apple"} {
		suite.form(http.MethodPost, "/", url.Values{"text": {text}})
	}

	w := suite.do(http.MethodGet, "/alph", "", "")
	suite.Equal(http.StatusFound, w.Code)
	suite.NotEmpty(suite.cookies)

	w = suite.do(http.MethodGet, "/", "", "")
	body := w.Body.String()
	suite.Contains(body, "Sort by most recent")
	suite.Less(strings.Index(body, "apple"), strings.Index(body, "bread"))

	suite.do(http.MethodGet, "/alph", "", "")

	w = suite.do(http.MethodGet, "/", "", "")
	suite.Contains(w.Body.String(), "Sort alphabetically")
}

func (suite *transportTestSuite) TestPagesFlashOnInvalidEntry() {
	w := suite.form(http.MethodPost, "/", url.Values{"text": {"12 eggs!"}})
	suite.Equal(http.StatusSeeOther, w.Code)

	w = suite.do(http.MethodGet, "/", "", "")
	suite.Contains(w.Body.String(), "item name is empty")

	w = suite.do(http.MethodGet, "/", "", "")
	suite.NotContains(w.Body.String(), "item name is empty")
}

func (suite *transportTestSuite) TestPagesEditAndDelete() {
	i, err := suite.svc.AddItem(context.Background(), "2 pears")
	suite.Require().NoError(err)
	path := "/items/" + i.ID.String()

	w := suite.do(http.MethodGet, path, "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `value="pears"`)

	w = suite.form(http.MethodPost, path, url.Values{
		"_method": {"PUT"},
		"name":    {"green pears"},
		"amount":  {"4"},
	})
	suite.Equal(http.StatusSeeOther, w.Code)

	found, err := suite.svc.Item(context.Background(), i.ID)
	suite.Require().NoError(err)
	suite.Equal("green pears", found.Name)
	suite.Equal(4, found.Amount)

	w = suite.do(http.MethodGet, path+"/delete", "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Confirm Deletion of green pears")

	w = suite.form(http.MethodPost, path, url.Values{"_method": {"DELETE"}})
	suite.Equal(http.StatusSeeOther, w.Code)

	_, err = suite.svc.Item(context.Background(), i.ID)
	suite.ErrorIs(err, item.ErrItemNotFound)

	w = suite.do(http.MethodGet, path, "", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *transportTestSuite) TestPagesIncrementAndDecrement() {
	i, err := suite.svc.AddItem(context.Background(), "milk")
	suite.Require().NoError(err)
	path := "/items/" + i.ID.String()

	w := suite.do(http.MethodGet, path+"/inc", "", "")
	suite.Equal(http.StatusFound, w.Code)

	found, err := suite.svc.Item(context.Background(), i.ID)
	suite.Require().NoError(err)
	suite.Equal(2, found.Amount)

	suite.do(http.MethodGet, path+"/dec", "", "")
	suite.do(http.MethodGet, path+"/dec", "", "")

	_, err = suite.svc.Item(context.Background(), i.ID)
	suite.ErrorIs(err, item.ErrItemNotFound)
}

func (suite *transportTestSuite) TestPagesSendList() {
	_, err := suite.svc.AddItem(context.Background(), "3 apples")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/send", "", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Email List")

	w = suite.form(http.MethodPost, "/send", url.Values{"email": {"someone@nowhere.test"}})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/invalidemail", w.Header().Get("Location"))

	w = suite.form(http.MethodPost, "/send", url.Values{"email": {"someone@example.com"}})
	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/emailsent", w.Header().Get("Location"))
	suite.Len(suite.outbox.messages, 1)

	w = suite.do(http.MethodGet, "/emailsent", "", "")
	suite.Contains(w.Body.String(), "Email Sent!")
}

func (suite *transportTestSuite) TestPagesClearAll() {
	_, err := suite.svc.AddItem(context.Background(), "3 apples")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/clearall", "", "")
	suite.Equal(http.StatusFound, w.Code)

	w = suite.do(http.MethodGet, "/", "", "")
	suite.Contains(w.Body.String(), "Your list is empty.")
}

func TestTransportTestSuite(t *testing.T) {
	suite.Run(t, new(transportTestSuite))
}
