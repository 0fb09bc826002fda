package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"yarn_inventory/models"

	"github.com/go-resty/resty/v2"
)

// Client exposes the yarn API operations the web views need.
type Client interface {
	List(ctx context.Context, brand, color string) ([]models.Yarn, error)
	Get(ctx context.Context, id int64) (*models.Yarn, error)
	Create(ctx context.Context, in models.YarnInput) (int64, error)
	Update(ctx context.Context, id int64, in models.YarnInput) error
	Delete(ctx context.Context, id int64) error
}

var _ Client = (*APIClient)(nil)

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// APIError is a non-2xx answer from the API. Message is the API's error text.
type APIError struct {
	Status  int
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yarn api: status %d: %s", e.Status, e.Message)
}

// NotFound reports whether the API answered 404.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// NewClient builds a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

func (c *APIClient) request(ctx context.Context) (*resty.Request, *models.ErrorResponse) {
	apiErr := new(models.ErrorResponse)
	return c.httpClient.R().SetContext(ctx).SetError(apiErr), apiErr
}

func checkResponse(op string, resp *resty.Response, err error, apiErr *models.ErrorResponse) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	msg := apiErr.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{Status: resp.StatusCode(), Message: msg, Fields: apiErr.Fields}
}

func itemPath(id int64) string {
	return "/api/yarn/" + strconv.FormatInt(id, 10)
}

func (c *APIClient) List(ctx context.Context, brand, color string) ([]models.Yarn, error) {
	items := []models.Yarn{}
	req, apiErr := c.request(ctx)
	if brand != "" {
		req.SetQueryParam("brand", brand)
	}
	if color != "" {
		req.SetQueryParam("color", color)
	}
	resp, err := req.SetResult(&items).Get("/api/yarn")
	if err := checkResponse("list yarn", resp, err, apiErr); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *APIClient) Get(ctx context.Context, id int64) (*models.Yarn, error) {
	result := new(models.Yarn)
	req, apiErr := c.request(ctx)
	resp, err := req.SetResult(result).Get(itemPath(id))
	if err := checkResponse("get yarn", resp, err, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) Create(ctx context.Context, in models.YarnInput) (int64, error) {
	result := new(models.CreateYarnResponse)
	req, apiErr := c.request(ctx)
	resp, err := req.SetBody(in).SetResult(result).Post("/api/yarn")
	if err := checkResponse("create yarn", resp, err, apiErr); err != nil {
		return 0, err
	}
	return result.ID, nil
}

func (c *APIClient) Update(ctx context.Context, id int64, in models.YarnInput) error {
	req, apiErr := c.request(ctx)
	resp, err := req.SetBody(in).Put(itemPath(id))
	return checkResponse("update yarn", resp, err, apiErr)
}

func (c *APIClient) Delete(ctx context.Context, id int64) error {
	req, apiErr := c.request(ctx)
	resp, err := req.Delete(itemPath(id))
	return checkResponse("delete yarn", resp, err, apiErr)
}
