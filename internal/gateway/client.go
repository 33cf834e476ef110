package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"go-todo-client/internal/models"
)

const maxErrorBody = 64 << 10

// Client は Gateway の HTTP 実装です。
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// Option は Client の設定です。
type Option func(*Client)

// WithHTTPClient は使用する http.Client を差し替えます。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout はリクエストごとのタイムアウトです。0 は無制限です。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit は1秒あたりのリクエスト数を制限します。0 以下は無制限です。
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New は baseURL (例: http://localhost:5025/api) に対するクライアントを作成します。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL は接続先のURLを返します。
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	c.logger.Debug("api request", "method", method, "path", endpoint, "request_id", requestID)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("API request failed", "method", method, "path", endpoint, "err", err)
		return &NetworkError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("API error response", "status", resp.StatusCode, "path", endpoint, "body", string(data))
		return &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	// DELETE などの空レスポンス
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("could not decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/Users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/Users/"+strconv.Itoa(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/Users/email/"+url.PathEscape(email), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	var users []models.User
	q := url.Values{"searchTerm": {term}}
	if err := c.do(ctx, http.MethodGet, "/Users/search?"+q.Encode(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/Users", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, req models.UserRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/Users/"+strconv.Itoa(id), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/Users/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	return c.listTodos(ctx, "/Todos")
}

func (c *Client) GetTodo(ctx context.Context, id int) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodGet, "/Todos/"+strconv.Itoa(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ListTodosByUser(ctx context.Context, userID int) ([]models.Todo, error) {
	return c.listTodos(ctx, "/Todos/user/"+strconv.Itoa(userID))
}

func (c *Client) ListOverdueTodos(ctx context.Context) ([]models.Todo, error) {
	return c.listTodos(ctx, "/Todos/overdue")
}

// ListTodosByDateRange は start から end までのTodoを取得します。日付は YYYY-MM-DD で送ります。
func (c *Client) ListTodosByDateRange(ctx context.Context, start, end time.Time) ([]models.Todo, error) {
	q := url.Values{
		"startDate": {start.Format(time.DateOnly)},
		"endDate":   {end.Format(time.DateOnly)},
	}
	return c.listTodos(ctx, "/Todos/daterange?"+q.Encode())
}

func (c *Client) listTodos(ctx context.Context, endpoint string) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, req models.TodoRequest) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodPost, "/Todos", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int, req models.TodoRequest) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodPut, "/Todos/"+strconv.Itoa(id), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/Todos/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) Status(ctx context.Context) (models.DataStatus, error) {
	var s models.DataStatus
	if err := c.do(ctx, http.MethodGet, "/Data/status", nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) Summary(ctx context.Context) (models.DataSummary, error) {
	var s models.DataSummary
	if err := c.do(ctx, http.MethodGet, "/Data/summary", nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/Data/reset", nil, nil)
}

func (c *Client) Initialize(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/Data/initialize", nil, nil)
}
