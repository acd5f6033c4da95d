package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"portfolio-hub/internal/domain"
	"portfolio-hub/internal/session"
)

var (
	// ErrUnauthorized indica un 401 del backend: la sesión dejó de ser válida
	// y el token almacenado ya fue purgado por el interceptor.
	ErrUnauthorized = errors.New("session invalid")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client consume los endpoints REST del backend de portafolio.
// Adjunta el token almacenado como credencial bearer cuando existe y trata
// cualquier 401 como pérdida de sesión (interceptor transversal, no por llamada).
type Client struct {
	baseURL string
	tokens  session.TokenStore
	client  *http.Client
	logger  *zap.Logger

	onSessionInvalid func()
}

// NewClient construye un cliente apuntando al backend. Las llamadas no llevan
// timeout propio; la cancelación es responsabilidad del contexto del caller.
func NewClient(baseURL string, tokens session.TokenStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{},
		logger:  logger,
	}
}

// OnSessionInvalid registra el callback invocado en cada 401 del backend,
// después de purgar el token (el análogo de navegar al login).
func (c *Client) OnSessionInvalid(fn func()) {
	c.onSessionInvalid = fn
}

// Login envía credenciales al backend y devuelve el token emitido.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var lr struct {
		Token   string `json:"token"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if resp.StatusCode >= 400 {
		_ = json.Unmarshal(respBody, &lr)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrInvalidCredentials, firstNonEmpty(lr.Message, lr.Error, "login rejected"))
		}
		return "", fmt.Errorf("login http error: status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if lr.Token == "" {
		return "", errors.New("login response without token")
	}
	return lr.Token, nil
}

// List trae la colección completa: GET /{kind}.
func (c *Client) List(ctx context.Context, kind domain.Kind, out any) error {
	return c.do(ctx, http.MethodGet, "/"+string(kind), nil, out)
}

// Create crea una entidad: POST /{kind}. Decodifica en out la entidad creada.
func (c *Client) Create(ctx context.Context, kind domain.Kind, body, out any) error {
	return c.do(ctx, http.MethodPost, "/"+string(kind), body, out)
}

// Update reemplaza una entidad: PUT /{kind}/{id}.
func (c *Client) Update(ctx context.Context, kind domain.Kind, id string, body, out any) error {
	return c.do(ctx, http.MethodPut, "/"+string(kind)+"/"+id, body, out)
}

// Delete elimina una entidad: DELETE /{kind}/{id}. No exige cuerpo de respuesta.
func (c *Client) Delete(ctx context.Context, kind domain.Kind, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+string(kind)+"/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, err := c.tokens.Load(); err == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.sessionInvalid()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("backend http error: status=%d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) sessionInvalid() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("token purge failed", zap.Error(err))
	}
	c.logger.Info("backend returned 401, session purged")
	if c.onSessionInvalid != nil {
		c.onSessionInvalid()
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
