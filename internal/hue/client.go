package hue

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amimof/huego"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ClientConfig holds transport settings for the bridge client.
type ClientConfig struct {
	Timeout time.Duration
	// Requests per second for light endpoints (<= 0 = unlimited)
	LightRPS float64
	// Requests per second for group endpoints (<= 0 = unlimited)
	GroupRPS float64
}

// Client talks to the Hue bridge v1 API.
// Every call is a single request; there is no caching and no retry.
type Client struct {
	address    string
	token      string
	baseURL    string
	httpClient *http.Client

	lightLimiter *rate.Limiter
	groupLimiter *rate.Limiter
}

// NewClient creates a new Hue client. The address may be a bare host
// ("192.168.1.2") or include a scheme ("http://127.0.0.1:8080").
func NewClient(address, token string, cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	// Bridges serve a self-signed certificate when reached over https
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	base := strings.TrimSuffix(address, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		address: address,
		token:   token,
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		lightLimiter: newLimiter(cfg.LightRPS),
		groupLimiter: newLimiter(cfg.GroupRPS),
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Address returns the bridge address
func (c *Client) Address() string {
	return c.address
}

// Close closes idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Connect verifies the bridge is reachable and the token is accepted.
func (c *Client) Connect(ctx context.Context) error {
	var capabilities map[string]any
	if err := c.get(ctx, "failed to connect to Hue bridge", "capabilities", &capabilities); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("address", c.address).Msg("Hue bridge reachable")
	return nil
}

func (c *Client) v1URL(path string) string {
	return fmt.Sprintf("%s/api/%s/%s", c.baseURL, c.token, path)
}

func (c *Client) v1Request(ctx context.Context, limiter *rate.Limiter, method, path string, body io.Reader) (*http.Response, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.v1URL(path), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// GetLights returns all lights ordered by id.
func (c *Client) GetLights(ctx context.Context) ([]Light, error) {
	var raw map[string]huego.Light
	if err := c.get(ctx, "failed to get lights", "lights", &raw); err != nil {
		return nil, err
	}

	lights := make([]Light, 0, len(raw))
	for id, light := range raw {
		lights = append(lights, Light{ID: id, Light: light})
	}
	sortLights(lights)

	return lights, nil
}

// GetLight returns a single light.
func (c *Client) GetLight(ctx context.Context, lightID string) (*Light, error) {
	var light huego.Light
	op := fmt.Sprintf("failed to get light %s", lightID)
	if err := c.get(ctx, op, "lights/"+url.PathEscape(lightID), &light); err != nil {
		return nil, err
	}
	return &Light{ID: lightID, Light: light}, nil
}

// SetLightState sends a state update to one light.
func (c *Client) SetLightState(ctx context.Context, lightID string, update StateUpdate) error {
	path := fmt.Sprintf("lights/%s/state", url.PathEscape(lightID))
	if err := c.put(ctx, c.lightLimiter, "failed to set light state", path, update); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("light", lightID).
		Interface("state", update).
		Msg("Light state updated")

	return nil
}

// SetGroupAction sends a state update to a group. Group "0" addresses every
// light on the bridge.
func (c *Client) SetGroupAction(ctx context.Context, groupID string, update StateUpdate) error {
	path := fmt.Sprintf("groups/%s/action", url.PathEscape(groupID))
	if err := c.put(ctx, c.groupLimiter, "failed to set group action", path, update); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("group", groupID).
		Interface("state", update).
		Msg("Group action applied")

	return nil
}

func (c *Client) get(ctx context.Context, op, path string, v any) error {
	resp, err := c.v1Request(ctx, c.lightLimiter, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := readBody(op, resp)
	if err != nil {
		return err
	}

	// Reads that fail (unknown light, unauthorized user) come back as an
	// acknowledgement list with status 200.
	if isList(body) {
		var acks []ack
		if json.Unmarshal(body, &acks) == nil {
			if err := checkAcks(acks); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func (c *Client) put(ctx context.Context, limiter *rate.Limiter, op, path string, update StateUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.v1Request(ctx, limiter, http.MethodPut, path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := readBody(op, resp)
	if err != nil {
		return err
	}

	var acks []ack
	if err := json.Unmarshal(body, &acks); err != nil {
		return fmt.Errorf("%s: failed to decode acknowledgements: %w", op, err)
	}

	if err := checkAcks(acks); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func readBody(op string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(string(body)),
		}
	}

	return body, nil
}

func isList(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
