// Package botapi is the REST client for the external bot-management
// service. The service performs all scheduling, rebalancing and on-chain
// work; this client only shapes requests and surfaces errors.
package botapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"lppanel/internal/models"
	"lppanel/internal/session"
)

type Client struct {
	baseURL string
	http    httpClient
	session *session.Session
}

func NewClient(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    defaultHTTPClient(),
		session: sess,
	}
}

// WithHTTPClient overrides the transport; tests inject httptest clients
// through here.
func (c *Client) WithHTTPClient(h httpClient) *Client {
	c.http = h
	return c
}

// StartBot launches a new bot from an assembled wizard payload.
func (c *Client) StartBot(ctx context.Context, payload models.StartBotPayload) (models.StartBotResponse, error) {
	var out models.StartBotResponse
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/bot/start", payload, false, &out)
	return out, err
}

func (c *Client) StopBot(ctx context.Context, botID string) (models.StopBotResponse, error) {
	var out models.StopBotResponse
	err := c.doJSON(ctx, http.MethodPost, c.botURL(botID, "stop"), map[string]any{}, false, &out)
	return out, err
}

func (c *Client) ResumeBot(ctx context.Context, botID string) (models.ResumeBotResponse, error) {
	var out models.ResumeBotResponse
	err := c.doJSON(ctx, http.MethodPost, c.botURL(botID, "resume"), map[string]any{}, false, &out)
	return out, err
}

// WithdrawBot removes the bot's liquidity position and settles fees.
func (c *Client) WithdrawBot(ctx context.Context, botID string) (models.WithdrawBotResponse, error) {
	var out models.WithdrawBotResponse
	err := c.doJSON(ctx, http.MethodPost, c.botURL(botID, "withdraw"), map[string]any{}, false, &out)
	return out, err
}

func (c *Client) ActiveBots(ctx context.Context) ([]models.BotSummary, error) {
	var out models.ActiveBotsResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/bot/active", nil, false, &out); err != nil {
		return nil, err
	}
	return out.ActiveBots, nil
}

func (c *Client) UnactiveBots(ctx context.Context) ([]models.BotSummary, error) {
	var out models.UnactiveBotsResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/bot/unactive", nil, false, &out); err != nil {
		return nil, err
	}
	return out.UnactiveBots, nil
}

// TokenBalance reports the service wallet's balance for a token; the
// zero address queries the native coin.
func (c *Client) TokenBalance(ctx context.Context, tokenAddress string) (string, error) {
	u := c.baseURL + "/bot/getBalance?tokenAddress=" + url.QueryEscape(tokenAddress)
	var out models.TokenBalanceResponse
	if err := c.doJSON(ctx, http.MethodGet, u, nil, false, &out); err != nil {
		return "", err
	}
	return out.TokenBalance, nil
}

// WithdrawManual force-withdraws a position by its id, bypassing the bot
// lifecycle. The service replies with a free-form result string.
func (c *Client) WithdrawManual(ctx context.Context, positionID string) (string, error) {
	u := c.baseURL + "/bot/withdraw-manual?position_id=" + url.QueryEscape(positionID)
	var out any
	if err := c.doJSON(ctx, http.MethodPost, u, nil, false, &out); err != nil {
		return "", err
	}
	if s, ok := out.(string); ok {
		return s, nil
	}
	return "ok", nil
}

func (c *Client) botURL(botID, action string) string {
	return c.baseURL + "/bot/" + url.PathEscape(botID) + "/" + action
}
