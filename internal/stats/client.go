// Package stats talks to the persistence backend for player records. Every
// call is best effort: the match never stalls or fails because the backend is
// down, so errors are logged and swallowed behind nil/zero returns.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/noleforte/DRAW-sub001/internal/telemetry"
)

const requestTimeout = 5 * time.Second

// PlayerRecord is the stored profile for one player.
type PlayerRecord struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	BestScore  int    `json:"bestScore"`
	TotalCoins int    `json:"totalCoins"`
	GamesCount int    `json:"gamesCount"`
}

// SessionResult is the payload persisted at the end of a match.
type SessionResult struct {
	Score         int    `json:"score"`
	PlayerName    string `json:"playerName"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Client wraps the backend's JSON endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  telemetry.Logger
}

// New constructs a client for the given backend base URL. An empty base URL
// yields a disabled client whose calls all no-op.
func New(baseURL string, logger telemetry.Logger) *Client {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// GetPlayerStats fetches the stored record for a player. It returns nil both
// for unknown players and for backend failures.
func (c *Client) GetPlayerStats(ctx context.Context, playerID string) *PlayerRecord {
	if !c.Enabled() || playerID == "" {
		return nil
	}
	endpoint := fmt.Sprintf("%s/api/stats/%s", c.baseURL, url.PathEscape(playerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Printf("stats request build failed: %v", err)
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("stats fetch failed for %s: %v", playerID, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Printf("stats fetch for %s returned %d", playerID, resp.StatusCode)
		}
		return nil
	}
	var record PlayerRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		c.logger.Printf("stats decode failed for %s: %v", playerID, err)
		return nil
	}
	return &record
}

// SaveGameSession persists a finished session. Failures are logged only.
func (c *Client) SaveGameSession(ctx context.Context, playerID string, result SessionResult) {
	if !c.Enabled() || playerID == "" {
		return
	}
	endpoint := fmt.Sprintf("%s/api/sessions/%s", c.baseURL, url.PathEscape(playerID))
	if err := c.postJSON(ctx, endpoint, result); err != nil {
		c.logger.Printf("session save failed for %s: %v", playerID, err)
	}
}

// UpdateBestScore submits a score candidate and reports whether the backend
// accepted it as a new best. Backend failures report false.
func (c *Client) UpdateBestScore(ctx context.Context, playerID string, score int) bool {
	if !c.Enabled() || playerID == "" {
		return false
	}
	endpoint := fmt.Sprintf("%s/api/stats/%s/best", c.baseURL, url.PathEscape(playerID))
	body, err := json.Marshal(map[string]int{"score": score})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("best score update failed for %s: %v", playerID, err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("best score update for %s returned %d", playerID, resp.StatusCode)
		return false
	}
	var reply struct {
		Updated bool `json:"updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		c.logger.Printf("best score decode failed for %s: %v", playerID, err)
		return false
	}
	return reply.Updated
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}
