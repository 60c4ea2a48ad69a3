// Package questgen talks to the external content-generation service that
// produces quest definitions and battle narratives. Every field it returns is
// untrusted and must pass through the Sanitize helpers before persisting.
package questgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/logger"
)

// Client generates quest and battle content
type Client interface {
	GenerateQuest(ctx context.Context, req QuestRequest) (*QuestPayload, error)
	GenerateBattle(ctx context.Context, req BattleRequest) (*BattlePayload, error)
}

// QuestRequest describes the character the quest is generated for
type QuestRequest struct {
	WalletAddress string `json:"wallet_address"`
	Level         int    `json:"level"`
	Class         string `json:"class"`
	Category      string `json:"category,omitempty"` // optional preference
}

// QuestPayload is the raw generated quest definition
type QuestPayload struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	Objective        string `json:"objective"`
	Target           int    `json:"target"`
	Unit             string `json:"unit"`
	RewardXP         int    `json:"reward_xp"`
	RewardGold       int    `json:"reward_gold"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// BattleRequest describes an attack for narrative generation
type BattleRequest struct {
	BossName      string `json:"boss_name"`
	CharacterName string `json:"character_name"`
	Level         int    `json:"level"`
	Strength      int    `json:"strength"`
	Agility       int    `json:"agility"`
}

// BattlePayload is the raw generated battle outcome
type BattlePayload struct {
	Damage    int    `json:"damage"`
	Critical  bool   `json:"critical"`
	Narrative string `json:"narrative"`
}

// HTTPClient is the production Client over HTTP/JSON
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a generation client with the given endpoint and timeout
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateQuest requests a quest definition for the given character
func (c *HTTPClient) GenerateQuest(ctx context.Context, req QuestRequest) (*QuestPayload, error) {
	var payload QuestPayload
	if err := c.post(ctx, "/v1/generate/quest", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GenerateBattle requests a battle narrative for an attack
func (c *HTTPClient) GenerateBattle(ctx context.Context, req BattleRequest) (*BattlePayload, error) {
	var payload BattlePayload
	if err := c.post(ctx, "/v1/generate/battle", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", domain.ErrGenerationUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrGenerationUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.FromContext(ctx).Warn("Generation request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain for connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logger.FromContext(ctx).Warn("Generation request rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", domain.ErrGenerationUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrGenerationUnavailable, err)
	}
	return nil
}
