package questgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthquest/healthquest/internal/domain"
)

func TestHTTPClient_GenerateQuest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate/quest", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req QuestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.Level)

		json.NewEncoder(w).Encode(QuestPayload{
			Title:            "morning run",
			Category:         "cardio",
			Difficulty:       "easy",
			Target:           20,
			Unit:             "minutes",
			RewardXP:         50,
			RewardGold:       25,
			EstimatedMinutes: 20,
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", 5*time.Second)
	payload, err := client.GenerateQuest(context.Background(), QuestRequest{WalletAddress: "0xabc", Level: 3})
	require.NoError(t, err)
	assert.Equal(t, "morning run", payload.Title)
	assert.Equal(t, 50, payload.RewardXP)
}

func TestHTTPClient_GenerateBattle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate/battle", r.URL.Path)
		json.NewEncoder(w).Encode(BattlePayload{Damage: 42, Critical: true, Narrative: "A crushing blow!"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 5*time.Second)
	payload, err := client.GenerateBattle(context.Background(), BattleRequest{BossName: "Couch Potato King"})
	require.NoError(t, err)
	assert.Equal(t, 42, payload.Damage)
	assert.True(t, payload.Critical)
}

func TestHTTPClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewHTTPClient(server.URL, "", time.Second)
			_, err := client.GenerateQuest(context.Background(), QuestRequest{})
			assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 50*time.Millisecond)
	_, err := client.GenerateQuest(context.Background(), QuestRequest{})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}
