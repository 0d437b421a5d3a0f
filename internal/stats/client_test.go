package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetPlayerStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats/player-1" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(PlayerRecord{PlayerID: "player-1", PlayerName: "me", BestScore: 42})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	record := client.GetPlayerStats(context.Background(), "player-1")
	if record == nil || record.BestScore != 42 {
		t.Fatalf("record wrong: %+v", record)
	}
	if got := client.GetPlayerStats(context.Background(), "missing"); got != nil {
		t.Fatalf("unknown player must yield nil, got %+v", got)
	}
}

func TestSaveGameSessionSendsPayload(t *testing.T) {
	var received SessionResult
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.SaveGameSession(context.Background(), "player-1", SessionResult{
		Score:         12,
		PlayerName:    "me",
		WalletAddress: "0xabc",
	})

	if path != "/api/sessions/player-1" {
		t.Fatalf("wrong endpoint: %s", path)
	}
	if received.Score != 12 || received.WalletAddress != "0xabc" {
		t.Fatalf("payload wrong: %+v", received)
	}
}

func TestUpdateBestScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]bool{"updated": body["score"] > 100})
	}))
	defer server.Close()

	client := New(server.URL, nil)
	if client.UpdateBestScore(context.Background(), "player-1", 50) {
		t.Fatalf("low score must not report updated")
	}
	if !client.UpdateBestScore(context.Background(), "player-1", 150) {
		t.Fatalf("high score must report updated")
	}
}

func TestBackendFailuresAreSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, nil)
	if got := client.GetPlayerStats(context.Background(), "player-1"); got != nil {
		t.Fatalf("failure must yield nil record, got %+v", got)
	}
	client.SaveGameSession(context.Background(), "player-1", SessionResult{Score: 1})
	if client.UpdateBestScore(context.Background(), "player-1", 1) {
		t.Fatalf("failure must report not updated")
	}
}

func TestDisabledClientNoops(t *testing.T) {
	client := New("", nil)
	if client.Enabled() {
		t.Fatalf("empty base url must disable the client")
	}
	if got := client.GetPlayerStats(context.Background(), "player-1"); got != nil {
		t.Fatalf("disabled client must yield nil, got %+v", got)
	}
	client.SaveGameSession(context.Background(), "player-1", SessionResult{})
	if client.UpdateBestScore(context.Background(), "player-1", 10) {
		t.Fatalf("disabled client must report not updated")
	}
}
