package proto

import (
	"encoding/json"
	"testing"
)

func TestDecodeGameStateSnapshot(t *testing.T) {
	payload := []byte(`{
		"type": "gameState",
		"playerId": "player-1",
		"worldSize": 4000,
		"players": [{"id": "player-1", "name": "me", "x": 10, "y": -5, "vx": 1, "vy": 0, "size": 20, "score": 3, "color": "#fff", "wallet": "0xabc"}],
		"bots": [{"id": "bot-1", "name": "Hunter", "x": 0, "y": 0, "size": 20, "score": 1, "color": "#0f0", "speedVariation": 1.1}],
		"coins": [{"id": "coin-1", "x": 50, "y": 60, "value": 1}]
	}`)

	event, err := DecodeServerEvent(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !event.IsSnapshot() {
		t.Fatalf("gameState must be a snapshot event")
	}
	if event.PlayerID != "player-1" {
		t.Fatalf("playerId: got %q", event.PlayerID)
	}

	players, bots, coins := event.Entities()
	if len(players) != 1 || len(bots) != 1 || len(coins) != 1 {
		t.Fatalf("conversion counts wrong: %d players %d bots %d coins", len(players), len(bots), len(coins))
	}
	p := players[0]
	if p.ID != "player-1" || p.Pos.X != 10 || p.Pos.Y != -5 || p.Score != 3 {
		t.Fatalf("player conversion wrong: %+v", p)
	}
	if p.Human == nil || p.Human.Wallet != "0xabc" {
		t.Fatalf("wallet lost in conversion")
	}
	b := bots[0]
	if !b.IsBot() || b.Bot.SpeedVariation != 1.1 {
		t.Fatalf("bot conversion wrong: %+v", b)
	}
	if coins[0].ID != "coin-1" || coins[0].Value != 1 {
		t.Fatalf("coin conversion wrong: %+v", coins[0])
	}
}

func TestDecodeMatchTimer(t *testing.T) {
	event, err := DecodeServerEvent([]byte(`{"type": "matchTimer", "timeLeft": 3600, "serverTime": 1717243200000}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if event.Type != TypeMatchTimer || event.TimeLeft != 3600 || event.ServerTime != 1717243200000 {
		t.Fatalf("timer fields wrong: %+v", event)
	}
}

func TestDecodeChatMessage(t *testing.T) {
	event, err := DecodeServerEvent([]byte(`{"type": "chatMessage", "playerId": "player-2", "playerName": "rival", "message": "gg", "isSystem": false}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if event.PlayerName != "rival" || event.Message != "gg" || event.IsSystem {
		t.Fatalf("chat fields wrong: %+v", event)
	}
}

func TestDecodeGameEndedResults(t *testing.T) {
	event, err := DecodeServerEvent([]byte(`{"type": "gameEnded", "finalResults": [{"playerId": "p1", "name": "me", "score": 12}]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(event.FinalResults) != 1 || event.FinalResults[0].Score != 12 {
		t.Fatalf("final results wrong: %+v", event.FinalResults)
	}
}

func TestDecodeRejectsMissingType(t *testing.T) {
	if _, err := DecodeServerEvent([]byte(`{"players": []}`)); err == nil {
		t.Fatalf("expected error for typeless payload")
	}
	if _, err := DecodeServerEvent([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestEntitiesDefaultsMissingFields(t *testing.T) {
	event := ServerEvent{
		Type:    TypeGameUpdate,
		Players: []PlayerWire{{ID: "p1", Name: "me"}},
		Coins:   []CoinWire{{ID: "c1"}},
	}
	players, _, coins := event.Entities()
	if players[0].Size <= 0 {
		t.Fatalf("missing size not defaulted: %v", players[0].Size)
	}
	if coins[0].Value <= 0 {
		t.Fatalf("missing coin value not defaulted: %v", coins[0].Value)
	}
}

func TestEncodeOutboundFramesCarryVersionAndType(t *testing.T) {
	join, err := EncodeJoinGame(JoinGame{Name: "me", Color: "#fff", Wallet: "0xabc"})
	if err != nil {
		t.Fatalf("encode join: %v", err)
	}
	move, err := EncodePlayerMove(PlayerMove{X: 1.5, Y: -2})
	if err != nil {
		t.Fatalf("encode move: %v", err)
	}
	chat, err := EncodeChatSend(ChatSend{Message: "hello"})
	if err != nil {
		t.Fatalf("encode chat: %v", err)
	}

	for name, payload := range map[string][]byte{"join": join, "move": move, "chat": chat} {
		var frame map[string]any
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("%s frame not valid json: %v", name, err)
		}
		if frame["ver"] != float64(Version) {
			t.Fatalf("%s frame missing ver: %v", name, frame)
		}
		if frame["type"] == "" {
			t.Fatalf("%s frame missing type", name)
		}
	}

	var decodedMove map[string]any
	if err := json.Unmarshal(move, &decodedMove); err != nil {
		t.Fatalf("unmarshal move: %v", err)
	}
	if decodedMove["type"] != TypePlayerMove || decodedMove["x"] != 1.5 {
		t.Fatalf("move frame wrong: %v", decodedMove)
	}
}
