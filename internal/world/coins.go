package world

import (
	"github.com/google/uuid"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

// CoinValue is the score awarded per pickup.
const CoinValue = 1

// Coin is a consumable pickup. A consumed coin is never removed from the
// collection; it is relocated and reassigned a fresh id, so the coin count is
// constant for the lifetime of a match.
type Coin struct {
	ID    string    `json:"id"`
	Pos   geom.Vec2 `json:"position"`
	Value int       `json:"value"`
}

// Coins returns the live coin slice. Callers must not mutate it.
func (w *World) Coins() []Coin {
	return w.coins
}

// SeedCoins fills the world with the configured number of coins at random
// positions. Any existing coins are discarded.
func (w *World) SeedCoins() {
	coins := make([]Coin, 0, w.cfg.CoinCount)
	for i := 0; i < w.cfg.CoinCount; i++ {
		coins = append(coins, Coin{
			ID:    newCoinID(),
			Pos:   w.RandomPosition(),
			Value: CoinValue,
		})
	}
	w.coins = coins
}

// Pickup records one resolved coin consumption.
type Pickup struct {
	EntityID  string
	CoinID    string
	NewCoinID string
	Value     int
}

// ResolvePickups awards coins to entities within pickup radius and recycles
// each consumed coin in place. Entities are scanned in stable order (players
// in join order, then bots in spawn order), so when two entities could take
// the same coin in one tick the first in iteration order wins; later entities
// see the already-relocated coin.
func (w *World) ResolvePickups() []Pickup {
	var pickups []Pickup
	for _, e := range w.Entities() {
		for i := range w.coins {
			coin := &w.coins[i]
			if geom.Dist(e.Pos, coin.Pos) >= e.Size {
				continue
			}
			e.Score += coin.Value
			pickup := Pickup{
				EntityID: e.ID,
				CoinID:   coin.ID,
				Value:    coin.Value,
			}
			coin.ID = newCoinID()
			coin.Pos = w.RandomPosition()
			coin.Value = CoinValue
			pickup.NewCoinID = coin.ID
			pickups = append(pickups, pickup)
		}
	}
	return pickups
}

func newCoinID() string {
	return "coin-" + uuid.NewString()
}
