package bots

import (
	"github.com/noleforte/DRAW-sub001/internal/geom"
	"github.com/noleforte/DRAW-sub001/internal/world"
)

// Steer points every bot at its nearest coin. Velocity is a unit vector
// scaled by baseSpeed * speedVariation. Ties on distance go to the first coin
// in iteration order so replays are stable.
func (s *Scheduler) Steer() {
	coins := s.world.Coins()
	baseSpeed := s.world.Config().BaseSpeed
	for _, bot := range s.world.Bots() {
		target, ok := nearestCoin(bot.Pos, coins)
		if !ok {
			bot.Vel = geom.Vec2{}
			continue
		}
		dir := target.Sub(bot.Pos).Normalized()
		variation := 1.0
		if bot.Bot != nil && bot.Bot.SpeedVariation > 0 {
			variation = bot.Bot.SpeedVariation
		}
		bot.Vel = dir.Scale(baseSpeed * variation)
	}
}

func nearestCoin(from geom.Vec2, coins []world.Coin) (geom.Vec2, bool) {
	if len(coins) == 0 {
		return geom.Vec2{}, false
	}
	best := coins[0].Pos
	bestDist := geom.Dist(from, best)
	for _, coin := range coins[1:] {
		if d := geom.Dist(from, coin.Pos); d < bestDist {
			best = coin.Pos
			bestDist = d
		}
	}
	return best, true
}
