package bots

import "time"

const (
	chatterDelayMin = 30 * time.Second
	chatterDelayMax = 120 * time.Second
	// chatterMinGap keeps any single bot from talking twice in a row too fast.
	chatterMinGap = 60 * time.Second
)

var botPhrases = []string{
	"so many coins over here",
	"gg",
	"who took my coin",
	"catch me if you can",
	"this corner is mine",
	"anyone else lagging?",
	"one more and I break my record",
	"nice moves",
}

// StartChatter arms periodic bot chat lines. Harmless without a Chat sink.
func (s *Scheduler) StartChatter() {
	s.scheduleChatter(s.randomDelay(chatterDelayMin, chatterDelayMax))
}

// StopChatter cancels the pending chatter event.
func (s *Scheduler) StopChatter() {
	if s.chatter != nil {
		s.queue.Cancel(s.chatter)
		s.chatter = nil
	}
}

func (s *Scheduler) scheduleChatter(delay time.Duration) {
	s.chatter = s.queue.Schedule(delay, func(now time.Time) {
		s.chatterOnce(now)
		s.scheduleChatter(s.randomDelay(chatterDelayMin, chatterDelayMax))
	})
}

// chatterOnce picks a random bot and lets it speak unless it talked recently.
// A suppressed line is a no-op; the next event is scheduled either way.
func (s *Scheduler) chatterOnce(now time.Time) {
	population := s.world.Bots()
	if len(population) == 0 || s.chat == nil {
		return
	}
	bot := population[s.rng.Intn(len(population))]
	if bot.Bot == nil || now.Sub(bot.Bot.LastMessageAt) < chatterMinGap {
		return
	}
	bot.Bot.LastMessageAt = now
	s.chat(bot.ID, bot.Name, botPhrases[s.rng.Intn(len(botPhrases))])
}
