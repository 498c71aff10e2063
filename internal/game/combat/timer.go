package combat

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// Pacer spaces out attack animation according to the battle speed. No combat
// logic runs while it sleeps.
type Pacer struct {
	settings *config.CombatConfig
	sleep    func(time.Duration)
}

// NewPacer creates a Pacer. A nil sleep uses time.Sleep.
//
// Precondition: settings must be non-nil.
func NewPacer(settings *config.CombatConfig, sleep func(time.Duration)) Pacer {
	if sleep == nil {
		sleep = time.Sleep
	}
	return Pacer{settings: settings, sleep: sleep}
}

// FlashDuration is how long a flash of n frames stays up.
//
// Postcondition: shrinks as the battle speed grows; zero for n <= 0.
func (p Pacer) FlashDuration(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	speed := max(p.settings.BattleSpeed, config.MinBattleSpeed)
	return time.Duration(n) * p.settings.Frame / time.Duration(speed)
}

// Flash holds a flash of n frames.
func (p Pacer) Flash(n int) {
	p.pause(p.FlashDuration(n))
}

// Travel holds a travelling projectile on one cell.
func (p Pacer) Travel() {
	p.pause(2 * p.settings.AttackDelay())
}

// RoundBreak is the short pause between rounds.
func (p Pacer) RoundBreak() {
	p.pause(p.settings.Frame / 5)
}

func (p Pacer) pause(d time.Duration) {
	if d > 0 {
		p.sleep(d)
	}
}
