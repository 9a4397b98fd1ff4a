package nightlight

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// TimeModule advances the Time resource in the Prelude stage. A non-zero
// FixedStep replaces wall-clock deltas, which keeps simulated runs
// reproducible.
type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	if mod.FixedStep > 0 {
		step := mod.FixedStep
		cmd.UseSystem(System(func(t *Time) { fixedTimeSystem(t, step) }).InStage(Prelude))
		return
	}
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}

func fixedTimeSystem(timeResource *Time, step time.Duration) {
	timeResource.Dt = step
	timeResource.Time = timeResource.Time.Add(step)
	timeResource.Frame++
}
