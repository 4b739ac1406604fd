package smoker

import (
	"time"

	"inferno/internal/pid"
)

// Tunables holds every threshold and timing the mode loop uses.
type Tunables struct {
	MinSetPoint   int     `mapstructure:"min_set_point"`
	MaxSetPoint   int     `mapstructure:"max_set_point"`
	MaxGrillTemp  float64 `mapstructure:"max_grill_temp"`
	DefaultPValue int     `mapstructure:"default_p_value"`

	HoldCycle time.Duration `mapstructure:"hold_cycle"`
	UMin      float64       `mapstructure:"u_min"`
	UMax      float64       `mapstructure:"u_max"`

	SmokeAugerOn  time.Duration `mapstructure:"smoke_auger_on"`
	SmokeRestBase time.Duration `mapstructure:"smoke_rest_base"`
	SmokeRestPerP time.Duration `mapstructure:"smoke_rest_per_p"`

	PreheatMargin float64       `mapstructure:"preheat_margin"`
	PreheatBurst  time.Duration `mapstructure:"preheat_burst"`
	PreheatRest   time.Duration `mapstructure:"preheat_rest"`

	CooldownTimeout time.Duration `mapstructure:"cooldown_timeout"`
	IdlePoll        time.Duration `mapstructure:"idle_poll"`

	PID  pid.Tuning   `mapstructure:"pid"`
	Fire FireTunables `mapstructure:"fire"`
}

// FireTunables drives ignition and flame supervision.
type FireTunables struct {
	Poll           time.Duration `mapstructure:"poll"`
	IgniterTimeout time.Duration `mapstructure:"igniter_timeout"`
	FireTimeout    time.Duration `mapstructure:"fire_timeout"`
	ReigniteWait   time.Duration `mapstructure:"reignite_wait"`

	// InitialIgnitionTemp is the threshold after a reset; the first
	// activation re-targets it to the current reading plus IgnitionRise.
	InitialIgnitionTemp float64 `mapstructure:"initial_ignition_temp"`
	IgnitionRise        float64 `mapstructure:"ignition_rise"`
	ReigniteRise        float64 `mapstructure:"reignite_rise"`

	SmokeCheckTemp  int `mapstructure:"smoke_check_temp"`
	CheckDropPer180 int `mapstructure:"check_drop_per_180"`
}

// DefaultTunables returns the factory settings.
func DefaultTunables() Tunables {
	return Tunables{
		MinSetPoint:     180,
		MaxSetPoint:     400,
		MaxGrillTemp:    450,
		DefaultPValue:   2,
		HoldCycle:       20 * time.Second,
		UMin:            0.15,
		UMax:            1.0,
		SmokeAugerOn:    15 * time.Second,
		SmokeRestBase:   45 * time.Second,
		SmokeRestPerP:   10 * time.Second,
		PreheatMargin:   10,
		PreheatBurst:    15 * time.Second,
		PreheatRest:     5 * time.Second,
		CooldownTimeout: 10 * time.Minute,
		IdlePoll:        time.Second,
		PID:             pid.DefaultTuning(),
		Fire:            DefaultFireTunables(),
	}
}

// DefaultFireTunables returns the factory fire supervision settings.
func DefaultFireTunables() FireTunables {
	return FireTunables{
		Poll:                time.Second,
		IgniterTimeout:      10 * time.Minute,
		FireTimeout:         10 * time.Minute,
		ReigniteWait:        time.Minute,
		InitialIgnitionTemp: 200,
		IgnitionRise:        10,
		ReigniteRise:        5,
		SmokeCheckTemp:      140,
		CheckDropPer180:     30,
	}
}
