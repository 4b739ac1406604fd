// Package config loads the service configuration from configs/config.yml,
// INFERNO_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inferno/internal/logger"
	"inferno/internal/sensor"
	"inferno/internal/smoker"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "INFERNO"

// Hardware and ADC drivers.
const (
	DriverGPIO   = "gpio"
	DriverSPI    = "spi"
	DriverSerial = "serial"
	DriverSim    = "sim"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port     string          `mapstructure:"port"`
	Log      LogConfig       `mapstructure:"log"`
	DB       DBConfig        `mapstructure:"db"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Events   EventsConfig    `mapstructure:"events"`
	Hardware HardwareConfig  `mapstructure:"hardware"`
	ADC      ADCConfig       `mapstructure:"adc"`
	Sim      SimConfig       `mapstructure:"sim"`
	Sensor   sensor.Options  `mapstructure:"sensor"`
	Smoker   smoker.Tunables `mapstructure:"smoker"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type EventsConfig struct {
	Buffer     int           `mapstructure:"buffer"`
	Retention  time.Duration `mapstructure:"retention"`
	PruneEvery time.Duration `mapstructure:"prune_every"`
}

// HardwareConfig selects the relay driver. Pins are GPIO line offsets on
// Chip.
type HardwareConfig struct {
	Driver    string     `mapstructure:"driver"`
	Chip      string     `mapstructure:"chip"`
	ActiveLow bool       `mapstructure:"active_low"`
	Pins      PinsConfig `mapstructure:"pins"`
}

type PinsConfig struct {
	Auger   int `mapstructure:"auger"`
	Blower  int `mapstructure:"blower"`
	Igniter int `mapstructure:"igniter"`
}

type ADCConfig struct {
	Driver        string        `mapstructure:"driver"`
	SPIPort       string        `mapstructure:"spi_port"`
	SPISpeedHz    int64         `mapstructure:"spi_speed_hz"`
	SerialPort    string        `mapstructure:"serial_port"`
	SerialBaud    int           `mapstructure:"serial_baud"`
	SerialTimeout time.Duration `mapstructure:"serial_timeout"`
}

type SimConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port: "8080",
		Log:  LogConfig{Level: logger.InfoLevel, Encoding: logger.ConsoleEncoding},
		DB:   DBConfig{Path: "inferno.db"},
		Auth: AuthConfig{TokenTTL: 12 * time.Hour},
		Events: EventsConfig{
			Buffer:     256,
			Retention:  30 * 24 * time.Hour,
			PruneEvery: time.Hour,
		},
		Hardware: HardwareConfig{
			Driver:    DriverGPIO,
			Chip:      "gpiochip0",
			ActiveLow: true,
			Pins:      PinsConfig{Auger: 22, Blower: 21, Igniter: 23},
		},
		ADC: ADCConfig{
			Driver:        DriverSPI,
			SPIPort:       "/dev/spidev0.0",
			SPISpeedHz:    1_000_000,
			SerialPort:    "/dev/ttyUSB0",
			SerialBaud:    115200,
			SerialTimeout: 200 * time.Millisecond,
		},
		Sim:    SimConfig{Tick: 100 * time.Millisecond},
		Sensor: sensor.DefaultOptions(),
		Smoker: smoker.DefaultTunables(),
	}
}

// Loader reads and re-reads one configuration source.
type Loader struct {
	v    *viper.Viper
	file string
	log  *logger.Logger
}

// NewLoader reads file, or configs/config.yml when file is empty.
func NewLoader(file string, log *logger.Logger) *Loader {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return &Loader{v: v, file: file, log: log}
}

// Load reads the source and returns a validated configuration. A missing
// default config file is not an error; a missing explicit one is.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		l.log.Infow("config_file_not_found", "using", "defaults")
	} else {
		l.log.Infow("config_loaded", "file", l.v.ConfigFileUsed())
	}
	return l.decode()
}

// Watch calls onChange with the new configuration whenever the file
// changes. Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(Config)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			l.log.Errorw("config_reload_failed", "file", e.Name, "err", err)
			return
		}
		l.log.Infow("config_reloaded", "file", e.Name, "op", e.Op.String())
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (Config, error) {
	cfg := Default()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the controller cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	s := c.Smoker
	check(s.MinSetPoint < s.MaxSetPoint, "smoker.min_set_point %d must be below max_set_point %d", s.MinSetPoint, s.MaxSetPoint)
	check(s.UMin >= 0 && s.UMin <= s.UMax && s.UMax <= 1, "smoker.u_min/u_max must satisfy 0 <= u_min <= u_max <= 1")
	check(s.HoldCycle > 0, "smoker.hold_cycle must be positive")
	check(s.IdlePoll > 0, "smoker.idle_poll must be positive")
	check(s.PID.PB > 0 && s.PID.Ti > 0, "smoker.pid.pb and ti must be positive")
	check(s.Fire.Poll > 0, "smoker.fire.poll must be positive")
	check(c.Sensor.Window > 0, "sensor.window must be positive")
	check(c.Sensor.Interval > 0, "sensor.interval must be positive")
	check(c.Sensor.FullScale > 0 && c.Sensor.VRef > 0, "sensor.full_scale and vref must be positive")
	check(c.Hardware.Driver == DriverGPIO || c.Hardware.Driver == DriverSim, "unknown hardware.driver %q", c.Hardware.Driver)
	check(c.ADC.Driver == DriverSPI || c.ADC.Driver == DriverSerial || c.ADC.Driver == DriverSim, "unknown adc.driver %q", c.ADC.Driver)
	check(c.Events.Buffer > 0, "events.buffer must be positive")
	check(c.Auth.TokenTTL > 0, "auth.token_ttl must be positive")

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("auth.signing_key", d.Auth.SigningKey)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("events.buffer", d.Events.Buffer)
	v.SetDefault("events.retention", d.Events.Retention)
	v.SetDefault("events.prune_every", d.Events.PruneEvery)

	v.SetDefault("hardware.driver", d.Hardware.Driver)
	v.SetDefault("hardware.chip", d.Hardware.Chip)
	v.SetDefault("hardware.active_low", d.Hardware.ActiveLow)
	v.SetDefault("hardware.pins.auger", d.Hardware.Pins.Auger)
	v.SetDefault("hardware.pins.blower", d.Hardware.Pins.Blower)
	v.SetDefault("hardware.pins.igniter", d.Hardware.Pins.Igniter)

	v.SetDefault("adc.driver", d.ADC.Driver)
	v.SetDefault("adc.spi_port", d.ADC.SPIPort)
	v.SetDefault("adc.spi_speed_hz", d.ADC.SPISpeedHz)
	v.SetDefault("adc.serial_port", d.ADC.SerialPort)
	v.SetDefault("adc.serial_baud", d.ADC.SerialBaud)
	v.SetDefault("adc.serial_timeout", d.ADC.SerialTimeout)
	v.SetDefault("sim.tick", d.Sim.Tick)

	v.SetDefault("sensor.interval", d.Sensor.Interval)
	v.SetDefault("sensor.window", d.Sensor.Window)
	v.SetDefault("sensor.vref", d.Sensor.VRef)
	v.SetDefault("sensor.full_scale", d.Sensor.FullScale)
	v.SetDefault("sensor.grill_channel", d.Sensor.GrillChannel)
	v.SetDefault("sensor.probe_channel", d.Sensor.ProbeChannel)

	s := d.Smoker
	v.SetDefault("smoker.min_set_point", s.MinSetPoint)
	v.SetDefault("smoker.max_set_point", s.MaxSetPoint)
	v.SetDefault("smoker.max_grill_temp", s.MaxGrillTemp)
	v.SetDefault("smoker.default_p_value", s.DefaultPValue)
	v.SetDefault("smoker.hold_cycle", s.HoldCycle)
	v.SetDefault("smoker.u_min", s.UMin)
	v.SetDefault("smoker.u_max", s.UMax)
	v.SetDefault("smoker.smoke_auger_on", s.SmokeAugerOn)
	v.SetDefault("smoker.smoke_rest_base", s.SmokeRestBase)
	v.SetDefault("smoker.smoke_rest_per_p", s.SmokeRestPerP)
	v.SetDefault("smoker.preheat_margin", s.PreheatMargin)
	v.SetDefault("smoker.preheat_burst", s.PreheatBurst)
	v.SetDefault("smoker.preheat_rest", s.PreheatRest)
	v.SetDefault("smoker.cooldown_timeout", s.CooldownTimeout)
	v.SetDefault("smoker.idle_poll", s.IdlePoll)
	v.SetDefault("smoker.pid.pb", s.PID.PB)
	v.SetDefault("smoker.pid.ti", s.PID.Ti)
	v.SetDefault("smoker.pid.td", s.PID.Td)
	v.SetDefault("smoker.fire.poll", s.Fire.Poll)
	v.SetDefault("smoker.fire.igniter_timeout", s.Fire.IgniterTimeout)
	v.SetDefault("smoker.fire.fire_timeout", s.Fire.FireTimeout)
	v.SetDefault("smoker.fire.reignite_wait", s.Fire.ReigniteWait)
	v.SetDefault("smoker.fire.initial_ignition_temp", s.Fire.InitialIgnitionTemp)
	v.SetDefault("smoker.fire.ignition_rise", s.Fire.IgnitionRise)
	v.SetDefault("smoker.fire.reignite_rise", s.Fire.ReigniteRise)
	v.SetDefault("smoker.fire.smoke_check_temp", s.Fire.SmokeCheckTemp)
	v.SetDefault("smoker.fire.check_drop_per_180", s.Fire.CheckDropPer180)
}
