package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/BryanSouza91/RotorFC/rc"
)

// ErrUnknownProtocol is returned for an rc.protocol other than crsf or ibus.
var ErrUnknownProtocol = errors.New("config: unknown rc protocol")

// Config holds the host runner's configuration.
type Config struct {
	Kernel KernelConfig `mapstructure:"kernel" toml:"kernel"`
	RC     RCConfig     `mapstructure:"rc" toml:"rc"`
	MQTT   MQTTConfig   `mapstructure:"mqtt" toml:"mqtt"`
	Web    WebConfig    `mapstructure:"web" toml:"web"`
	Sim    SimConfig    `mapstructure:"sim" toml:"sim"`
}

// KernelConfig holds scheduler settings.
type KernelConfig struct {
	TickHz      float64 `mapstructure:"tick_hz" toml:"tick_hz"`
	StartupMode string  `mapstructure:"startup_mode" toml:"startup_mode"`
}

// RCConfig selects the receiver. An empty SerialPort flies the built-in pilot.
type RCConfig struct {
	Protocol        string `mapstructure:"protocol" toml:"protocol"`
	SerialPort      string `mapstructure:"serial_port" toml:"serial_port"`
	BaudRate        int    `mapstructure:"baud_rate" toml:"baud_rate"`
	LostTicks       uint32 `mapstructure:"lost_ticks" toml:"lost_ticks"`
	ReallyLostTicks uint32 `mapstructure:"really_lost_ticks" toml:"really_lost_ticks"`
}

// MQTTConfig holds broker settings for the ground link.
type MQTTConfig struct {
	Enabled       bool   `mapstructure:"enabled" toml:"enabled"`
	Broker        string `mapstructure:"broker" toml:"broker"`
	Port          int    `mapstructure:"port" toml:"port"`
	ClientID      string `mapstructure:"client_id" toml:"client_id"`
	Username      string `mapstructure:"username" toml:"username"`
	Password      string `mapstructure:"password" toml:"password"`
	UplinkTopic   string `mapstructure:"uplink_topic" toml:"uplink_topic"`
	DownlinkTopic string `mapstructure:"downlink_topic" toml:"downlink_topic"`
}

// WebConfig holds the telemetry websocket listener. An empty Addr disables it.
type WebConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// SimConfig holds simulation settings.
type SimConfig struct {
	IMUHz          float64 `mapstructure:"imu_hz" toml:"imu_hz"`
	MagDivider     int     `mapstructure:"mag_divider" toml:"mag_divider"`
	GPSHz          float64 `mapstructure:"gps_hz" toml:"gps_hz"`
	GPSLostAfterMS int     `mapstructure:"gps_lost_after_ms" toml:"gps_lost_after_ms"`
	AlignerSamples int     `mapstructure:"aligner_samples" toml:"aligner_samples"`
	BypassAHRS     bool    `mapstructure:"bypass_ahrs" toml:"bypass_ahrs"`
	LockStep       bool    `mapstructure:"lock_step" toml:"lock_step"`
	ReportEvery    uint64  `mapstructure:"report_every" toml:"report_every"`
}

// GPSLostAfter is the fix timeout as a duration.
func (s SimConfig) GPSLostAfter() time.Duration {
	return time.Duration(s.GPSLostAfterMS) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Kernel: KernelConfig{TickHz: 512, StartupMode: "kill"},
		RC: RCConfig{
			Protocol:        "crsf",
			BaudRate:        420000,
			LostTicks:       rc.DefaultLostTicks,
			ReallyLostTicks: rc.DefaultReallyLostTicks,
		},
		MQTT: MQTTConfig{
			Broker:        "localhost",
			Port:          1883,
			ClientID:      "rotorfc-sitl",
			UplinkTopic:   "rotorfc/uplink",
			DownlinkTopic: "rotorfc/telemetry",
		},
		Web: WebConfig{Addr: ":8080"},
		Sim: SimConfig{
			IMUHz:          512,
			MagDivider:     10,
			GPSHz:          5,
			GPSLostAfterMS: 1000,
			AlignerSamples: 512,
			ReportEvery:    512,
		},
	}
}

// Path is the config file location: ROTORFC_CONFIG if set, otherwise
// $HOME/.config/rotorfc/config.toml.
func Path() string {
	if p := os.Getenv("ROTORFC_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rotorfc", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix ROTORFC_.
func Load() (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("kernel.tick_hz", d.Kernel.TickHz)
	v.SetDefault("kernel.startup_mode", d.Kernel.StartupMode)
	v.SetDefault("rc.protocol", d.RC.Protocol)
	v.SetDefault("rc.serial_port", d.RC.SerialPort)
	v.SetDefault("rc.baud_rate", d.RC.BaudRate)
	v.SetDefault("rc.lost_ticks", d.RC.LostTicks)
	v.SetDefault("rc.really_lost_ticks", d.RC.ReallyLostTicks)
	v.SetDefault("mqtt.enabled", d.MQTT.Enabled)
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.port", d.MQTT.Port)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
	v.SetDefault("mqtt.username", d.MQTT.Username)
	v.SetDefault("mqtt.password", d.MQTT.Password)
	v.SetDefault("mqtt.uplink_topic", d.MQTT.UplinkTopic)
	v.SetDefault("mqtt.downlink_topic", d.MQTT.DownlinkTopic)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("sim.imu_hz", d.Sim.IMUHz)
	v.SetDefault("sim.mag_divider", d.Sim.MagDivider)
	v.SetDefault("sim.gps_hz", d.Sim.GPSHz)
	v.SetDefault("sim.gps_lost_after_ms", d.Sim.GPSLostAfterMS)
	v.SetDefault("sim.aligner_samples", d.Sim.AlignerSamples)
	v.SetDefault("sim.bypass_ahrs", d.Sim.BypassAHRS)
	v.SetDefault("sim.lock_step", d.Sim.LockStep)
	v.SetDefault("sim.report_every", d.Sim.ReportEvery)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("ROTORFC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values the runner cannot fall back from.
func (c Config) Validate() error {
	if c.Kernel.TickHz <= 0 {
		return fmt.Errorf("config: kernel.tick_hz must be positive, got %v", c.Kernel.TickHz)
	}
	if _, err := c.RC.Decoder(); err != nil {
		return err
	}
	return nil
}

// Decoder returns a parser for the configured receiver protocol.
func (c RCConfig) Decoder() (rc.Decoder, error) {
	switch strings.ToLower(c.Protocol) {
	case "crsf", "elrs":
		return rc.NewCRSFParser(), nil
	case "ibus":
		return rc.NewIBusParser(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, c.Protocol)
}

// Link returns the RC link thresholds.
func (c RCConfig) Link() rc.LinkConfig {
	return rc.LinkConfig{LostTicks: c.LostTicks, ReallyLostTicks: c.ReallyLostTicks}
}

// WriteDefault writes the built-in configuration to path as TOML, creating
// the directory if needed. An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
