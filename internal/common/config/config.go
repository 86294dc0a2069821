package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"walkup-counter/internal/domain"
)

type DB struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Pass     string `yaml:"password"`
	Name     string `yaml:"database"`
	MaxConns int32  `yaml:"max_conns"`
}

// Enabled reports whether persistence is configured at all.
func (d DB) Enabled() bool { return d.Host != "" }

type MQ struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	User  string `yaml:"user"`
	Pass  string `yaml:"password"`
	VHost string `yaml:"vhost"`
}

func (m MQ) Enabled() bool { return m.Host != "" }

type Counter struct {
	Addr         string        `yaml:"addr"`
	MaxSessions  int           `yaml:"max_sessions"`
	MaxItems     int           `yaml:"max_items"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Kitchen struct {
	Workers         int                      `yaml:"workers"`
	DefaultCookTime time.Duration            `yaml:"default_cook_time"`
	CookTimes       map[string]time.Duration `yaml:"cook_times"`
}

type Tracker struct {
	Addr string `yaml:"addr"`
}

type App struct {
	Database DB      `yaml:"database"`
	Rabbit   MQ      `yaml:"rabbitmq"`
	Counter  Counter `yaml:"counter"`
	Kitchen  Kitchen `yaml:"kitchen"`
	Tracker  Tracker `yaml:"tracker"`
	LogLevel string  `yaml:"log_level"`
}

// Default is the configuration used when no file is found.
func Default() App {
	return App{
		Database: DB{Port: 5432, MaxConns: 10},
		Rabbit:   MQ{Port: 5672, VHost: "/"},
		Counter: Counter{
			Addr:         ":4000",
			MaxSessions:  50,
			MaxItems:     10,
			WaitTimeout:  2 * time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Kitchen: Kitchen{
			Workers:         4,
			DefaultCookTime: 2 * time.Second,
			CookTimes: map[string]time.Duration{
				"bigmac":  5 * time.Second,
				"cheese":  3 * time.Second,
				"chicken": 4 * time.Second,
				"bulgogi": 6 * time.Second,
			},
		},
		Tracker:  Tracker{Addr: ":4001"},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (App, error) {
	a := Default()
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	if err := a.Validate(); err != nil {
		return App{}, err
	}
	return a, nil
}

var ErrInvalid = errors.New("invalid config")

func (a App) Validate() error {
	switch {
	case a.Kitchen.Workers < 1:
		return fmt.Errorf("%w: kitchen.workers must be >= 1", ErrInvalid)
	case a.Counter.MaxSessions < 1:
		return fmt.Errorf("%w: counter.max_sessions must be >= 1", ErrInvalid)
	case a.Counter.MaxItems < 1:
		return fmt.Errorf("%w: counter.max_items must be >= 1", ErrInvalid)
	case a.Counter.WaitTimeout <= 0:
		return fmt.Errorf("%w: counter.wait_timeout must be positive", ErrInvalid)
	case a.Kitchen.DefaultCookTime < 0:
		return fmt.Errorf("%w: kitchen.default_cook_time must not be negative", ErrInvalid)
	}
	for name, d := range a.Kitchen.CookTimes {
		if d < 0 {
			return fmt.Errorf("%w: kitchen.cook_times.%s must not be negative", ErrInvalid, name)
		}
	}
	if _, err := a.Kitchen.ItemCookTimes(); err != nil {
		return err
	}
	if a.Database.Enabled() && (a.Database.User == "" || a.Database.Name == "") {
		return fmt.Errorf("%w: database config incomplete", ErrInvalid)
	}
	if a.Rabbit.Enabled() && a.Rabbit.User == "" {
		return fmt.Errorf("%w: rabbitmq config incomplete", ErrInvalid)
	}
	return nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

// ItemCookTimes resolves the per-item cook times against the item
// vocabulary.
func (k Kitchen) ItemCookTimes() (map[domain.Item]time.Duration, error) {
	out := make(map[domain.Item]time.Duration, len(k.CookTimes))
	for name, d := range k.CookTimes {
		it, err := domain.ParseItem(name)
		if err != nil {
			return nil, fmt.Errorf("%w: kitchen.cook_times: %w", ErrInvalid, err)
		}
		out[it] = d
	}
	return out, nil
}
