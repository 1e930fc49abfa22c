package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"tasklist/internal/model"
	"tasklist/internal/store"
)

type Config struct {
	// Dir holds the storage database and logs.
	Dir      string
	LogLevel string
	Web      WebConfig
	TUI      TUIConfig

	// File is the config file that was read, if any.
	File string
}

type WebConfig struct {
	Addr string
	// Mode is the gin mode: debug, release or test.
	Mode string
	// Terminal also serves the terminal UI in the browser at /terminal.
	Terminal bool
}

type TUIConfig struct {
	Filter model.Filter
	Sort   model.SortMode
	// Glyphs selects unicode or ascii row markers.
	Glyphs string
}

// Load reads <config dir>/config.yaml (optional) and TASKLIST_* environment
// overrides on top of the defaults.
func Load() (*Config, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("TASKLIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{File: v.ConfigFileUsed()}
	cfg.Dir = strings.TrimSpace(v.GetString("dir"))
	cfg.LogLevel = v.GetString("log_level")
	cfg.Web.Addr = v.GetString("web.addr")
	cfg.Web.Mode = v.GetString("web.mode")
	cfg.Web.Terminal = v.GetBool("web.terminal")
	cfg.TUI.Glyphs = v.GetString("tui.glyphs")

	if cfg.TUI.Filter, err = model.ParseFilter(v.GetString("tui.filter")); err != nil {
		return nil, err
	}
	if cfg.TUI.Sort, err = model.ParseSortMode(v.GetString("tui.sort")); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		cfg.Dir = dir
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("dir", dir)
	v.SetDefault("log_level", "info")
	v.SetDefault("web.addr", "127.0.0.1:3336")
	v.SetDefault("web.mode", "release")
	v.SetDefault("web.terminal", false)
	v.SetDefault("tui.filter", string(model.FilterAll))
	v.SetDefault("tui.sort", string(model.SortManual))
	v.SetDefault("tui.glyphs", "unicode")
}
