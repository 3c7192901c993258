package config

import (
	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

const (
	DefaultLogLevel     = "info"
	DefaultLogEncoder   = "plaintext"
	DefaultOutputDir    = "."
	DefaultOutputName   = "tree.dot"
	DefaultRenderDot    = "dot"
	DefaultRenderViewer = "xdot"
	DefaultWorkers      = 4
)

// Config holds every rbviz setting.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Log     LogConfig    `mapstructure:"log"`
	Output  OutputConfig `mapstructure:"output"`
	Render  RenderConfig `mapstructure:"render"`
	Workers int          `mapstructure:"workers"`
	Watch   bool         `mapstructure:"watch"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

// OutputConfig names where the graphviz file is written. Name is resolved
// beneath Dir.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	Name string `mapstructure:"name"`
}

// RenderConfig holds the external programs the dot file is piped through.
type RenderConfig struct {
	Dot    string `mapstructure:"dot"`
	Viewer string `mapstructure:"viewer"`
	Show   bool   `mapstructure:"show"`
}

func (cfg *Config) Validate() error {
	if _, ok := xlog.ParseLogEncoder(cfg.Log.Encoder); !ok {
		return infra.NewErrorStack("unknown log encoder " + cfg.Log.Encoder)
	}
	if cfg.Workers <= 0 {
		return infra.NewErrorStack("workers must be positive")
	}
	if len(cfg.Output.Name) == 0 {
		return infra.NewErrorStack("empty output name")
	}
	if cfg.Render.Show && (len(cfg.Render.Dot) == 0 || len(cfg.Render.Viewer) == 0) {
		return infra.NewErrorStack("render needs both dot and viewer programs")
	}
	return nil
}

// XLoggerOptions turns the log section into logger options.
func (cfg *Config) XLoggerOptions() []xlog.XLoggerOption {
	enc, _ := xlog.ParseLogEncoder(cfg.Log.Encoder)
	return []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.Log.Level)),
		xlog.WithXLoggerEncoder(enc),
	}
}
