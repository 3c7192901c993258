package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/benz9527/xrbtree/lib/infra"
)

const (
	configName      = ".rbviz"
	configType      = "yaml"
	envPrefix       = "RBVIZ"
	envKeySeparator = "_"
)

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-encoder": "log.encoder",
	"output-dir":  "output.dir",
	"output":      "output.name",
	"dot":         "render.dot",
	"viewer":      "render.viewer",
	"show":        "render.show",
	"workers":     "workers",
	"watch":       "watch",
}

// LoadConfig resolves defaults, then the config file, then RBVIZ_* env,
// then any flag of flags that was set explicitly.
// If configPath is empty, .rbviz.yaml is searched in CWD and $HOME and a
// missing file is not an error.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, infra.WrapErrorStack(err, "read config")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := viperCfg.BindPFlag(key, f); err != nil {
					return nil, infra.WrapErrorStack(err, "bind flag "+name)
				}
			}
		}
	}

	var cfg Config
	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, infra.WrapErrorStack(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, infra.WrapErrorStack(err, "validate config")
	}
	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("log.level", DefaultLogLevel)
	viperCfg.SetDefault("log.encoder", DefaultLogEncoder)

	viperCfg.SetDefault("output.dir", DefaultOutputDir)
	viperCfg.SetDefault("output.name", DefaultOutputName)

	viperCfg.SetDefault("render.dot", DefaultRenderDot)
	viperCfg.SetDefault("render.viewer", DefaultRenderViewer)
	viperCfg.SetDefault("render.show", false)

	viperCfg.SetDefault("workers", DefaultWorkers)
	viperCfg.SetDefault("watch", false)
}
