package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// EnvPrefix prefixes environment overrides, e.g. GOALGRAPH_LAYOUT_BASERADIUS.
const EnvPrefix = "GOALGRAPH"

// Config holds settings loaded from goalgraph.yml plus environment overrides.
type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout"`
	Weights WeightsConfig `mapstructure:"weights"`
	Store   StoreConfig   `mapstructure:"store"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// LayoutConfig mirrors graph.LayoutOptions.
type LayoutConfig struct {
	BaseRadius  float64 `mapstructure:"baseRadius"`
	WindowStart float64 `mapstructure:"windowStart"`
	WindowEnd   float64 `mapstructure:"windowEnd"`
	MaxDepth    int     `mapstructure:"maxDepth"`
	RingFactor  float64 `mapstructure:"ringFactor"`
}

// WeightsConfig selects the all-zero weight policy: "leave" or "equal".
type WeightsConfig struct {
	ZeroSumPolicy string `mapstructure:"zeroSumPolicy"`
}

// StoreConfig locates the persistent graph database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// MCPConfig configures the MCP server surface. An empty Addr means stdio.
type MCPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads goalgraph.yml or goalgraph.yaml from dir. Defaults are returned
// (not an error) if neither file exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"goalgraph.yml", "goalgraph.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return LoadFile("")
}

// LoadFile reads the config file at path. An empty path loads defaults and
// environment overrides only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("layout.baseRadius", graph.DefaultBaseRadius)
	v.SetDefault("layout.windowStart", 0.0)
	v.SetDefault("layout.windowEnd", 2*math.Pi)
	v.SetDefault("layout.maxDepth", graph.DefaultMaxDepth)
	v.SetDefault("layout.ringFactor", graph.DefaultRingFactor)
	v.SetDefault("weights.zeroSumPolicy", string(graph.ZeroSumLeave))
	v.SetDefault("store.path", filepath.Join(".goalgraph", "graph"))
	v.SetDefault("mcp.addr", "")
}

// Validate rejects values the engine cannot interpret.
func (c *Config) Validate() error {
	switch graph.ZeroSumPolicy(c.Weights.ZeroSumPolicy) {
	case graph.ZeroSumLeave, graph.ZeroSumEqual:
	default:
		return fmt.Errorf("weights.zeroSumPolicy: unknown policy %q (want leave or equal)", c.Weights.ZeroSumPolicy)
	}
	if c.Layout.MaxDepth < 0 {
		return fmt.Errorf("layout.maxDepth: must not be negative, got %d", c.Layout.MaxDepth)
	}
	return nil
}

// LayoutOptions converts the layout section to engine options.
func (c *Config) LayoutOptions() graph.LayoutOptions {
	return graph.LayoutOptions{
		BaseRadius: c.Layout.BaseRadius,
		Window:     graph.AngleWindow{Start: c.Layout.WindowStart, End: c.Layout.WindowEnd},
		MaxDepth:   c.Layout.MaxDepth,
		RingFactor: c.Layout.RingFactor,
	}
}

// ZeroSumPolicy returns the configured all-zero weight policy.
func (c *Config) ZeroSumPolicy() graph.ZeroSumPolicy {
	return graph.ZeroSumPolicy(c.Weights.ZeroSumPolicy)
}
