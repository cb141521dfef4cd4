package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the project-level configuration file looked up in the project root.
const FileName = ".flutterkit"

// FileNames are the on-disk names Load recognizes in the project root.
var FileNames = []string{FileName + ".yaml", FileName + ".yml"}

// Config holds all configuration for flutterkit
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Tools    ToolsConfig    `mapstructure:"tools"`
	Flavor   FlavorConfig   `mapstructure:"flavor"`
	Scaffold ScaffoldConfig `mapstructure:"scaffold"`

	// Root is the project root the config was resolved against. Not read from file.
	Root string `mapstructure:"-"`
	// File is the config file that was read, empty when only defaults apply.
	File string `mapstructure:"-"`
}

// ProjectConfig locates the pubspec manifest
type ProjectConfig struct {
	Manifest string `mapstructure:"manifest"`
}

// AssetsConfig controls the asset snapshot
type AssetsConfig struct {
	Dir     string   `mapstructure:"dir"`
	Exclude []string `mapstructure:"exclude"`
}

// WatchConfig controls the asset watcher
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Pattern  string        `mapstructure:"pattern"`
}

// ToolsConfig names the external executables and bounds their runtime
type ToolsConfig struct {
	Flutter   string        `mapstructure:"flutter"`
	Quicktype string        `mapstructure:"quicktype"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FlavorConfig locates the flavorizr file
type FlavorConfig struct {
	File string `mapstructure:"file"`
}

// ScaffoldConfig holds scaffolding defaults
type ScaffoldConfig struct {
	ClassDir     string `mapstructure:"class_dir"`
	PageTemplate string `mapstructure:"page_template"`
}

var defaultConfig = Config{
	Project: ProjectConfig{Manifest: "pubspec.yaml"},
	Assets:  AssetsConfig{Dir: "assets", Exclude: []string{}},
	Watch: WatchConfig{
		Debounce: 3 * time.Second,
	},
	Tools: ToolsConfig{
		Flutter:   "flutter",
		Quicktype: "quicktype",
		Timeout:   10 * time.Minute,
	},
	Flavor:   FlavorConfig{File: "flavorizr.yaml"},
	Scaffold: ScaffoldConfig{ClassDir: "lib", PageTemplate: "stateless"},
}

// Default returns a copy of the built-in configuration rooted at root.
func Default(root string) *Config {
	c := defaultConfig
	c.Assets.Exclude = append([]string{}, defaultConfig.Assets.Exclude...)
	c.Root = root
	return &c
}

// Load resolves configuration for the project at root: defaults, then
// $HOME/.flutterkit.yaml or <root>/.flutterkit.yaml, then FLUTTERKIT_* env vars.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("project.manifest", defaultConfig.Project.Manifest)
	v.SetDefault("assets.dir", defaultConfig.Assets.Dir)
	v.SetDefault("assets.exclude", defaultConfig.Assets.Exclude)
	v.SetDefault("watch.debounce", defaultConfig.Watch.Debounce)
	v.SetDefault("watch.pattern", "")
	v.SetDefault("tools.flutter", defaultConfig.Tools.Flutter)
	v.SetDefault("tools.quicktype", defaultConfig.Tools.Quicktype)
	v.SetDefault("tools.timeout", defaultConfig.Tools.Timeout)
	v.SetDefault("flavor.file", defaultConfig.Flavor.File)
	v.SetDefault("scaffold.class_dir", defaultConfig.Scaffold.ClassDir)
	v.SetDefault("scaffold.page_template", defaultConfig.Scaffold.PageTemplate)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if root != "" {
		v.AddConfigPath(root)
	}
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("FLUTTERKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		data, err := os.ReadFile(filepath.Clean(used))
		if err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", used, err)
		}
		if err := ValidateConfig(data); err != nil {
			return nil, fmt.Errorf("%s: %w", used, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.Root = root
	config.File = v.ConfigFileUsed()

	if config.Watch.Debounce <= 0 {
		config.Watch.Debounce = defaultConfig.Watch.Debounce
	}

	return &config, nil
}

// ManifestPath returns the absolute manifest path.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Project.Manifest)
}

// AssetsPath returns the absolute assets directory.
func (c *Config) AssetsPath() string {
	return c.resolve(c.Assets.Dir)
}

// FlavorPath returns the absolute flavorizr file path.
func (c *Config) FlavorPath() string {
	return c.resolve(c.Flavor.File)
}

// AssetPrefix is the manifest-facing prefix for asset entries, always slash separated.
func (c *Config) AssetPrefix() string {
	return strings.TrimSuffix(filepath.ToSlash(filepath.Clean(c.Assets.Dir)), "/")
}

// WatchPattern returns the glob the asset watcher filters events with. It is
// relative to Root unless the assets directory lies outside it, in which case
// it is absolute. Without watch.pattern it covers the assets directory.
func (c *Config) WatchPattern() string {
	if c.Watch.Pattern != "" {
		return filepath.ToSlash(c.Watch.Pattern)
	}
	dir := filepath.ToSlash(c.AssetsPath())
	if rel, err := filepath.Rel(c.Root, c.AssetsPath()); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		dir = filepath.ToSlash(rel)
	}
	if dir == "." {
		return "**"
	}
	return dir + "/**"
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
