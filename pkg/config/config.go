package config

import (
	"errors"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conventional-github-releaser/pkg/vcs"
)

const DefaultPath = ".conventional-github-releaser.yml"

type Config struct {
	Preset         string           `yaml:"preset"`
	ReleaseCount   int              `yaml:"release_count"`
	Repo           string           `yaml:"repo"`
	Host           string           `yaml:"host"`
	HeaderTemplate string           `yaml:"header_template"`
	Draft          bool             `yaml:"draft"`
	TagSource      string           `yaml:"tag_source"`
	Range          vcs.RangeOptions `yaml:"range"`
	Pkg            string           `yaml:"pkg"`
	Token          string           `yaml:"-"`
	Verbose        bool             `yaml:"-"`
	Output         string           `yaml:"-"`
	Dir            string           `yaml:"-"`
}

func Default() *Config {
	return &Config{
		ReleaseCount: 1,
		TagSource:    "local",
		Output:       "table",
		Dir:          ".",
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// reported with an error wrapping os.ErrNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsNotExist reports whether a Load error means the file is simply absent.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// MergeEnv fills the token, repo and host from the environment. Tokens are
// looked up in CONVENTIONAL_GITHUB_RELEASER_TOKEN, then GITHUB_TOKEN.
func MergeEnv(cfg *Config) *Config {
	v := viper.New()
	_ = v.BindEnv("token", "CONVENTIONAL_GITHUB_RELEASER_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("repo", "GITHUB_REPOSITORY")
	_ = v.BindEnv("host", "GITHUB_HOST")

	if s := v.GetString("token"); s != "" {
		cfg.Token = s
	}
	if s := v.GetString("repo"); s != "" {
		cfg.Repo = s
	}
	if s := v.GetString("host"); s != "" {
		cfg.Host = s
	}
	return cfg
}

// MergeFlags applies flags the user set explicitly, so flag defaults never
// override values from the file or the environment.
func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if v, err := flags.GetString("preset"); err == nil && changed("preset") {
		cfg.Preset = v
	}
	if v, err := flags.GetInt("release-count"); err == nil && changed("release-count") {
		cfg.ReleaseCount = v
	}
	if v, err := flags.GetString("repo"); err == nil && changed("repo") {
		cfg.Repo = v
	}
	if v, err := flags.GetString("host"); err == nil && changed("host") {
		cfg.Host = v
	}
	if v, err := flags.GetString("header-template"); err == nil && changed("header-template") {
		cfg.HeaderTemplate = v
	}
	if v, err := flags.GetBool("draft"); err == nil && changed("draft") {
		cfg.Draft = v
	}
	if v, err := flags.GetString("tag-source"); err == nil && changed("tag-source") {
		cfg.TagSource = v
	}
	if v, err := flags.GetString("range-path"); err == nil && changed("range-path") {
		cfg.Range.Path = v
	}
	if v, err := flags.GetString("merges"); err == nil && changed("merges") {
		cfg.Range.Merges = v
	}
	if v, err := flags.GetString("pkg"); err == nil && changed("pkg") {
		cfg.Pkg = v
	}
	if v, err := flags.GetString("token"); err == nil && changed("token") {
		cfg.Token = v
	}
	if v, err := flags.GetBool("verbose"); err == nil {
		cfg.Verbose = v
	}
	if v, err := flags.GetString("output"); err == nil && v != "" {
		cfg.Output = v
	}
	if v, err := flags.GetString("dir"); err == nil && v != "" {
		cfg.Dir = v
	}
	return cfg
}
