package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mywio/odyssey-build/pkg/core"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDir     = "public"
	DefaultTemplatePath  = "index.html"
	DefaultPlaceholder   = "ODYSSEY_API_KEY_PLACEHOLDER"
	DefaultSidecarPath   = "clothing-config.json"
	DefaultAssetsDir     = "assets"
	DefaultSecretEnv     = "ODYSSEY_API_KEY"
	DefaultPreviewLen    = 10
	DefaultSecretVersion = "latest"
	DefaultConfigFile    = "build.yaml"

	SourceEnv                 = "env"
	SourceGoogleSecretManager = "google_secret_manager"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved build configuration.
type Config struct {
	OutputDir    string
	TemplatePath string
	Placeholder  string
	SidecarPath  string // Configuration file copied next to the template
	AssetsDir    string // Optional asset tree
	PreviewLen   int
	HooksDir     string // Directory of post-build *.sh hooks
	Secrets      SecretsConfig
	Notify       NotifyConfig
}

// SecretsConfig selects where the API key comes from.
type SecretsConfig struct {
	Source    string `yaml:"source"`
	Env       string `yaml:"env"`
	ProjectID string `yaml:"project_id"`
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
}

// NotifyConfig configures the optional build webhook.
type NotifyConfig struct {
	URL       string
	Subscribe []string
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		OutputDir:    DefaultOutputDir,
		TemplatePath: DefaultTemplatePath,
		Placeholder:  DefaultPlaceholder,
		SidecarPath:  DefaultSidecarPath,
		AssetsDir:    DefaultAssetsDir,
		PreviewLen:   DefaultPreviewLen,
		Secrets: SecretsConfig{
			Source:  SourceEnv,
			Env:     DefaultSecretEnv,
			Version: DefaultSecretVersion,
		},
	}
}

// Load resolves the configuration from the YAML file at path (optional),
// the environment and the defaults. File values override env values.
func Load(path string) (Config, error) {
	fileMap, err := LoadConfigFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config file %s: %w", path, err)
	}
	merged := MergeConfigMap(fileMap, LoadConfigMapFromEnv())
	cfg, err := LoadConfigFromMap(merged)
	if err != nil {
		return Config{}, err
	}
	return MergeConfig(cfg, Default()), nil
}

// Validate reports settings the builder cannot work with.
func (c Config) Validate() error {
	required := map[string]string{
		"output_dir":  c.OutputDir,
		"template":    c.TemplatePath,
		"placeholder": c.Placeholder,
		"sidecar":     c.SidecarPath,
		"assets_dir":  c.AssetsDir,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, key)
		}
	}
	if c.PreviewLen <= 0 {
		return fmt.Errorf("%w: preview_len must be positive, got %d", ErrInvalidConfig, c.PreviewLen)
	}
	switch c.Secrets.Source {
	case SourceEnv:
		if c.Secrets.Env == "" {
			return fmt.Errorf("%w: secrets.env must name an environment variable", ErrInvalidConfig)
		}
	case SourceGoogleSecretManager:
		if c.Secrets.ProjectID == "" || c.Secrets.Name == "" {
			return fmt.Errorf("%w: secrets.project_id and secrets.name are required for %s", ErrInvalidConfig, SourceGoogleSecretManager)
		}
	default:
		return fmt.Errorf("%w: unknown secrets.source %q", ErrInvalidConfig, c.Secrets.Source)
	}
	return nil
}

// ConfigMap is a sectioned configuration map keyed by section name
// ("core", "secrets", "notify").
// Values are YAML-friendly scalars or nested maps/lists.
type ConfigMap map[string]map[string]any

// LoadConfigFile loads a YAML config file from disk.
// Returns an empty map if the file does not exist or is empty.
func LoadConfigFile(path string) (ConfigMap, error) {
	if path == "" {
		return ConfigMap{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ConfigMap{}, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return ConfigMap{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return normalizeConfigMap(raw), nil
}

// LoadConfigMapFromEnv builds a sectioned config map from environment variables.
// Unset variables are left out so that lower layers keep their values.
func LoadConfigMapFromEnv() ConfigMap {
	cfg := ConfigMap{
		"core":    {},
		"secrets": {},
		"notify":  {},
	}
	set := func(section, key, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			cfg[section][key] = v
		}
	}

	set("core", "output_dir", "BUILD_OUTPUT_DIR")
	set("core", "template", "BUILD_TEMPLATE")
	set("core", "placeholder", "BUILD_PLACEHOLDER")
	set("core", "sidecar", "BUILD_SIDECAR")
	set("core", "assets_dir", "BUILD_ASSETS_DIR")
	set("core", "preview_len", "BUILD_PREVIEW_LEN")
	set("core", "hooks_dir", "BUILD_HOOKS_DIR")

	set("secrets", "source", "BUILD_SECRET_SOURCE")
	set("secrets", "env", "BUILD_SECRET_ENV")
	set("secrets", "project_id", "GOOGLE_CLOUD_PROJECT")
	set("secrets", "name", "BUILD_SECRET_NAME")
	set("secrets", "version", "BUILD_SECRET_VERSION")

	set("notify", "url", "NOTIFY_WEBHOOK_URL")
	set("notify", "subscribe", "NOTIFY_WEBHOOK_EVENTS")

	return cfg
}

// LoadConfigFromMap builds a Config from a sectioned map.
// Supported keys (yaml):
//
//	core:    output_dir, template, placeholder, sidecar, assets_dir, preview_len, hooks_dir
//	secrets: source, env, project_id, name, version
//	notify:  url, subscribe
func LoadConfigFromMap(cm ConfigMap) (Config, error) {
	cfg := Config{}

	m := cm["core"]
	if v, ok := getString(m, "output_dir", "output"); ok {
		cfg.OutputDir = v
	}
	if v, ok := getString(m, "template", "template_path"); ok {
		cfg.TemplatePath = v
	}
	if v, ok := getString(m, "placeholder"); ok {
		cfg.Placeholder = v
	}
	if v, ok := getString(m, "sidecar", "config_file"); ok {
		cfg.SidecarPath = v
	}
	if v, ok := getString(m, "assets_dir", "assets"); ok {
		cfg.AssetsDir = v
	}
	if v, ok := getInt(m, "preview_len"); ok {
		cfg.PreviewLen = v
	}
	if v, ok := getString(m, "hooks_dir"); ok {
		cfg.HooksDir = v
	}

	if err := core.DecodeConfigSection(cm["secrets"], &cfg.Secrets); err != nil {
		return Config{}, fmt.Errorf("%w: secrets: %v", ErrInvalidConfig, err)
	}

	n := cm["notify"]
	if v, ok := getString(n, "url"); ok {
		cfg.Notify.URL = v
	}
	if v, ok := getStringSlice(n, "subscribe"); ok {
		cfg.Notify.Subscribe = v
	}

	return cfg, nil
}

// MergeConfig uses primary values when set, otherwise falls back.
func MergeConfig(primary, fallback Config) Config {
	out := primary
	if out.OutputDir == "" {
		out.OutputDir = fallback.OutputDir
	}
	if out.TemplatePath == "" {
		out.TemplatePath = fallback.TemplatePath
	}
	if out.Placeholder == "" {
		out.Placeholder = fallback.Placeholder
	}
	if out.SidecarPath == "" {
		out.SidecarPath = fallback.SidecarPath
	}
	if out.AssetsDir == "" {
		out.AssetsDir = fallback.AssetsDir
	}
	if out.PreviewLen == 0 {
		out.PreviewLen = fallback.PreviewLen
	}
	if out.HooksDir == "" {
		out.HooksDir = fallback.HooksDir
	}
	if out.Secrets.Source == "" {
		out.Secrets.Source = fallback.Secrets.Source
	}
	if out.Secrets.Env == "" {
		out.Secrets.Env = fallback.Secrets.Env
	}
	if out.Secrets.ProjectID == "" {
		out.Secrets.ProjectID = fallback.Secrets.ProjectID
	}
	if out.Secrets.Name == "" {
		out.Secrets.Name = fallback.Secrets.Name
	}
	if out.Secrets.Version == "" {
		out.Secrets.Version = fallback.Secrets.Version
	}
	if out.Notify.URL == "" {
		out.Notify.URL = fallback.Notify.URL
	}
	if len(out.Notify.Subscribe) == 0 {
		out.Notify.Subscribe = fallback.Notify.Subscribe
	}
	return out
}

// MergeConfigMap merges primary over fallback (primary wins).
func MergeConfigMap(primary, fallback ConfigMap) ConfigMap {
	out := cloneConfigMap(fallback)
	for section, vals := range primary {
		if len(vals) == 0 {
			continue
		}
		merged := map[string]any{}
		if existing, ok := out[section]; ok {
			for k, v := range existing {
				merged[k] = v
			}
		}
		for k, v := range vals {
			merged[k] = v
		}
		out[section] = merged
	}
	return out
}

func cloneConfigMap(src ConfigMap) ConfigMap {
	dst := ConfigMap{}
	for section, vals := range src {
		sectionCopy := map[string]any{}
		for k, v := range vals {
			sectionCopy[k] = v
		}
		dst[section] = sectionCopy
	}
	return dst
}

func normalizeConfigMap(raw map[string]any) ConfigMap {
	out := ConfigMap{}
	for key, value := range raw {
		if m := normalizeStringMap(value); m != nil {
			out[key] = m
		}
	}
	return out
}

func normalizeStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := map[string]any{}
		for k, v := range t {
			out[k] = normalizeValue(v)
		}
		return out
	case map[any]any:
		out := map[string]any{}
		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeValue(v)
		}
		return out
	default:
		return nil
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return normalizeStringMap(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, normalizeValue(item))
		}
		return out
	default:
		return v
	}
}

func getString(m map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case string:
				return strings.TrimSpace(t), true
			default:
				return strings.TrimSpace(fmt.Sprint(t)), true
			}
		}
	}
	return "", false
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func getInt(m map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case int:
				return t, true
			case int64:
				return int(t), true
			case float64:
				return int(t), true
			case string:
				n, err := strconv.Atoi(strings.TrimSpace(t))
				if err == nil {
					return n, true
				}
			}
		}
	}
	return 0, false
}

func getStringSlice(m map[string]any, keys ...string) ([]string, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case []any:
				out := make([]string, 0, len(t))
				for _, item := range t {
					out = append(out, strings.TrimSpace(toString(item)))
				}
				return out, true
			case []string:
				return t, true
			case string:
				parts := strings.Split(t, ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				return parts, true
			}
		}
	}
	return nil, false
}
