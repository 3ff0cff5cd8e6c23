// Package config loads the service configuration from a yaml file with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultStateTTL           = 10 * time.Minute
	defaultSweepInterval      = 10 * time.Minute
	defaultSessionCookie      = "waitlist.sid"
	defaultRedirectPath       = "/waitlist"
	defaultMaxPostLength      = 1200
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	LinkedIn LinkedInConfig `json:"linkedin" yaml:"linkedin"`

	Sheets SheetsConfig `json:"sheets" yaml:"sheets"`

	Session SessionConfig `json:"session" yaml:"session"`

	Waitlist WaitlistConfig `json:"waitlist" yaml:"waitlist"`
}

// LinkedInConfig holds the OAuth application registration and the image
// published alongside amplification posts.
type LinkedInConfig struct {
	ClientID     string `json:"clientId" yaml:"clientId"`
	ClientSecret string `json:"clientSecret" yaml:"clientSecret"`
	RedirectURL  string `json:"redirectUrl" yaml:"redirectUrl"`

	// Scopes requested on the authorization redirect. Defaults to the
	// minimal set needed to identify the member and post on their behalf.
	Scopes []string `json:"scopes" yaml:"scopes"`

	// ImageSource is either a local file path or an HTTP(S) URL; some
	// deployments have no durable filesystem across the OAuth round trip.
	ImageSource string `json:"imageSource" yaml:"imageSource"`

	// DefaultPostText is used when a submission carries no edited content.
	DefaultPostText string `json:"defaultPostText" yaml:"defaultPostText"`
}

// SheetsConfig holds the ledger spreadsheet identity and the Google
// service-account credentials used to write to it.
type SheetsConfig struct {
	SpreadsheetID string `json:"spreadsheetId" yaml:"spreadsheetId"`
	SheetName     string `json:"sheetName" yaml:"sheetName"`

	ProjectID   string `json:"projectId" yaml:"projectId"`
	ClientEmail string `json:"clientEmail" yaml:"clientEmail"`
	PrivateKey  string `json:"privateKey" yaml:"privateKey"`
}

// SessionConfig controls the session cookie and the authorization-state
// lifetime across the provider redirect.
type SessionConfig struct {
	CookieName    string        `json:"cookieName" yaml:"cookieName"`
	Secret        string        `json:"secret" yaml:"secret"`
	StateTTL      time.Duration `json:"stateTtl" yaml:"stateTtl"`
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval"`
}

// WaitlistConfig controls the user-facing side of the flow.
type WaitlistConfig struct {
	// RedirectPath is the page the browser is sent back to after the
	// amplification flow finishes, successfully or not.
	RedirectPath string `json:"redirectPath" yaml:"redirectPath"`

	MaxPostLength int `json:"maxPostLength" yaml:"maxPostLength"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: LINKEDIN_CLIENTID -> linkedin.clientId (not linkedin.clientid)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if len(cfg.LinkedIn.Scopes) == 0 {
		cfg.LinkedIn.Scopes = []string{"openid", "profile", "email", "w_member_social"}
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = defaultSessionCookie
	}
	if cfg.Session.StateTTL <= 0 {
		cfg.Session.StateTTL = defaultStateTTL
	}
	if cfg.Session.SweepInterval <= 0 {
		cfg.Session.SweepInterval = defaultSweepInterval
	}
	if cfg.Waitlist.RedirectPath == "" {
		cfg.Waitlist.RedirectPath = defaultRedirectPath
	}
	if cfg.Waitlist.MaxPostLength <= 0 {
		cfg.Waitlist.MaxPostLength = defaultMaxPostLength
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Sheet1"
	}
}

// Validate reports missing credentials the service cannot run without.
// Called once at startup; a failure here is fatal by design.
func (cfg *Config) Validate() error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"linkedin.clientId", cfg.LinkedIn.ClientID},
		{"linkedin.clientSecret", cfg.LinkedIn.ClientSecret},
		{"linkedin.redirectUrl", cfg.LinkedIn.RedirectURL},
		{"sheets.spreadsheetId", cfg.Sheets.SpreadsheetID},
		{"sheets.sheetName", cfg.Sheets.SheetName},
		{"sheets.projectId", cfg.Sheets.ProjectID},
		{"sheets.clientEmail", cfg.Sheets.ClientEmail},
		{"sheets.privateKey", cfg.Sheets.PrivateKey},
		{"session.secret", cfg.Session.Secret},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
