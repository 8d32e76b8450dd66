package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"tessdl/internal/proxy"
	"tessdl/pkg/models"
)

// Viper keys shared by flags, environment and the config file
const (
	KeyOutputDir     = "output_dir"
	KeyRepository    = "repository"
	KeyTag           = "tag"
	KeyAPIURL        = "api_url"
	KeyProxyURL      = "proxy.url"
	KeyProxyUsername = "proxy.username"
	KeyLogLevel      = "log_level"
	KeyVerbose       = "verbose"
)

// EnvOutputDir is the Tesseract variable that points at the tessdata directory
const EnvOutputDir = "TESSDATA_PREFIX"

// DefaultAPIURL is the GitHub REST API root
const DefaultAPIURL = "https://api.github.com"

// Settings is the effective configuration for one invocation
type Settings struct {
	OutputDir  string
	Repository string
	Tag        string
	APIURL     string
	Proxy      string
	ProxyUser  string
	LogLevel   string
	Verbose    bool
}

// Setup registers defaults and environment bindings on v.
// Flags are bound separately by the command that owns them.
func Setup(v *viper.Viper) {
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyRepository, string(models.DefaultRepository))
	v.SetDefault(KeyTag, models.LatestTag)
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyLogLevel, "warn")

	v.SetEnvPrefix("TESSDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyOutputDir, EnvOutputDir, "TESSDL_OUTPUT_DIR")
}

// ReadConfigFile loads cfgFile, or config.yaml from the config directory.
// A missing file is not an error, so --save-config can create it.
func ReadConfigFile(v *viper.Viper, cfgFile string) error {
	v.SetConfigType("yaml")
	if cfgFile == "" {
		v.SetConfigFile(GetConfigFile())
		if !Exists() {
			return nil
		}
		return v.ReadInConfig()
	}

	v.SetConfigFile(cfgFile)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return nil
	}
	return v.ReadInConfig()
}

// Resolve reads the effective settings out of v
func Resolve(v *viper.Viper) Settings {
	return Settings{
		OutputDir:  v.GetString(KeyOutputDir),
		Repository: v.GetString(KeyRepository),
		Tag:        v.GetString(KeyTag),
		APIURL:     strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		Proxy:      v.GetString(KeyProxyURL),
		ProxyUser:  v.GetString(KeyProxyUsername),
		LogLevel:   v.GetString(KeyLogLevel),
		Verbose:    v.GetBool(KeyVerbose),
	}
}

// ToConfig converts settings into the persisted form. The proxy is taken from
// its parsed form so only the address and the user name are kept; the
// password belongs in the keyring.
func (s Settings) ToConfig(p *proxy.Config) *models.Config {
	cfg := &models.Config{
		Repository: s.Repository,
	}
	if p.Enabled() {
		cfg.Proxy = models.Proxy{
			URL:      p.Address(),
			Username: p.Username,
		}
	}
	if s.OutputDir != "." {
		cfg.OutputDir = s.OutputDir
	}
	if s.APIURL != DefaultAPIURL {
		cfg.APIURL = s.APIURL
	}
	if s.LogLevel != "warn" {
		cfg.LogLevel = s.LogLevel
	}
	return cfg
}
