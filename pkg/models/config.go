package models

// Config holds persisted user defaults
type Config struct {
	OutputDir  string `yaml:"output_dir,omitempty"`
	Repository string `yaml:"repository,omitempty"`
	APIURL     string `yaml:"api_url,omitempty"`
	Proxy      Proxy  `yaml:"proxy,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Proxy holds the persisted part of a proxy configuration.
// The password lives in the OS keyring, never in the file.
type Proxy struct {
	URL      string `yaml:"url,omitempty"`
	Username string `yaml:"username,omitempty"`
}
