package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers-list/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for talking to the NCBI E-utilities API.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root (default https://eutils.ncbi.nlm.nih.gov/entrez/eutils).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional NCBI API key. With a key the rate limit rises
	// from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email is sent with each request so NCBI can contact the operator.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// Tool identifies this program to NCBI (default "get-papers-list").
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// MaxResults caps the number of PMIDs taken from the search (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PageSize is the esearch retmax per request (default 500, max 10000).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// BatchSize is the number of PMIDs per efetch request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// Concurrency is the number of efetch batches in flight (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// MaxRetries is the retry budget for throttled or unavailable responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputFormat selects how report rows are rendered.
type OutputFormat string

const (
	FormatCSV   OutputFormat = "csv"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Format selects the renderer: csv, table, or json.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// OutputFile is the destination path. Empty means stdout.
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty" mapstructure:"file"`
}

// Config groups the settings for one run.
type Config struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Report ReportConfig `json:"report" yaml:"report" mapstructure:"report"`

	// RegistryFile points at an alternate indicator registry (YAML).
	// Empty selects the built-in registry.
	RegistryFile string `json:"registry_file,omitempty" yaml:"registry_file,omitempty" mapstructure:"registry"`

	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
}
