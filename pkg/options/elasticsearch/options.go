// Package elasticsearch provides Elasticsearch connection options.
package elasticsearch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Environment variables consulted when the matching option is empty.
const (
	CloudIDEnv = "ELASTIC_CLOUD_ID"
	APIKeyEnv  = "ELASTIC_API_KEY"
)

const redacted = "[REDACTED]"

// Options defines configuration options for Elasticsearch.
type Options struct {
	// Addresses are node URLs. Ignored when CloudID is set.
	Addresses []string `json:"addresses" mapstructure:"addresses"`
	// CloudID is an Elastic Cloud id, or a direct http(s) node URL.
	CloudID  string `json:"cloud-id" mapstructure:"cloud-id"`
	APIKey   string `json:"-" mapstructure:"api-key"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"-" mapstructure:"password"`
	// Index holds the condition documents.
	Index string `json:"index" mapstructure:"index"`
	// Seed indexes the condition corpus once the connection is confirmed.
	Seed bool `json:"seed" mapstructure:"seed"`
	// SeedFile replaces the built-in corpus with a JSON array of documents.
	SeedFile string `json:"seed-file" mapstructure:"seed-file"`
	// Timeout bounds each request at the transport level.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Addresses: []string{"http://127.0.0.1:9200"},
		Index:     "healthcare_conditions",
		Seed:      true,
		Timeout:   10 * time.Second,
	}
}

// IsDirectURL reports whether CloudID holds a node URL instead of a cloud id.
func (o *Options) IsDirectURL() bool {
	return strings.HasPrefix(o.CloudID, "http://") || strings.HasPrefix(o.CloudID, "https://")
}

// MarshalJSON redacts credentials.
func (o *Options) MarshalJSON() ([]byte, error) {
	type plain Options
	out := struct {
		*plain
		APIKey   string `json:"api-key,omitempty"`
		Password string `json:"password,omitempty"`
	}{plain: (*plain)(o)}
	if o.APIKey != "" {
		out.APIKey = redacted
	}
	if o.Password != "" {
		out.Password = redacted
	}
	return json.Marshal(out)
}

// String returns a string representation with credentials redacted.
func (o *Options) String() string {
	auth := "none"
	switch {
	case o.APIKey != "":
		auth = "api-key"
	case o.Username != "":
		auth = "basic"
	}
	target := strings.Join(o.Addresses, ",")
	if o.CloudID != "" {
		target = o.CloudID
	}
	return fmt.Sprintf("Elasticsearch{target=%s, index=%s, auth=%s}", target, o.Index, auth)
}

// AddFlags adds flags for Elasticsearch options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "elasticsearch")...)
	fs.StringSliceVar(&o.Addresses, p+"addresses", o.Addresses, "Elasticsearch node addresses.")
	fs.StringVar(&o.CloudID, p+"cloud-id", o.CloudID, "Elastic Cloud id or direct node URL (falls back to $"+CloudIDEnv+").")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "Elasticsearch API key (falls back to $"+APIKeyEnv+").")
	fs.StringVar(&o.Username, p+"username", o.Username, "Elasticsearch basic auth username.")
	fs.StringVar(&o.Password, p+"password", o.Password, "Elasticsearch basic auth password.")
	fs.StringVar(&o.Index, p+"index", o.Index, "Index holding the condition documents.")
	fs.BoolVar(&o.Seed, p+"seed", o.Seed, "Index the condition corpus at startup.")
	fs.StringVar(&o.SeedFile, p+"seed-file", o.SeedFile, "JSON file replacing the built-in condition corpus.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Per-request transport timeout.")
}

// Complete fills credentials from the environment.
func (o *Options) Complete() error {
	if o.CloudID == "" {
		o.CloudID = os.Getenv(CloudIDEnv)
	}
	if o.APIKey == "" {
		o.APIKey = os.Getenv(APIKeyEnv)
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.CloudID == "" && len(o.Addresses) == 0 {
		errs = append(errs, fmt.Errorf("elasticsearch: either addresses or cloud-id is required"))
	}
	if o.Index == "" {
		errs = append(errs, fmt.Errorf("elasticsearch.index cannot be empty"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("elasticsearch.timeout must be positive"))
	}
	if o.Password != "" && o.Username == "" {
		errs = append(errs, fmt.Errorf("elasticsearch.password requires elasticsearch.username"))
	}
	return errs
}
