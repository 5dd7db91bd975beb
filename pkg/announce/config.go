package announce

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// Supported announcer types.
	TypeQueue = "queue"
	TypeHTTP  = "http"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderAzure  = "azure"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// configFile represents the structure of the announcers configuration file.
type configFile struct {
	Announcers []AnnouncerConfig `json:"announcers" yaml:"announcers"`
}

// AnnouncerConfig represents a single announcer entry declared in config
// files.
type AnnouncerConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	Queue   *QueueAnnouncerConfig  `json:"queue" yaml:"queue"`
	HTTP    *HTTPAnnouncerConfig   `json:"http" yaml:"http"`
}

// QueueAnnouncerConfig allows selecting a cloud queue provider.
type QueueAnnouncerConfig struct {
	Provider string               `json:"provider" yaml:"provider"`
	AWS      *AWSSQSConfig        `json:"aws" yaml:"aws"`
	SNS      *AWSSNSConfig        `json:"sns" yaml:"sns"`
	Azure    *AzureQueueConfig    `json:"azure" yaml:"azure"`
	GCP      *GCPQueueConfig      `json:"gcp" yaml:"gcp"`
}

// AWSSQSConfig holds AWS SQS specific settings.
type AWSSQSConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSNSConfig holds AWS SNS specific settings.
type AWSSNSConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AzureQueueConfig holds the minimal Service Bus queue settings.
type AzureQueueConfig struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
	QueueName        string `json:"queue" yaml:"queue"`
}

// GCPQueueConfig holds the minimal Pub/Sub topic settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPAnnouncerConfig holds generic HTTP sink settings.
type HTTPAnnouncerConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry materializes announcer definitions loaded from config files.
type ConfigRegistry struct {
	mu         sync.RWMutex
	announcers []AnnouncerConfig
	idx        map[string]AnnouncerConfig
}

// LoadRegistry loads the announcer registry from a YAML/JSON file.
// Environment references inside the file are expanded before decoding.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("announcers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open announcers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read announcers file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	fileReg, err := parseRegistry(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Announcers) == 0 {
		return nil, errors.New("announcers file contains no announcers entries")
	}

	reg := &ConfigRegistry{
		announcers: make([]AnnouncerConfig, len(fileReg.Announcers)),
		idx:        make(map[string]AnnouncerConfig, len(fileReg.Announcers)),
	}

	for i := range fileReg.Announcers {
		cfg := sanitizeConfig(fileReg.Announcers[i])
		if err := validateConfig(cfg); err != nil {
			return nil, fmt.Errorf("announcers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate announcer id %q", cfg.ID)
		}
		reg.announcers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// parseRegistry attempts to decode the announcers file content.
func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("announcers file format not recognized (expected YAML or JSON)")
}

// sanitizeConfig trims and normalizes the announcer config fields.
func sanitizeConfig(cfg AnnouncerConfig) AnnouncerConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.Queue != nil {
		qc := *cfg.Queue
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		if qc.AWS != nil {
			a := *qc.AWS
			a.QueueURL = strings.TrimSpace(a.QueueURL)
			a.Region = strings.TrimSpace(a.Region)
			a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
			a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
			qc.AWS = &a
		}
		if qc.SNS != nil {
			s := *qc.SNS
			s.TopicARN = strings.TrimSpace(s.TopicARN)
			s.Region = strings.TrimSpace(s.Region)
			s.AccessKeyID = strings.TrimSpace(s.AccessKeyID)
			s.SecretAccessKey = strings.TrimSpace(s.SecretAccessKey)
			qc.SNS = &s
		}
		if qc.Azure != nil {
			a := *qc.Azure
			a.ConnectionString = strings.TrimSpace(a.ConnectionString)
			a.QueueName = strings.TrimSpace(a.QueueName)
			qc.Azure = &a
		}
		if qc.GCP != nil {
			g := *qc.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}

	return cfg
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateConfig checks that required fields are present.
func validateConfig(cfg AnnouncerConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for announcer %q", cfg.ID)
	}
	switch cfg.Type {
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for announcer %q", cfg.ID)
		}
		switch cfg.Queue.Provider {
		case QueueProviderAWSSQS:
			return validateSQSConfig(cfg.ID, cfg.Queue.AWS)
		case QueueProviderAWSSNS:
			return validateSNSConfig(cfg.ID, cfg.Queue.SNS)
		case QueueProviderGCP:
			return validateGCPConfig(cfg.ID, cfg.Queue.GCP)
		case QueueProviderAzure:
			return fmt.Errorf("queue provider %q not implemented for announcer %q", cfg.Queue.Provider, cfg.ID)
		default:
			return fmt.Errorf("queue provider %q not supported for announcer %q", cfg.Queue.Provider, cfg.ID)
		}
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for announcer %q", cfg.ID)
		}
		if cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for announcer %q", cfg.ID)
		}
	default:
		return fmt.Errorf("type %q not supported for announcer %q", cfg.Type, cfg.ID)
	}
	return nil
}

func validateSQSConfig(id string, cfg *AWSSQSConfig) error {
	if cfg == nil {
		return fmt.Errorf("sqs config required for announcer %q", id)
	}
	if cfg.QueueURL == "" {
		return fmt.Errorf("sqs.uri is required for announcer %q", id)
	}
	if cfg.Region == "" {
		return fmt.Errorf("sqs.region is required for announcer %q", id)
	}
	if cfg.AccessKeyID == "" {
		return fmt.Errorf("sqs.access_key_id is required for announcer %q", id)
	}
	if cfg.SecretAccessKey == "" {
		return fmt.Errorf("sqs.secret_access_key is required for announcer %q", id)
	}
	return nil
}

func validateSNSConfig(id string, cfg *AWSSNSConfig) error {
	if cfg == nil {
		return fmt.Errorf("sns config required for announcer %q", id)
	}
	if cfg.TopicARN == "" {
		return fmt.Errorf("sns.topic_arn is required for announcer %q", id)
	}
	if cfg.Region == "" {
		return fmt.Errorf("sns.region is required for announcer %q", id)
	}
	if cfg.AccessKeyID == "" {
		return fmt.Errorf("sns.access_key_id is required for announcer %q", id)
	}
	if cfg.SecretAccessKey == "" {
		return fmt.Errorf("sns.secret_access_key is required for announcer %q", id)
	}
	return nil
}

func validateGCPConfig(id string, cfg *GCPQueueConfig) error {
	if cfg == nil {
		return fmt.Errorf("gcp config required for announcer %q", id)
	}
	if cfg.ProjectID == "" {
		return fmt.Errorf("gcp.project_id is required for announcer %q", id)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("gcp.topic is required for announcer %q", id)
	}
	return nil
}

// ByID returns the announcer config by id.
func (r *ConfigRegistry) ByID(id string) (AnnouncerConfig, bool) {
	if r == nil {
		return AnnouncerConfig{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return AnnouncerConfig{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[id]
	return cfg, ok
}

// All returns all configured announcers.
func (r *ConfigRegistry) All() []AnnouncerConfig {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AnnouncerConfig, len(r.announcers))
	copy(out, r.announcers)
	return out
}

// Enabled returns announcers that are enabled.
func (r *ConfigRegistry) Enabled() []AnnouncerConfig {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]AnnouncerConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (cfg AnnouncerConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
