package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Signer key sources
const (
	SignerSourceEnv      = "env"
	SignerSourceKeystore = "keystore"
	SignerSourceSeed     = "seed"
	SignerSourceGCP      = "gcp"
)

// Allowlist sources
const (
	AllowlistSourceStatic   = "static"
	AllowlistSourcePostgres = "postgres"
)

// Config represents the permit oracle configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Domain     DomainConfig     `yaml:"domain"`
	Signer     SignerConfig     `yaml:"signer"`
	Allowlist  AllowlistConfig  `yaml:"allowlist"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"60s"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// DomainConfig holds the EIP-712 signing domain. Every field must match the
// verifying contract exactly or signatures fail verification on-chain.
type DomainConfig struct {
	Name              string `yaml:"name" default:"ArtChain" validate:"required"`
	Version           string `yaml:"version" default:"1" validate:"required"`
	ChainID           uint64 `yaml:"chain_id" default:"11155111" validate:"required"`
	VerifyingContract string `yaml:"verifying_contract" validate:"required,eth_addr"`
}

// SignerConfig selects where the validator signing key is loaded from
type SignerConfig struct {
	Source              string    `yaml:"source" default:"env" validate:"oneof=env keystore seed gcp"`
	PrivateKeyEnv       string    `yaml:"private_key_env" default:"VALIDATOR_PRIVKEY"`
	KeystoreFile        string    `yaml:"keystore_file" validate:"required_if=Source keystore"`
	KeystorePasswordEnv string    `yaml:"keystore_password_env" default:"VALIDATOR_KEYSTORE_PASSWORD"`
	SeedEnv             string    `yaml:"seed_env" default:"VALIDATOR_SEED"`
	SeedLabel           string    `yaml:"seed_label" default:"validator"`
	GCP                 GCPConfig `yaml:"gcp"`
}

// GCPConfig contains Secret Manager settings for the gcp signer source
type GCPConfig struct {
	ProjectID       string `yaml:"project_id"`
	SecretID        string `yaml:"secret_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// AllowlistConfig contains the initial creator allowlist settings
type AllowlistConfig struct {
	Source      string   `yaml:"source" default:"static" validate:"oneof=static postgres"`
	Creators    []string `yaml:"creators" validate:"dive,eth_addr"`
	CreatorsEnv string   `yaml:"creators_env" default:"ALLOWLIST"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"permit_oracle"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// AdminConfig contains settings for the allowlist administration endpoints
type AdminConfig struct {
	Enabled      bool   `yaml:"enabled"`
	JWTSecretEnv string `yaml:"jwt_secret_env" default:"ADMIN_JWT_SECRET"`
	Issuer       string `yaml:"issuer" default:"mint-permit-oracle"`
}

// Load loads configuration from a YAML file. ${VAR} references are expanded
// from the environment before parsing.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(raw)
}

// Parse parses, defaults and validates raw YAML configuration
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))
	if strings.TrimSpace(expanded) != "" {
		dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Signer.Source == SignerSourceGCP && (cfg.Signer.GCP.ProjectID == "" || cfg.Signer.GCP.SecretID == "") {
		return fmt.Errorf("signer.gcp.project_id and signer.gcp.secret_id are required for the gcp source")
	}
	if cfg.Allowlist.Source == AllowlistSourcePostgres && cfg.Database.User == "" {
		return fmt.Errorf("database.user is required for the postgres allowlist source")
	}
	return nil
}

// VerifyingContractAddress returns the parsed verifying contract address
func (c *DomainConfig) VerifyingContractAddress() common.Address {
	return common.HexToAddress(c.VerifyingContract)
}
