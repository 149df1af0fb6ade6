package keys

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"

	"github.com/chainsafe/mint-permit-oracle/pkg/config"
)

// Source loads the validator private key
type Source interface {
	Key(ctx context.Context) (*ecdsa.PrivateKey, error)
}

// EnvSource reads a hex private key from an environment variable
type EnvSource struct {
	Var string
}

func (s EnvSource) Key(context.Context) (*ecdsa.PrivateKey, error) {
	raw, err := requireEnv(s.Var)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(raw)
}

// KeystoreSource decrypts a go-ethereum JSON keystore file
type KeystoreSource struct {
	Path        string
	PasswordVar string
}

func (s KeystoreSource) Key(context.Context) (*ecdsa.PrivateKey, error) {
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	// an empty password is valid for a keystore
	password := os.Getenv(s.PasswordVar)
	key, err := keystore.DecryptKey(blob, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return key.PrivateKey, nil
}

// SeedSource derives the key from a hex seed held in an environment variable.
// Intended for development and test deployments.
type SeedSource struct {
	Var   string
	Label string
}

func (s SeedSource) Key(context.Context) (*ecdsa.PrivateKey, error) {
	raw, err := requireEnv(s.Var)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("seed in %s is not hex: %w", s.Var, err)
	}
	return DeriveKey(seed, s.Label)
}

// NewSource returns the key source selected by cfg
func NewSource(ctx context.Context, cfg *config.SignerConfig) (Source, error) {
	switch cfg.Source {
	case config.SignerSourceEnv:
		return EnvSource{Var: cfg.PrivateKeyEnv}, nil
	case config.SignerSourceKeystore:
		return KeystoreSource{Path: cfg.KeystoreFile, PasswordVar: cfg.KeystorePasswordEnv}, nil
	case config.SignerSourceSeed:
		return SeedSource{Var: cfg.SeedEnv, Label: cfg.SeedLabel}, nil
	case config.SignerSourceGCP:
		return NewGCPSource(ctx, &cfg.GCP)
	default:
		return nil, fmt.Errorf("unknown signer source %q", cfg.Source)
	}
}

// LoadSigner loads the key from src and wraps it in a Signer
func LoadSigner(ctx context.Context, src Source) (*Signer, error) {
	key, err := src.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	return NewSigner(key), nil
}

func requireEnv(name string) (string, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return v, nil
}
