package keys

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"

	"github.com/chainsafe/mint-permit-oracle/pkg/config"
)

// SecretAccessor fetches the payload of a Secret Manager secret version
type SecretAccessor interface {
	AccessSecret(ctx context.Context, name string) ([]byte, error)
}

// GCPSource reads a hex private key from GCP Secret Manager
type GCPSource struct {
	client    SecretAccessor
	projectID string
	secretID  string
}

// NewGCPSource creates a GCPSource backed by a Secret Manager client. The
// client uses application default credentials unless a credentials file is
// configured.
func NewGCPSource(ctx context.Context, cfg *config.GCPConfig) (*GCPSource, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	return NewGCPSourceWithClient(smAccessor{client: client}, cfg.ProjectID, cfg.SecretID), nil
}

// NewGCPSourceWithClient creates a GCPSource over an existing accessor
func NewGCPSourceWithClient(client SecretAccessor, projectID, secretID string) *GCPSource {
	return &GCPSource{client: client, projectID: projectID, secretID: secretID}
}

// SecretName returns the resource name of the latest secret version
func (s *GCPSource) SecretName() string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, s.secretID)
}

func (s *GCPSource) Key(ctx context.Context) (*ecdsa.PrivateKey, error) {
	name := s.SecretName()
	payload, err := s.client.AccessSecret(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("access secret version %s: %w", name, err)
	}
	return ParsePrivateKey(string(payload))
}

// Close releases the underlying client when it holds a connection
func (s *GCPSource) Close() error {
	if c, ok := s.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type smAccessor struct {
	client *secretmanager.Client
}

func (a smAccessor) AccessSecret(ctx context.Context, name string) ([]byte, error) {
	res, err := a.client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}
	if res.GetPayload() == nil {
		return nil, errors.New("empty secret payload")
	}
	return res.GetPayload().GetData(), nil
}

func (a smAccessor) Close() error {
	return a.client.Close()
}
