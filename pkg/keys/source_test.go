package keys

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainsafe/mint-permit-oracle/pkg/config"
)

type fakeAccessor struct {
	payload []byte
	err     error
	names   []string
}

func (f *fakeAccessor) AccessSecret(_ context.Context, name string) ([]byte, error) {
	f.names = append(f.names, name)
	return f.payload, f.err
}

func TestEnvSource(t *testing.T) {
	t.Setenv("TEST_VALIDATOR_PRIVKEY", testPrivKey)

	signer, err := LoadSigner(context.Background(), EnvSource{Var: "TEST_VALIDATOR_PRIVKEY"})
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	if signer.Address().Hex() != testAddress {
		t.Fatalf("expected %s, got %s", testAddress, signer.Address().Hex())
	}
}

func TestEnvSource_Missing(t *testing.T) {
	t.Setenv("TEST_VALIDATOR_PRIVKEY", "")
	if _, err := LoadSigner(context.Background(), EnvSource{Var: "TEST_VALIDATOR_PRIVKEY"}); err == nil {
		t.Fatal("expected error for unset key variable")
	}
}

func TestKeystoreSource(t *testing.T) {
	key, err := ParsePrivateKey(testPrivKey)
	if err != nil {
		t.Fatalf("ParsePrivateKey() error: %v", err)
	}
	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	acct, err := ks.ImportECDSA(key, "correct horse")
	if err != nil {
		t.Fatalf("ImportECDSA() error: %v", err)
	}

	t.Setenv("TEST_KEYSTORE_PASSWORD", "correct horse")
	src := KeystoreSource{Path: acct.URL.Path, PasswordVar: "TEST_KEYSTORE_PASSWORD"}
	signer, err := LoadSigner(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	if signer.Address() != acct.Address {
		t.Fatalf("expected %s, got %s", acct.Address.Hex(), signer.Address().Hex())
	}

	t.Setenv("TEST_KEYSTORE_PASSWORD", "wrong")
	if _, err := LoadSigner(context.Background(), src); err == nil {
		t.Fatal("expected error for wrong keystore password")
	}
}

func TestSeedSource(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	t.Setenv("TEST_VALIDATOR_SEED", "0x"+hex.EncodeToString(seed))

	first, err := LoadSigner(context.Background(), SeedSource{Var: "TEST_VALIDATOR_SEED"})
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	second, err := LoadSigner(context.Background(), SeedSource{Var: "TEST_VALIDATOR_SEED"})
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	if first.Address() != second.Address() {
		t.Fatal("expected deterministic derivation from the same seed")
	}

	other, err := LoadSigner(context.Background(), SeedSource{Var: "TEST_VALIDATOR_SEED", Label: "staging"})
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	if other.Address() == first.Address() {
		t.Fatal("expected a different label to derive a different key")
	}
}

func TestDeriveKey_ShortSeed(t *testing.T) {
	if _, err := DeriveKey(make([]byte, 16), ""); err == nil {
		t.Fatal("expected error for short seed")
	}
}

func TestGCPSource(t *testing.T) {
	fake := &fakeAccessor{payload: []byte(testPrivKey + "\n")}
	src := NewGCPSourceWithClient(fake, "art-project", "validator-key")

	signer, err := LoadSigner(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadSigner() error: %v", err)
	}
	if signer.Address().Hex() != testAddress {
		t.Fatalf("expected %s, got %s", testAddress, signer.Address().Hex())
	}

	want := "projects/art-project/secrets/validator-key/versions/latest"
	if len(fake.names) != 1 || fake.names[0] != want {
		t.Fatalf("expected secret %s to be accessed, got %v", want, fake.names)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestGCPSource_AccessError(t *testing.T) {
	denied := errors.New("permission denied")
	src := NewGCPSourceWithClient(&fakeAccessor{err: denied}, "p", "s")
	if _, err := src.Key(context.Background()); !errors.Is(err, denied) {
		t.Fatalf("expected wrapped access error, got %v", err)
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		cfg  config.SignerConfig
		want Source
	}{
		{cfg: config.SignerConfig{Source: config.SignerSourceEnv, PrivateKeyEnv: "K"}, want: EnvSource{Var: "K"}},
		{cfg: config.SignerConfig{Source: config.SignerSourceSeed, SeedEnv: "S", SeedLabel: "staging"}, want: SeedSource{Var: "S", Label: "staging"}},
		{
			cfg:  config.SignerConfig{Source: config.SignerSourceKeystore, KeystoreFile: "/k.json", KeystorePasswordEnv: "P"},
			want: KeystoreSource{Path: "/k.json", PasswordVar: "P"},
		},
	}
	for _, tc := range tests {
		got, err := NewSource(context.Background(), &tc.cfg)
		if err != nil {
			t.Fatalf("NewSource(%s) error: %v", tc.cfg.Source, err)
		}
		if got != tc.want {
			t.Fatalf("NewSource(%s) = %#v, want %#v", tc.cfg.Source, got, tc.want)
		}
	}

	if _, err := NewSource(context.Background(), &config.SignerConfig{Source: "hsm"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestRecoverAddress_MatchesCryptoPackage(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	s := NewSigner(key)
	digest := common.HexToHash("0x01")
	sig, err := s.SignHash(digest)
	if err != nil {
		t.Fatalf("SignHash() error: %v", err)
	}
	addr, err := RecoverAddress(digest, sig)
	if err != nil {
		t.Fatalf("RecoverAddress() error: %v", err)
	}
	if addr != crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatalf("recovered %s, want %s", addr.Hex(), crypto.PubkeyToAddress(key.PublicKey).Hex())
	}
}
