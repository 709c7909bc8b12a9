// Package trust loads the trusted signing certificate for token verification.
package trust

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds configuration for loading the trusted certificate.
// A file path takes precedence over inline PEM when both are set.
type Config struct {
	Inline string `mapstructure:"inline"` // PEM certificate embedded in config
	File   string `mapstructure:"file"`   // Path to a PEM certificate file
}

// ErrNoCertificate is returned when neither an inline certificate nor a
// certificate file is configured.
var ErrNoCertificate = errors.New("no trusted certificate configured")

// Load reads the configured certificate and returns its RSA public key.
func Load(cfg Config) (*rsa.PublicKey, error) {
	pemData, err := readPEM(cfg)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(pemData)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("load certificate: no CERTIFICATE block found")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}

	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("load certificate: unsupported public key type %T (RSA required)", cert.PublicKey)
	}

	return key, nil
}

func readPEM(cfg Config) ([]byte, error) {
	if cfg.File != "" {
		data, err := os.ReadFile(filepath.Clean(cfg.File))
		if err != nil {
			return nil, fmt.Errorf("read certificate file: %w", err)
		}
		return data, nil
	}

	if cfg.Inline != "" {
		return []byte(cfg.Inline), nil
	}

	return nil, ErrNoCertificate
}
