package storelib

import (
	"crypto/tls"
	"encoding/pem"
	"errors"
	"os"

	"golang.org/x/crypto/pkcs12"
)

var ErrEmptyCertPath = errors.New("certificate path cannot be empty")

// LoadIdentity loads a client identity certificate from a file. PEM files
// must carry both the certificate and its private key; anything else is
// treated as PKCS#12 (.pfx/.p12) and decoded with the given password.
func LoadIdentity(certPath, password string) (*tls.Certificate, error) {
	if certPath == "" {
		return nil, ErrEmptyCertPath
	}
	data, err := os.ReadFile(certPath)
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(data); block != nil {
		cert, err := tls.X509KeyPair(data, data)
		if err != nil {
			return nil, err
		}
		return &cert, nil
	}
	key, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, err
	}
	return &tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}
