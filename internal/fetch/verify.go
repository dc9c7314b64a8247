package fetch

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // ProtonMail's maintained fork
)

// verifySignature checks a detached GPG signature against an armored
// keyring file. Both armored and binary signatures are accepted.
func verifySignature(payloadPath, signaturePath, keyringPath string) error {
	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		return fmt.Errorf("read keyring: %w", err)
	}

	payload, err := os.Open(payloadPath)
	if err != nil {
		return fmt.Errorf("open payload: %w", err)
	}
	defer payload.Close()

	sig, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sig.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, payload, sig, nil); err == nil {
		return nil
	}

	// Retry as a binary (non-armored) signature
	if _, err := payload.Seek(0, 0); err != nil {
		return fmt.Errorf("rewind payload: %w", err)
	}
	if _, err := sig.Seek(0, 0); err != nil {
		return fmt.Errorf("rewind signature: %w", err)
	}

	if _, err := openpgp.CheckDetachedSignature(keyring, payload, sig, nil); err != nil {
		return fmt.Errorf("signature check: %w", err)
	}

	return nil
}
