package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// keyFiles locates the snapshot key pair on disk. The public half is a
// plaintext age recipient line. The private half is the X25519 identity
// sealed to the operator's passphrase with age's scrypt recipient and armored.
type keyFiles struct {
	public  string
	private string
}

func (k keyFiles) exist() bool {
	for _, p := range []string{k.public, k.private} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// write stores id as a new key pair, the private half locked with passphrase.
func (k keyFiles) write(id *age.X25519Identity, passphrase string) error {
	lock, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("deriving passphrase key: %w", err)
	}

	var sealed bytes.Buffer
	if err := encryptArmored(&sealed, []byte(id.String()+"\n"), lock); err != nil {
		return fmt.Errorf("locking private key: %w", err)
	}

	for _, p := range []string{k.public, k.private} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}
	if err := os.WriteFile(k.public, []byte(id.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	if err := os.WriteFile(k.private, sealed.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	return nil
}

func (k keyFiles) recipient() (*age.X25519Recipient, error) {
	data, err := os.ReadFile(k.public)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	r, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", k.public, err)
	}
	return r, nil
}

// identity unlocks the private key with passphrase.
func (k keyFiles) identity(passphrase string) (*age.X25519Identity, error) {
	f, err := os.Open(k.private)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	defer f.Close()

	unlock, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving passphrase key: %w", err)
	}
	plain, err := decryptArmored(f, unlock)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key (wrong passphrase?): %w", err)
	}
	id, err := age.ParseX25519Identity(strings.TrimSpace(string(plain)))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return id, nil
}

// encryptArmored writes plain to dst as an ASCII-armored age file.
func encryptArmored(dst io.Writer, plain []byte, to age.Recipient) error {
	aw := armor.NewWriter(dst)
	w, err := age.Encrypt(aw, to)
	if err != nil {
		return err
	}
	if _, err := w.Write(plain); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return aw.Close()
}

func decryptArmored(src io.Reader, id age.Identity) ([]byte, error) {
	r, err := age.Decrypt(armor.NewReader(src), id)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
