package export

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/sadopc/streaknest/internal/habit"
)

const backupVersion = 1

// scrypt cost parameters for deriving the backup key from the PIN.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrDecrypt means the PIN is wrong or the blob was tampered with.
	ErrDecrypt = errors.New("cannot decrypt backup: wrong PIN or corrupt file")
	// ErrUserMismatch means the backup belongs to another username.
	ErrUserMismatch = errors.New("backup belongs to a different user")
	// ErrFormat means the file is not a backup or its habits are malformed.
	ErrFormat = errors.New("invalid backup format")
)

type envelope struct {
	Version  int    `json:"version"`
	Username string `json:"username"`
	Salt     string `json:"salt"`
	Nonce    string `json:"nonce"`
	Data     string `json:"data"`
}

// Seal encrypts the habit array with a key derived from pin. The username is
// bound as associated data, so editing it in the envelope breaks decryption.
func Seal(habits []habit.Habit, username, pin string) ([]byte, error) {
	if habits == nil {
		habits = []habit.Habit{}
	}
	plain, err := json.Marshal(habits)
	if err != nil {
		return nil, fmt.Errorf("marshal habits: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	aead, err := newAEAD(pin, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	env := envelope{
		Version:  backupVersion,
		Username: username,
		Salt:     base64.StdEncoding.EncodeToString(salt),
		Nonce:    base64.StdEncoding.EncodeToString(nonce),
		Data:     base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plain, []byte(username))),
	}
	return json.MarshalIndent(env, "", "  ")
}

// Open decrypts and validates a blob produced by Seal. Nothing is returned
// unless every habit in the blob passes validation.
func Open(blob []byte, username, pin string) ([]habit.Habit, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if env.Version != backupVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, env.Version)
	}
	if username != "" && env.Username != username {
		return nil, ErrUserMismatch
	}

	salt, err1 := base64.StdEncoding.DecodeString(env.Salt)
	nonce, err2 := base64.StdEncoding.DecodeString(env.Nonce)
	sealed, err3 := base64.StdEncoding.DecodeString(env.Data)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	aead, err := newAEAD(pin, salt)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce length", ErrFormat)
	}
	plain, err := aead.Open(nil, nonce, sealed, []byte(env.Username))
	if err != nil {
		return nil, ErrDecrypt
	}
	return decodeStrict(plain)
}

func newAEAD(pin string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(pin), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return aead, nil
}

// WriteBackup seals habits into path.
func WriteBackup(habits []habit.Habit, username, pin, path string) error {
	blob, err := Seal(habits, username, pin)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// ReadBackup opens a backup file written by WriteBackup.
func ReadBackup(path, username, pin string) ([]habit.Habit, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	return Open(blob, username, pin)
}
