package encryptor

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decrypter turns a ciphertext token back into plaintext.
type Decrypter interface {
	Decrypt(token string) (string, error)
}

// Encrypter produces a ciphertext token for plaintext.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

var (
	ErrPasswordRequired     = errors.New("encryptor password is required")
	ErrUnsupportedAlgorithm = errors.New("unsupported encryption algorithm")
	ErrMalformedToken       = errors.New("malformed encrypted token")
	ErrDecryptionFailed     = errors.New("decryption failed: wrong password or corrupt payload")
)

const DefaultIterations = 1000

// Options configures a PBEEncryptor.
type Options struct {
	Password   string
	Algorithm  string
	Iterations int

	// Rand supplies salts and IVs, crypto/rand when nil
	Rand io.Reader
}

// PBEEncryptor is a password-based encryptor producing base64 tokens. The
// message layout is salt || iv || ciphertext, iv being omitted by algorithms
// that derive it from the password.
type PBEEncryptor struct {
	password   []byte
	algorithm  algorithm
	iterations int
	rand       io.Reader
}

// NewPBEEncryptor validates opts and returns an encryptor safe for
// concurrent use
func NewPBEEncryptor(opts Options) (*PBEEncryptor, error) {
	if opts.Password == "" {
		return nil, ErrPasswordRequired
	}

	name := opts.Algorithm
	if name == "" {
		name = DefaultAlgorithm
	}
	alg, ok := algorithms[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	r := opts.Rand
	if r == nil {
		r = rand.Reader
	}

	return &PBEEncryptor{
		password:   []byte(opts.Password),
		algorithm:  alg,
		iterations: iterations,
		rand:       r,
	}, nil
}

// Algorithm returns the canonical name of the configured algorithm
func (e *PBEEncryptor) Algorithm() string {
	return e.algorithm.name
}

func (e *PBEEncryptor) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, e.algorithm.saltSize)
	if _, err := io.ReadFull(e.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	var iv []byte
	if e.algorithm.ivSize > 0 {
		iv = make([]byte, e.algorithm.ivSize)
		if _, err := io.ReadFull(e.rand, iv); err != nil {
			return "", fmt.Errorf("failed to generate iv: %w", err)
		}
	}

	block, iv, err := e.algorithm.cipher(e.password, salt, iv, e.iterations)
	if err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	message := make([]byte, 0, len(salt)+e.algorithm.ivSize+len(ciphertext))
	message = append(message, salt...)
	if e.algorithm.ivSize > 0 {
		message = append(message, iv...)
	}
	message = append(message, ciphertext...)

	return base64.StdEncoding.EncodeToString(message), nil
}

func (e *PBEEncryptor) Decrypt(token string) (string, error) {
	message, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrMalformedToken, err)
	}

	header := e.algorithm.saltSize + e.algorithm.ivSize
	if len(message) <= header {
		return "", fmt.Errorf("%w: %d bytes is too short", ErrMalformedToken, len(message))
	}

	salt := message[:e.algorithm.saltSize]
	var iv []byte
	if e.algorithm.ivSize > 0 {
		iv = message[e.algorithm.saltSize:header]
	}
	ciphertext := message[header:]

	block, iv, err := e.algorithm.cipher(e.password, salt, iv, e.iterations)
	if err != nil {
		return "", err
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", ErrMalformedToken)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = unpad(plaintext, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// pad applies PKCS#7 padding
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-n], nil
}
