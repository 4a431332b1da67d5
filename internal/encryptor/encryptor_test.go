package encryptor

import (
	"bytes"
	"encoding/base64"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T, algorithm, password string) *PBEEncryptor {
	t.Helper()
	enc, err := NewPBEEncryptor(Options{Password: password, Algorithm: algorithm})
	require.NoError(t, err)
	return enc
}

func TestNewPBEEncryptor(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		enc, err := NewPBEEncryptor(Options{Password: "password"})
		require.NoError(t, err)
		assert.Equal(t, DefaultAlgorithm, enc.Algorithm())
		assert.Equal(t, DefaultIterations, enc.iterations)
	})

	t.Run("algorithm names are case-insensitive", func(t *testing.T) {
		enc, err := NewPBEEncryptor(Options{Password: "password", Algorithm: "PBEWithMD5AndDES"})
		require.NoError(t, err)
		assert.Equal(t, AlgorithmMD5DES, enc.Algorithm())
	})

	t.Run("password required", func(t *testing.T) {
		_, err := NewPBEEncryptor(Options{})
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := NewPBEEncryptor(Options{Password: "password", Algorithm: "ROT13"})
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
		assert.Contains(t, err.Error(), "ROT13")
	})
}

func TestPBEEncryptor_RoundTrip(t *testing.T) {
	plaintexts := []string{"", "a", "Mr. Robot", "exactly16bytes!!", strings.Repeat("x", 1000), "pässwörd"}

	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			enc := newTestEncryptor(t, alg, "password")
			for _, p := range plaintexts {
				token, err := enc.Encrypt(p)
				require.NoError(t, err)

				got, err := enc.Decrypt(token)
				require.NoError(t, err)
				assert.Equal(t, p, got)
			}
		})
	}
}

func TestPBEEncryptor_TokenLayout(t *testing.T) {
	enc := newTestEncryptor(t, AlgorithmHMACSHA512AES256, "password")
	token, err := enc.Encrypt("Mr. Robot")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	// salt + iv + one AES block
	assert.Len(t, raw, 16+16+16)

	enc = newTestEncryptor(t, AlgorithmMD5DES, "password")
	token, err = enc.Encrypt("Mr. Robot")
	require.NoError(t, err)

	raw, err = base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	// salt + two DES blocks
	assert.Len(t, raw, 8+16)
}

func TestPBEEncryptor_KnownTokens(t *testing.T) {
	// produced independently with PBKDF2 / iterated MD5 and openssl enc
	tests := []struct {
		algorithm string
		token     string
	}{
		{AlgorithmHMACSHA512AES256, "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8veQ5mfWacgbzk8qlhmqGD"},
		{AlgorithmMD5DES, "4Cx1u1r4XpTsWdUjADzJ17C/VJ59qg1w"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			enc := newTestEncryptor(t, tt.algorithm, "password")
			got, err := enc.Decrypt(tt.token)
			require.NoError(t, err)
			assert.Equal(t, "Mr. Robot", got)

			// reusing the token's salt and iv reproduces it
			raw, err := base64.StdEncoding.DecodeString(tt.token)
			require.NoError(t, err)
			alg := algorithms[tt.algorithm]
			seeded, err := NewPBEEncryptor(Options{
				Password:  "password",
				Algorithm: tt.algorithm,
				Rand:      bytes.NewReader(raw[:alg.saltSize+alg.ivSize]),
			})
			require.NoError(t, err)
			token, err := seeded.Encrypt("Mr. Robot")
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestPBEEncryptor_RandomSalt(t *testing.T) {
	enc := newTestEncryptor(t, DefaultAlgorithm, "password")

	a, err := enc.Encrypt("same")
	require.NoError(t, err)
	b, err := enc.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPBEEncryptor_DeterministicWithFixedRand(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 64)

	a, err := NewPBEEncryptor(Options{Password: "password", Rand: bytes.NewReader(seed)})
	require.NoError(t, err)
	b, err := NewPBEEncryptor(Options{Password: "password", Rand: bytes.NewReader(seed)})
	require.NoError(t, err)

	ta, err := a.Encrypt("value")
	require.NoError(t, err)
	tb, err := b.Encrypt("value")
	require.NoError(t, err)

	assert.Equal(t, ta, tb)
}

func TestPBEEncryptor_RandFailure(t *testing.T) {
	enc, err := NewPBEEncryptor(Options{Password: "password", Rand: bytes.NewReader(nil)})
	require.NoError(t, err)

	_, err = enc.Encrypt("value")
	assert.Error(t, err)
}

func TestPBEEncryptor_WrongPassword(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			token, err := newTestEncryptor(t, alg, "password").Encrypt("Mr. Robot")
			require.NoError(t, err)

			got, err := newTestEncryptor(t, alg, "not-the-password").Decrypt(token)
			if err != nil {
				assert.ErrorIs(t, err, ErrDecryptionFailed)
				return
			}
			// Garbage can occasionally carry valid padding
			assert.NotEqual(t, "Mr. Robot", got)
		})
	}
}

func TestPBEEncryptor_MalformedTokens(t *testing.T) {
	enc := newTestEncryptor(t, DefaultAlgorithm, "password")

	tests := map[string]string{
		"not base64":     "!!!not-base64!!!",
		"empty":          "",
		"header only":    base64.StdEncoding.EncodeToString(make([]byte, 32)),
		"misaligned":     base64.StdEncoding.EncodeToString(make([]byte, 32+5)),
		"truncated salt": base64.StdEncoding.EncodeToString(make([]byte, 10)),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := enc.Decrypt(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestPBEEncryptor_TrimsWhitespace(t *testing.T) {
	enc := newTestEncryptor(t, DefaultAlgorithm, "password")
	token, err := enc.Encrypt("value")
	require.NoError(t, err)

	got, err := enc.Decrypt("  " + token + "\n")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestPBEEncryptor_ConcurrentUse(t *testing.T) {
	enc := newTestEncryptor(t, DefaultAlgorithm, "password")
	token, err := enc.Encrypt("shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := enc.Decrypt(token)
			if err == nil && got != "shared" {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestUnpad(t *testing.T) {
	_, err := unpad([]byte{1, 2, 3, 0}, 4)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = unpad([]byte{1, 2, 3, 5}, 4)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = unpad([]byte{1, 2, 3, 2}, 4)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	out, err := unpad([]byte{1, 2, 2, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, out)

	assert.Equal(t, []byte{1, 2, 2, 2}, pad([]byte{1, 2}, 4))
	assert.Equal(t, []byte{4, 4, 4, 4}, pad(nil, 4))
}
