package encryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"crypto/sha512"
	"fmt"
	"sort"

	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgorithmHMACSHA512AES256 = "PBEWITHHMACSHA512ANDAES_256"
	AlgorithmMD5DES           = "PBEWITHMD5ANDDES"

	DefaultAlgorithm = AlgorithmHMACSHA512AES256
)

// algorithm derives a block cipher and IV from a password and salt. An iv
// passed in is used as is; algorithms with ivSize 0 derive theirs.
type algorithm struct {
	name     string
	saltSize int
	ivSize   int
	cipher   func(password, salt, iv []byte, iterations int) (cipher.Block, []byte, error)
}

var algorithms = map[string]algorithm{
	AlgorithmHMACSHA512AES256: {
		name:     AlgorithmHMACSHA512AES256,
		saltSize: 16,
		ivSize:   aes.BlockSize,
		cipher:   hmacSHA512AES256,
	},
	AlgorithmMD5DES: {
		name:     AlgorithmMD5DES,
		saltSize: 8,
		ivSize:   0,
		cipher:   md5DES,
	},
}

// Algorithms lists the supported algorithm names
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func hmacSHA512AES256(password, salt, iv []byte, iterations int) (cipher.Block, []byte, error) {
	key := pbkdf2.Key(password, salt, iterations, 32, sha512.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, iv, nil
}

// md5DES is PKCS#5 v1.5 PBKDF1 with MD5: key and IV are the two halves of
// the iterated digest.
func md5DES(password, salt, _ []byte, iterations int) (cipher.Block, []byte, error) {
	h := md5.New()
	h.Write(password)
	h.Write(salt)
	derived := h.Sum(nil)
	for i := 1; i < iterations; i++ {
		sum := md5.Sum(derived)
		derived = sum[:]
	}

	block, err := des.NewCipher(derived[:8])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, derived[8:16], nil
}
