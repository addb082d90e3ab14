package algorithm

import (
	"strconv"
	"strings"
	"testing"
)

func benchAlgorithm(b *testing.B, typ string, props Props) Algorithm {
	b.Helper()
	a, err := New(typ, props)
	if err != nil {
		b.Fatal(err)
	}
	return a
}

func BenchmarkEncrypt(b *testing.B) {
	algorithms := map[string]Algorithm{
		"AES":       benchAlgorithm(b, TypeAES, Props{aesKeyProp: "bench"}),
		"SECRETBOX": benchAlgorithm(b, TypeSecretbox, secretboxProps("v1")),
	}
	for _, size := range []int{16, 1024, 16 * 1024} {
		data := strings.Repeat("x", size)
		for _, name := range sortedMapKeys(algorithms) {
			a := algorithms[name]
			b.Run(name+"/"+sizeLabel(size), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_, _ = a.Encrypt(data)
				}
			})
		}
	}
}

func BenchmarkDecrypt_Secretbox(b *testing.B) {
	a := benchAlgorithm(b, TypeSecretbox, secretboxProps("v1"))
	c, err := a.Encrypt(strings.Repeat("x", 1024))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = a.Decrypt(c)
	}
}

func BenchmarkDigest(b *testing.B) {
	for _, typ := range []string{TypeHMACSHA256, TypeBLAKE3} {
		a, err := NewAssisted(typ, Props{hmacKeyProp: "bench"})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(typ, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = a.Digest("alice@example.com")
			}
		})
	}
}

func sizeLabel(n int) string {
	if n >= 1024 {
		return strconv.Itoa(n/1024) + "KB"
	}
	return strconv.Itoa(n) + "B"
}
