package algorithm

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
)

// plainBytes converts a plain SQL value to the bytes that get encrypted.
// Non-string scalars use their canonical text form so that 42 and "42"
// encrypt identically, matching how the value reaches the database.
func plainBytes(v any) []byte {
	switch x := v.(type) {
	case string:
		return []byte(x)
	case []byte:
		return x
	case int:
		return []byte(strconv.Itoa(x))
	case int64:
		return []byte(strconv.FormatInt(x, 10))
	case int32:
		return []byte(strconv.FormatInt(int64(x), 10))
	case uint64:
		return []byte(strconv.FormatUint(x, 10))
	case float64:
		return []byte(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return []byte(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case bool:
		return []byte(strconv.FormatBool(x))
	case fmt.Stringer:
		return []byte(x.String())
	default:
		return []byte(fmt.Sprint(x))
	}
}

// cipherText extracts the textual cipher value handed back by the database.
func cipherText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return "", fmt.Errorf("%w: cipher value of type %T", ErrInvalidFormat, v)
	}
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return b, nil
}

func encodeHex(b []byte) string {
	return hex.EncodeToString(b)
}
