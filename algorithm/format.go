package algorithm

// SECRETBOX cipher value layout (base64 encoded when stored):
//
//	[flag:1][keyIDLen:1][keyID:n][nonce:24][secretbox(inner)]
//
// flag: 0x00 plain, 0x01 zstd, 0x02 snappy (reserved).
//
// inner, authenticated by secretbox:
//
//	[keyIDLen:1][keyID:n][payload]
const (
	flagNoCompression byte = 0x00
	flagZstd          byte = 0x01
	flagSnappy        byte = 0x02

	nonceSize = 24
)

// envelope is the parsed outer layout of a SECRETBOX cipher value.
type envelope struct {
	flag  byte
	keyID string
	nonce [nonceSize]byte
	box   []byte
}

func (e envelope) marshal() []byte {
	out := make([]byte, 0, 2+len(e.keyID)+nonceSize+len(e.box))
	out = append(out, e.flag, byte(len(e.keyID)))
	out = append(out, e.keyID...)
	out = append(out, e.nonce[:]...)
	return append(out, e.box...)
}

func parseEnvelope(data []byte) (envelope, error) {
	var e envelope
	// flag + keyIDLen + at least one keyID byte + nonce + at least one box byte
	if len(data) < 3+nonceSize+1 {
		return e, ErrInvalidFormat
	}
	e.flag = data[0]
	n := int(data[1])
	if n == 0 {
		return e, ErrInvalidFormat
	}
	header := 2 + n + nonceSize
	if len(data) < header+1 {
		return e, ErrInvalidFormat
	}
	e.keyID = string(data[2 : 2+n])
	copy(e.nonce[:], data[2+n:header])
	e.box = data[header:]
	return e, nil
}

// bindKeyID prepends the key id so that secretbox authenticates it.
func bindKeyID(keyID string, payload []byte) []byte {
	out := make([]byte, 0, 1+len(keyID)+len(payload))
	out = append(out, byte(len(keyID)))
	out = append(out, keyID...)
	return append(out, payload...)
}

func unbindKeyID(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, ErrInvalidFormat
	}
	n := int(data[0])
	if n == 0 || len(data) < 1+n {
		return "", nil, ErrInvalidFormat
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}
