package algorithm

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	defaultCompressionThreshold = 1024 // 1KB
	minCompressionSavings       = 0.10

	// maxDecompressedSize bounds decompression so a small payload cannot
	// expand to consume all available memory.
	maxDecompressedSize = 64 * 1024 * 1024
)

// zstd encoders and decoders are safe for concurrent EncodeAll/DecodeAll,
// so one pair serves every SECRETBOX algorithm in the process.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdOnce    sync.Once
	zstdErr     error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecompressedSize))
		if zstdErr != nil {
			zstdEncoder.Close()
			zstdEncoder = nil
		}
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// compression decides whether a payload is worth compressing.
type compression struct {
	threshold int
	disabled  bool
}

// apply compresses data when it is large enough and zstd saves at least 10%.
// It returns the payload and the flag byte recorded in the cipher value.
func (c compression) apply(data []byte) ([]byte, byte) {
	if c.disabled || len(data) < c.threshold {
		return data, flagNoCompression
	}
	encoder, _, err := zstdCodec()
	if err != nil {
		return data, flagNoCompression
	}
	compressed := encoder.EncodeAll(data, nil)
	savings := float64(len(data)-len(compressed)) / float64(len(data))
	if savings < minCompressionSavings {
		return data, flagNoCompression
	}
	return compressed, flagZstd
}

// restore reverses apply according to the flag byte.
func restore(data []byte, flag byte) ([]byte, error) {
	switch flag {
	case flagNoCompression:
		return data, nil
	case flagZstd:
		_, decoder, err := zstdCodec()
		if err != nil {
			return nil, err
		}
		out, err := decoder.DecodeAll(data, nil)
		if err != nil || len(out) > maxDecompressedSize {
			return nil, ErrDecompressionFailed
		}
		return out, nil
	case flagSnappy:
		// reserved in the format, never written
		return nil, ErrUnsupportedCompression
	default:
		return nil, ErrInvalidFormat
	}
}
