package history

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstd 프레임 매직 넘버. JSON 본문은 '{' 로 시작하므로 겹치지 않는다.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	initOnce    sync.Once
	errInit     error
)

func initZstd() error {
	initOnce.Do(func() {
		var err error
		zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			errInit = fmt.Errorf("create zstd encoder: %w", err)
			return
		}
		zstdDecoder, err = zstd.NewReader(nil)
		if err != nil {
			errInit = fmt.Errorf("create zstd decoder: %w", err)
		}
	})
	return errInit
}

func compressZstd(src []byte) ([]byte, error) {
	if err := initZstd(); err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(src, make([]byte, 0, len(src))), nil
}

func decompressZstd(src []byte) ([]byte, error) {
	if err := initZstd(); err != nil {
		return nil, err
	}
	decoded, err := zstdDecoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return decoded, nil
}

// encodePayload 는 threshold 바이트를 넘는 본문만 압축한다. threshold 가 0 이면 압축하지 않는다.
func encodePayload(data []byte, threshold int) ([]byte, error) {
	if threshold <= 0 || len(data) <= threshold {
		return data, nil
	}
	return compressZstd(data)
}

func decodePayload(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		return decompressZstd(data)
	}
	return data, nil
}
