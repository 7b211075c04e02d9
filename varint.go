package multiaddr

import (
	"errors"
	"math"

	"github.com/multiformats/go-varint"
)

// Varint 编解码错误
var (
	ErrVarintOverflow   = errors.New("varint: value overflows uint64")
	ErrVarintTooShort   = errors.New("varint: buffer too short")
	ErrVarintNotMinimal = errors.New("varint: not minimally encoded")
)

// codeToVarint 将协议代码转换为 varint 编码的字节
func codeToVarint(code int) []byte {
	if code < 0 || code > math.MaxInt32 {
		panic("invalid protocol code")
	}
	return varint.ToUvarint(uint64(code))
}

// readVarintCode 从字节流中读取 varint 编码的协议代码
// 返回：(code, bytes_read, error)
func readVarintCode(buf []byte) (int, int, error) {
	code, n, err := uvarintDecode(buf)
	if err != nil {
		return 0, 0, err
	}
	if code > math.MaxInt32 {
		// 协议代码限定在 32 位以内
		return 0, 0, ErrVarintOverflow
	}
	return int(code), n, nil
}

// uvarintEncode 编码无符号 varint
// 每字节 7 个值位，低位组在前，除末字节外均带延续位
func uvarintEncode(x uint64) []byte {
	return varint.ToUvarint(x)
}

// uvarintDecode 解码无符号 varint
// 输入截断、数值溢出 uint64、非最小编码均报错
// 返回：(value, bytes_read, error)
func uvarintDecode(buf []byte) (uint64, int, error) {
	x, n, err := varint.FromUvarint(buf)
	if err != nil {
		switch {
		case errors.Is(err, varint.ErrUnderflow):
			return 0, 0, ErrVarintTooShort
		case errors.Is(err, varint.ErrOverflow):
			return 0, 0, ErrVarintOverflow
		case errors.Is(err, varint.ErrNotMinimal):
			return 0, 0, ErrVarintNotMinimal
		}
		return 0, 0, err
	}
	return x, n, nil
}
