package multiaddr

import (
	"bytes"
	"fmt"
	"strings"
)

// stringToBytes 将多地址字符串转换为二进制格式
//
// 解析到新缓冲中进行；任何失败都整体丢弃部分结果。
func stringToBytes(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty multiaddr", ErrInvalidMultiaddr)
	}

	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: must begin with /", ErrInvalidMultiaddr)
	}

	// 尾部斜杠意味着空协议名；拒绝而不是静默修剪，保证被接受的
	// 字符串与规范渲染逐字节一致
	if strings.HasSuffix(s, "/") {
		return nil, fmt.Errorf("%w: unexpected trailing /", ErrInvalidMultiaddr)
	}

	var buf bytes.Buffer
	parts := strings.Split(s, "/")

	// 跳过第一个空元素
	parts = parts[1:]

	// 解析每个协议及其值
	for len(parts) > 0 {
		name := parts[0]
		proto := ProtocolWithName(name)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProtocolName, name)
		}

		// 写入协议代码（varint）
		buf.Write(proto.VCode)
		parts = parts[1:]

		// 如果协议无数据，继续下一个
		if proto.Size == 0 {
			continue
		}

		// 协议需要值
		if len(parts) < 1 {
			return nil, fmt.Errorf("%w: protocol %s requires a value", ErrInvalidProtocolValue, name)
		}

		// 如果是路径协议，消费剩余所有部分
		if proto.Path {
			parts = []string{"/" + strings.Join(parts, "/")}
		}

		// 使用 transcoder 转换值
		value := parts[0]
		valueBytes, err := proto.Transcoder.StringToBytes(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidProtocolValue, name, err)
		}

		// 如果是变长协议，写入长度前缀
		if proto.Size == LengthPrefixedVarSize {
			buf.Write(uvarintEncode(uint64(len(valueBytes))))
		}

		// 写入值
		buf.Write(valueBytes)
		parts = parts[1:]
	}

	return buf.Bytes(), nil
}

// bytesToString 将二进制格式的多地址转换为字符串
//
// 空缓冲（零个段）的字符串形式是空串。
func bytesToString(b []byte) (string, error) {
	var sb strings.Builder

	for len(b) > 0 {
		c, n, err := readComponent(b)
		if err != nil {
			return "", err
		}
		if err := c.writeTo(&sb); err != nil {
			return "", err
		}
		b = b[n:]
	}

	return sb.String(), nil
}

// validateBytes 验证二进制多地址：必须能解码为整数个协议段
func validateBytes(b []byte) error {
	for len(b) > 0 {
		c, n, err := readComponent(b)
		if err != nil {
			return err
		}
		if c.proto.Transcoder != nil {
			if err := c.proto.Transcoder.ValidateBytes(c.value); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidProtocolValue, c.proto.Name, err)
			}
		}
		b = b[n:]
	}

	return nil
}

// readComponent 从缓冲头部解码一个协议段
// 返回：(component, bytes_consumed, error)
func readComponent(b []byte) (Component, int, error) {
	code, n, err := readVarintCode(b)
	if err != nil {
		return Component{}, 0, err
	}
	offset := n

	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return Component{}, 0, fmt.Errorf("%w: %d", ErrUnknownProtocolCode, code)
	}

	if proto.Size == 0 {
		return Component{proto: proto}, offset, nil
	}

	prefixLen, dataLen, err := sizeForAddr(proto, b[offset:])
	if err != nil {
		return Component{}, 0, err
	}

	if len(b) < offset+prefixLen+dataLen {
		return Component{}, 0, fmt.Errorf("%w: protocol %s needs %d bytes, have %d",
			ErrInsufficientData, proto.Name, prefixLen+dataLen, len(b)-offset)
	}

	value := make([]byte, dataLen)
	copy(value, b[offset+prefixLen:offset+prefixLen+dataLen])

	return Component{proto: proto, value: value}, offset + prefixLen + dataLen, nil
}

// sizeForAddr 计算协议数据部分的大小
// 返回：(length_prefix_bytes, data_bytes, error)
func sizeForAddr(proto Protocol, b []byte) (int, int, error) {
	if proto.Size == 0 {
		return 0, 0, nil
	}

	if proto.Size == LengthPrefixedVarSize {
		// 读取长度前缀
		length, n, err := uvarintDecode(b)
		if err != nil {
			return 0, 0, err
		}
		// 长度前缀在此处就对照剩余字节校验，超界声明不会向
		// 调用方返回不可表示的大小
		if length > uint64(len(b)-n) {
			return 0, 0, fmt.Errorf("%w: length prefix %d exceeds remaining %d bytes",
				ErrInsufficientData, length, len(b)-n)
		}
		return n, int(length), nil
	}

	// 固定大小（位转字节）
	return 0, proto.Size / 8, nil
}
