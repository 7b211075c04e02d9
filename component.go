package multiaddr

import (
	"bytes"
	"fmt"
	"strings"
)

// Component 表示多地址中的单个协议段：协议描述符加原始负载字节
//
// 零值 Component 是空组件（Empty() == true），不能编码。
type Component struct {
	proto Protocol
	value []byte
}

// NewComponent 从协议名称和文本值创建组件
//
// 无数据协议（如 "ws"）的 value 必须为空字符串。
func NewComponent(name, value string) (Component, error) {
	proto := ProtocolWithName(name)
	if proto.Code == 0 {
		return Component{}, fmt.Errorf("%w: %s", ErrUnknownProtocolName, name)
	}

	if proto.Size == 0 {
		if value != "" {
			return Component{}, fmt.Errorf("%w: protocol %s takes no value", ErrInvalidProtocolValue, name)
		}
		return Component{proto: proto}, nil
	}

	b, err := proto.Transcoder.StringToBytes(value)
	if err != nil {
		return Component{}, fmt.Errorf("%w: %s: %v", ErrInvalidProtocolValue, name, err)
	}
	return Component{proto: proto, value: b}, nil
}

// NewComponentBytes 从协议代码和原始负载创建组件
func NewComponentBytes(code int, payload []byte) (Component, error) {
	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return Component{}, fmt.Errorf("%w: %d", ErrUnknownProtocolCode, code)
	}

	switch {
	case proto.Size == 0:
		if len(payload) != 0 {
			return Component{}, fmt.Errorf("%w: protocol %s takes no value", ErrInvalidProtocolValue, proto.Name)
		}
	case proto.Size > 0:
		if len(payload) != proto.Size/8 {
			return Component{}, fmt.Errorf("%w: protocol %s needs %d bytes, got %d",
				ErrInvalidProtocolValue, proto.Name, proto.Size/8, len(payload))
		}
	}

	if proto.Transcoder != nil {
		if err := proto.Transcoder.ValidateBytes(payload); err != nil {
			return Component{}, fmt.Errorf("%w: %s: %v", ErrInvalidProtocolValue, proto.Name, err)
		}
	}

	value := make([]byte, len(payload))
	copy(value, payload)
	return Component{proto: proto, value: value}, nil
}

// Protocol 返回组件的协议描述符
func (c Component) Protocol() Protocol {
	return c.proto
}

// Empty 判断是否为空组件
func (c Component) Empty() bool {
	return c.proto.Code == 0
}

// Equal 判断两个组件是否相等
func (c Component) Equal(other Component) bool {
	return c.proto.Code == other.proto.Code && bytes.Equal(c.value, other.value)
}

// Value 返回组件值的文本形式；无数据协议返回空字符串
func (c Component) Value() string {
	s, err := c.valueString()
	if err != nil {
		// 构造路径已验证负载
		panic(fmt.Errorf("component failed to convert value: %w", err))
	}
	return s
}

// RawValue 返回负载字节的副本（不含协议代码和长度前缀）
func (c Component) RawValue() []byte {
	out := make([]byte, len(c.value))
	copy(out, c.value)
	return out
}

// Bytes 返回组件的完整二进制编码
// 布局：varint 协议代码 + [varint 长度前缀] + 负载
func (c Component) Bytes() []byte {
	var buf bytes.Buffer
	c.encodeTo(&buf)
	return buf.Bytes()
}

// String 返回 "/name" 或 "/name/value" 形式
func (c Component) String() string {
	var sb strings.Builder
	if err := c.writeTo(&sb); err != nil {
		panic(fmt.Errorf("component failed to convert to string: %w", err))
	}
	return sb.String()
}

// encodeTo 将组件编码追加到缓冲
func (c Component) encodeTo(buf *bytes.Buffer) {
	buf.Write(c.proto.VCode)
	if c.proto.Size == LengthPrefixedVarSize {
		buf.Write(uvarintEncode(uint64(len(c.value))))
	}
	buf.Write(c.value)
}

// writeTo 将组件的文本形式追加到 builder
func (c Component) writeTo(sb *strings.Builder) error {
	sb.WriteString("/")
	sb.WriteString(c.proto.Name)

	if c.proto.Size == 0 {
		return nil
	}

	value, err := c.valueString()
	if err != nil {
		return err
	}

	// 路径协议的值自带前导 '/'
	if !c.proto.Path {
		sb.WriteString("/")
	}
	sb.WriteString(value)
	return nil
}

func (c Component) valueString() (string, error) {
	if c.proto.Size == 0 || c.proto.Transcoder == nil {
		return "", nil
	}
	s, err := c.proto.Transcoder.BytesToString(c.value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidProtocolValue, c.proto.Name, err)
	}
	return s, nil
}
