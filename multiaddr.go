package multiaddr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Multiaddr 是自描述的可组合网络地址
//
// 内部字节缓冲在任何可观察时刻都是完整协议段的拼接，不会出现半个段。
// Push/Pop 原地修改；With/Replace/Encapsulate/Decapsulate 产生拥有独立
// 存储的新地址，不会与源共享底层数组。
//
// 单写者模型：并发读写同一地址需要外部同步。
// 零值是合法的空地址。
type Multiaddr struct {
	bytes []byte
}

// NewMultiaddr 从字符串创建多地址
func NewMultiaddr(s string) (*Multiaddr, error) {
	b, err := stringToBytes(s)
	if err != nil {
		return nil, err
	}
	return &Multiaddr{bytes: b}, nil
}

// NewMultiaddrBytes 从二进制表示创建多地址
//
// 输入必须能解码为整数个协议段；内部保存副本，不与调用方共享。
func NewMultiaddrBytes(b []byte) (*Multiaddr, error) {
	if err := validateBytes(b); err != nil {
		return nil, err
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Multiaddr{bytes: buf}, nil
}

// NewMultiaddrWithCapacity 创建预留了容量的空多地址
//
// 容量只是性能提示，对行为没有影响。
func NewMultiaddrWithCapacity(capacity int) *Multiaddr {
	return &Multiaddr{bytes: make([]byte, 0, capacity)}
}

// FromComponents 从组件序列创建多地址
func FromComponents(components ...Component) (*Multiaddr, error) {
	m := &Multiaddr{}
	for _, c := range components {
		if err := m.Push(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Cast 从字节强制创建多地址（不验证）
// 警告：仅用于已知有效的字节；调用方放弃对 b 的所有权
func Cast(b []byte) *Multiaddr {
	return &Multiaddr{bytes: b}
}

// Bytes 返回二进制表示（不要修改返回的字节，可能是共享的）
func (m *Multiaddr) Bytes() []byte {
	return m.bytes
}

// Len 返回编码后的字节长度
func (m *Multiaddr) Len() int {
	return len(m.bytes)
}

// Empty 判断地址是否不含任何协议段
func (m *Multiaddr) Empty() bool {
	return len(m.bytes) == 0
}

// String 返回字符串表示；空地址返回空字符串
func (m *Multiaddr) String() string {
	if len(m.bytes) == 0 {
		return ""
	}
	s, err := bytesToString(m.bytes)
	if err != nil {
		// 这不应该发生，因为我们在构造时已经验证了
		panic(fmt.Errorf("multiaddr failed to convert to string: %w", err))
	}
	return s
}

// Equal 判断两个地址是否相等
func (m *Multiaddr) Equal(other *Multiaddr) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(m.bytes, other.bytes)
}

// Push 将组件的完整编码追加到地址末尾
func (m *Multiaddr) Push(c Component) error {
	if c.Empty() {
		return fmt.Errorf("%w: cannot push empty component", ErrInvalidComponent)
	}
	m.bytes = append(m.bytes, c.Bytes()...)
	return nil
}

// Pop 移除并返回最后一个协议段
//
// 空地址返回 (零值, false, nil)。非空缓冲无法解码为整数个段时返回
// ErrInvalidMultiaddr：公开的构造和修改接口维持段完整性不变式，
// 但 Cast 可以直接注入任意字节，所以检查仍然存在。
func (m *Multiaddr) Pop() (Component, bool, error) {
	if len(m.bytes) == 0 {
		return Component{}, false, nil
	}

	// 从头解码定位最后一个段的起始偏移
	var last Component
	var lastOffset int
	offset := 0
	for offset < len(m.bytes) {
		c, n, err := readComponent(m.bytes[offset:])
		if err != nil {
			return Component{}, false, fmt.Errorf("%w: %v", ErrInvalidMultiaddr, err)
		}
		last = c
		lastOffset = offset
		offset += n
	}

	m.bytes = m.bytes[:lastOffset]
	return last, true, nil
}

// With 返回在末尾追加了组件的新地址；源不受影响
func (m *Multiaddr) With(c Component) (*Multiaddr, error) {
	if c.Empty() {
		return nil, fmt.Errorf("%w: cannot append empty component", ErrInvalidComponent)
	}

	cb := c.Bytes()
	out := make([]byte, 0, len(m.bytes)+len(cb))
	out = append(out, m.bytes...)
	out = append(out, cb...)
	return &Multiaddr{bytes: out}, nil
}

// Replace 返回将第 index 个段（按解码顺序，0 起）替换后的新地址
//
// index 超出段数时返回 (nil, false, nil)，源保持不变。
// 构建在新缓冲中进行，任何失败都不会留下部分结果。
func (m *Multiaddr) Replace(index int, c Component) (*Multiaddr, bool, error) {
	if c.Empty() {
		return nil, false, fmt.Errorf("%w: cannot replace with empty component", ErrInvalidComponent)
	}

	out := make([]byte, 0, len(m.bytes))
	b := m.bytes
	i := 0
	replaced := false
	for len(b) > 0 {
		_, n, err := readComponent(b)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrInvalidMultiaddr, err)
		}
		if i == index {
			out = append(out, c.Bytes()...)
			replaced = true
		} else {
			out = append(out, b[:n]...)
		}
		b = b[n:]
		i++
	}

	if !replaced {
		return nil, false, nil
	}
	return &Multiaddr{bytes: out}, true, nil
}

// StartsWith 判断编码字节是否以 other 的编码为前缀
//
// 段是长度定界的，且缓冲不变式排除了尾部半段，所以两个合法地址的
// 字节前缀匹配必然落在段边界上。
func (m *Multiaddr) StartsWith(other *Multiaddr) bool {
	if other == nil {
		return true
	}
	return bytes.HasPrefix(m.bytes, other.bytes)
}

// EndsWith 判断编码字节是否以 other 的编码为后缀
func (m *Multiaddr) EndsWith(other *Multiaddr) bool {
	if other == nil {
		return true
	}
	return bytes.HasSuffix(m.bytes, other.bytes)
}

// Encapsulate 封装另一个地址，返回新地址
func (m *Multiaddr) Encapsulate(other *Multiaddr) *Multiaddr {
	var ob []byte
	if other != nil {
		ob = other.bytes
	}

	result := make([]byte, 0, len(m.bytes)+len(ob))
	result = append(result, m.bytes...)
	result = append(result, ob...)
	return &Multiaddr{bytes: result}
}

// Decapsulate 解封装（移除匹配的后缀），返回新地址
//
// other 不是后缀时返回 m 的副本。
func (m *Multiaddr) Decapsulate(other *Multiaddr) *Multiaddr {
	if other != nil && len(other.bytes) <= len(m.bytes) &&
		bytes.Equal(m.bytes[len(m.bytes)-len(other.bytes):], other.bytes) {
		out := make([]byte, len(m.bytes)-len(other.bytes))
		copy(out, m.bytes[:len(m.bytes)-len(other.bytes)])
		return &Multiaddr{bytes: out}
	}

	out := make([]byte, len(m.bytes))
	copy(out, m.bytes)
	return &Multiaddr{bytes: out}
}

// Protocols 返回地址包含的协议列表
func (m *Multiaddr) Protocols() []Protocol {
	var ps []Protocol
	b := m.bytes

	for len(b) > 0 {
		c, n, err := readComponent(b)
		if err != nil {
			// 这不应该发生
			panic(err)
		}
		ps = append(ps, c.proto)
		b = b[n:]
	}

	return ps
}

// ValueForProtocol 获取指定协议代码的值
func (m *Multiaddr) ValueForProtocol(code int) (string, error) {
	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return "", fmt.Errorf("%w: %d", ErrUnknownProtocolCode, code)
	}

	b := m.bytes
	for len(b) > 0 {
		c, n, err := readComponent(b)
		if err != nil {
			return "", err
		}
		if c.proto.Code == code {
			return c.valueString()
		}
		b = b[n:]
	}

	return "", fmt.Errorf("protocol %s not found in multiaddr", proto.Name)
}

// MarshalBinary 实现 encoding.BinaryMarshaler
func (m *Multiaddr) MarshalBinary() ([]byte, error) {
	return m.Bytes(), nil
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler
func (m *Multiaddr) UnmarshalBinary(data []byte) error {
	ma, err := NewMultiaddrBytes(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnmarshalFailed, err)
	}
	*m = *ma
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m *Multiaddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (m *Multiaddr) UnmarshalText(data []byte) error {
	ma, err := NewMultiaddr(string(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnmarshalFailed, err)
	}
	*m = *ma
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (m *Multiaddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 实现 json.Unmarshaler
func (m *Multiaddr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrUnmarshalFailed, err)
	}

	ma, err := NewMultiaddr(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnmarshalFailed, err)
	}
	*m = *ma
	return nil
}
