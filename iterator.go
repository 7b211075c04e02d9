package multiaddr

import "fmt"

// ComponentIterator 按段顺序遍历多地址
//
// 构造时对地址字节做快照，之后对源地址的 Push/Pop 不会被迭代观察到。
// 只能前向遍历，不可重置；需要第二遍时从地址构造新的迭代器。
type ComponentIterator struct {
	b []byte
}

// Components 返回段迭代器
func (m *Multiaddr) Components() *ComponentIterator {
	b := make([]byte, len(m.bytes))
	copy(b, m.bytes)
	return &ComponentIterator{b: b}
}

// Next 解码并返回下一个段；迭代结束返回 (零值, false, nil)
//
// 解码错误原样向上传播，不做恢复；出错后迭代器不再可用。
func (it *ComponentIterator) Next() (Component, bool, error) {
	if len(it.b) == 0 {
		return Component{}, false, nil
	}

	c, n, err := readComponent(it.b)
	if err != nil {
		return Component{}, false, err
	}
	it.b = it.b[n:]
	return c, true, nil
}

// StackIterator 按段顺序产出协议名称
//
// 只需要协议种类序列（例如按传输族分派）时，用它代替 ComponentIterator：
// 负载字节只被跳过，不被物化。
type StackIterator struct {
	b []byte
}

// ProtocolStack 返回协议名称迭代器
func (m *Multiaddr) ProtocolStack() *StackIterator {
	b := make([]byte, len(m.bytes))
	copy(b, m.bytes)
	return &StackIterator{b: b}
}

// Next 返回下一个段的协议名称；迭代结束返回 ("", false, nil)
func (it *StackIterator) Next() (string, bool, error) {
	if len(it.b) == 0 {
		return "", false, nil
	}

	code, n, err := readVarintCode(it.b)
	if err != nil {
		return "", false, err
	}

	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return "", false, fmt.Errorf("%w: %d", ErrUnknownProtocolCode, code)
	}

	prefixLen, dataLen, err := sizeForAddr(proto, it.b[n:])
	if err != nil {
		return "", false, err
	}
	if len(it.b) < n+prefixLen+dataLen {
		return "", false, fmt.Errorf("%w: protocol %s needs %d bytes, have %d",
			ErrInsufficientData, proto.Name, prefixLen+dataLen, len(it.b)-n)
	}

	it.b = it.b[n+prefixLen+dataLen:]
	return proto.Name, true, nil
}
