package multiaddr

import (
	"fmt"
	"strings"
)

// Split 分离传输地址和 P2P 组件
// 输入：/ip4/1.2.3.4/tcp/4001/p2p/12D3KooW...
// 输出：/ip4/1.2.3.4/tcp/4001, 12D3KooW...
func Split(m *Multiaddr) (transport *Multiaddr, peerID string) {
	if m == nil {
		return nil, ""
	}

	s := m.String()

	// 查找 /p2p/ 组件
	idx := strings.Index(s, "/p2p/")
	if idx < 0 {
		// 没有 P2P 组件
		return m, ""
	}

	// 分离传输地址
	transportStr := s[:idx]
	if transportStr == "" {
		transport = nil
	} else {
		transport, _ = NewMultiaddr(transportStr)
	}

	// 提取 PeerID
	peerID = s[idx+5:] // 跳过 "/p2p/"

	// 如果有更多组件，只取到下一个 /
	if nextSlash := strings.Index(peerID, "/"); nextSlash > 0 {
		peerID = peerID[:nextSlash]
	}

	return transport, peerID
}

// Join 合并传输地址和 P2P 组件
func Join(transport *Multiaddr, peerID string) *Multiaddr {
	if peerID == "" {
		return transport
	}

	p2pAddr, err := NewMultiaddr(fmt.Sprintf("/p2p/%s", peerID))
	if err != nil {
		// 如果无法创建 P2P 地址，只返回传输地址
		return transport
	}

	if transport == nil {
		return p2pAddr
	}

	return transport.Encapsulate(p2pAddr)
}

// FilterAddrs 过滤多地址列表
func FilterAddrs(addrs []*Multiaddr, filter func(*Multiaddr) bool) []*Multiaddr {
	result := make([]*Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if filter(addr) {
			result = append(result, addr)
		}
	}
	return result
}

// UniqueAddrs 去重多地址列表（保持顺序）
func UniqueAddrs(addrs []*Multiaddr) []*Multiaddr {
	seen := make(map[string]bool)
	result := make([]*Multiaddr, 0, len(addrs))

	for _, addr := range addrs {
		s := addr.String()
		if !seen[s] {
			seen[s] = true
			result = append(result, addr)
		}
	}

	return result
}

// HasProtocol 检查多地址是否包含指定协议
func HasProtocol(m *Multiaddr, code int) bool {
	if m == nil {
		return false
	}

	for _, p := range m.Protocols() {
		if p.Code == code {
			return true
		}
	}
	return false
}

// IsTCPMultiaddr 检查是否为 TCP 多地址
func IsTCPMultiaddr(m *Multiaddr) bool {
	return HasProtocol(m, P_TCP)
}

// IsUDPMultiaddr 检查是否为 UDP 多地址
func IsUDPMultiaddr(m *Multiaddr) bool {
	return HasProtocol(m, P_UDP)
}

// IsIP4Multiaddr 检查是否包含 IPv4
func IsIP4Multiaddr(m *Multiaddr) bool {
	return HasProtocol(m, P_IP4)
}

// IsIP6Multiaddr 检查是否包含 IPv6
func IsIP6Multiaddr(m *Multiaddr) bool {
	return HasProtocol(m, P_IP6)
}

// IsIPMultiaddr 检查是否包含 IP（IPv4 或 IPv6）
func IsIPMultiaddr(m *Multiaddr) bool {
	return IsIP4Multiaddr(m) || IsIP6Multiaddr(m)
}

// GetPeerID 从多地址中提取 PeerID（如果有）
func GetPeerID(m *Multiaddr) (string, error) {
	if m == nil {
		return "", fmt.Errorf("nil multiaddr")
	}

	_, peerID := Split(m)
	if peerID == "" {
		return "", fmt.Errorf("no peer ID in multiaddr")
	}

	return peerID, nil
}

// WithPeerID 为多地址添加或替换 PeerID
func WithPeerID(m *Multiaddr, peerID string) (*Multiaddr, error) {
	if m == nil {
		return nil, fmt.Errorf("nil multiaddr")
	}

	// 移除现有的 P2P 组件（如果有）
	transport, _ := Split(m)

	// 添加新的 PeerID
	return Join(transport, peerID), nil
}

// WithoutPeerID 移除多地址中的 PeerID
func WithoutPeerID(m *Multiaddr) *Multiaddr {
	if m == nil {
		return nil
	}

	transport, _ := Split(m)
	return transport
}

// SplitFirst 分离多地址的第一个组件和剩余部分
//
// 空地址或解码失败返回 (零值组件, nil)；剩余部分拥有独立存储。
func SplitFirst(m *Multiaddr) (Component, *Multiaddr) {
	if m == nil || m.Empty() {
		return Component{}, nil
	}

	c, n, err := readComponent(m.bytes)
	if err != nil {
		return Component{}, nil
	}

	if n >= len(m.bytes) {
		return c, nil
	}

	rest := make([]byte, len(m.bytes)-n)
	copy(rest, m.bytes[n:])
	return c, &Multiaddr{bytes: rest}
}

// ForEach 遍历多地址中的每个组件
// 如果回调函数返回 false，则停止遍历
func ForEach(m *Multiaddr, fn func(Component) bool) {
	if m == nil {
		return
	}

	it := m.Components()
	for {
		c, ok, err := it.Next()
		if err != nil || !ok {
			return
		}
		if !fn(c) {
			return
		}
	}
}
