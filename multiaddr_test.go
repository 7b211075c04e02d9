package multiaddr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, s string) *Multiaddr {
	t.Helper()
	ma, err := NewMultiaddr(s)
	require.NoError(t, err)
	return ma
}

func mustComponent(t *testing.T, proto, value string) Component {
	t.Helper()
	c, err := NewComponent(proto, value)
	require.NoError(t, err)
	return c
}

// TestNewMultiaddr 测试从字符串创建多地址
func TestNewMultiaddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"IPv4 + TCP", "/ip4/127.0.0.1/tcp/4001", false},
		{"IPv6 + TCP", "/ip6/::1/tcp/4001", false},
		{"IPv4 + UDP + QUIC", "/ip4/192.168.1.1/udp/4001/quic-v1", false},
		{"Complex with P2P", "/ip4/1.2.3.4/tcp/4001/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N", false},
		{"Empty", "", true},
		{"No leading slash", "ip4/127.0.0.1", true},
		{"Unknown protocol", "/unknown/value", true},
		{"Incomplete", "/ip4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMultiaddr(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNewMultiaddrBytes 测试从字节创建多地址
func TestNewMultiaddrBytes(t *testing.T) {
	// /ip4/127.0.0.1/tcp/4001 的二进制表示
	raw := []byte{0x04, 127, 0, 0, 1, 0x06, 0x0f, 0xa1}

	ma, err := NewMultiaddrBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4001", ma.String())

	// 内部保存副本，调用方的修改不影响地址
	raw[1] = 99
	assert.Equal(t, "/ip4/127.0.0.1/tcp/4001", ma.String())

	// 空字节是合法的空地址
	empty, err := NewMultiaddrBytes(nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.String())

	// 尾部半段非法
	_, err = NewMultiaddrBytes([]byte{0x04, 127, 0})
	assert.ErrorIs(t, err, ErrInsufficientData)

	// 未知协议代码非法
	_, err = NewMultiaddrBytes([]byte{0xfe, 0xff, 0x03})
	assert.ErrorIs(t, err, ErrUnknownProtocolCode)
}

// TestMultiaddr_PushPop 测试压入 / 弹出场景：
// ip4 + tcp → 两个段，协议栈 ["ip4","tcp"]，字符串 /ip4/127.0.0.1/tcp/8080
func TestMultiaddr_PushPop(t *testing.T) {
	ma := &Multiaddr{}

	require.NoError(t, ma.Push(mustComponent(t, "ip4", "127.0.0.1")))
	require.NoError(t, ma.Push(mustComponent(t, "tcp", "8080")))

	assert.Equal(t, "/ip4/127.0.0.1/tcp/8080", ma.String())

	protos := ma.Protocols()
	require.Len(t, protos, 2)
	assert.Equal(t, "ip4", protos[0].Name)
	assert.Equal(t, "tcp", protos[1].Name)

	// 弹出顺序与压入相反
	c, ok, err := ma.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tcp", c.Protocol().Name)
	assert.Equal(t, "8080", c.Value())

	c, ok, err = ma.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ip4", c.Protocol().Name)
	assert.Equal(t, "127.0.0.1", c.Value())

	// 空地址永远返回 "无值"
	for i := 0; i < 3; i++ {
		_, ok, err := ma.Pop()
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

// TestMultiaddr_PushPopRestoresBuffer 测试压入后立即弹出恢复原缓冲
func TestMultiaddr_PushPopRestoresBuffer(t *testing.T) {
	ma := mustAddr(t, "/ip4/10.0.0.1/tcp/80")
	before := append([]byte(nil), ma.Bytes()...)

	p := mustComponent(t, "udp", "53")
	require.NoError(t, ma.Push(p))

	got, ok, err := ma.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(p))
	assert.Equal(t, before, ma.Bytes())
}

// TestMultiaddr_PopSequence 测试逐段弹出
// ["/ip4/127.0.0.1","/tcp/8080"] → tcp(8080), ip4(127.0.0.1), 无值
func TestMultiaddr_PopSequence(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1").Encapsulate(mustAddr(t, "/tcp/8080"))

	c, ok, err := ma.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, P_TCP, c.Protocol().Code)
	assert.Equal(t, "8080", c.Value())

	c, ok, err = ma.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, P_IP4, c.Protocol().Code)
	assert.Equal(t, "127.0.0.1", c.Value())

	_, ok, err = ma.Pop()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, ma.Empty())
}

// TestMultiaddr_PopInvalidBuffer 测试非法缓冲上的弹出
// Cast 可以绕过验证注入半段，Pop 必须将其报告为 ErrInvalidMultiaddr
func TestMultiaddr_PopInvalidBuffer(t *testing.T) {
	ma := Cast([]byte{0x04, 127, 0})

	_, _, err := ma.Pop()
	assert.ErrorIs(t, err, ErrInvalidMultiaddr)
}

// TestMultiaddr_With 测试派生追加
func TestMultiaddr_With(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1")
	before := ma.String()

	derived, err := ma.With(mustComponent(t, "tcp", "8080"))
	require.NoError(t, err)

	// 源不受影响，派生地址以源为前缀
	assert.Equal(t, before, ma.String())
	assert.Equal(t, "/ip4/127.0.0.1/tcp/8080", derived.String())
	assert.True(t, derived.StartsWith(ma))

	// 派生地址拥有独立存储
	_, ok, err := derived.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, ma.String())
}

// TestMultiaddr_Replace 测试段替换
func TestMultiaddr_Replace(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1/tcp/8080")

	// 合法下标：段数不变，其他段逐字节一致
	out, ok, err := ma.Replace(1, mustComponent(t, "udp", "9090"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/ip4/127.0.0.1/udp/9090", out.String())
	assert.Len(t, out.Protocols(), 2)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/8080", ma.String())

	out2, ok, err := ma.Replace(0, mustComponent(t, "ip4", "10.1.1.1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/ip4/10.1.1.1/tcp/8080", out2.String())

	// 越界下标：返回 "无值"，源不变
	before := append([]byte(nil), ma.Bytes()...)
	out3, ok, err := ma.Replace(2, mustComponent(t, "udp", "1"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out3)
	assert.Equal(t, before, ma.Bytes())
}

// TestMultiaddr_StartsWithEndsWith 测试前缀 / 后缀判定
func TestMultiaddr_StartsWithEndsWith(t *testing.T) {
	full := mustAddr(t, "/ip4/127.0.0.1/tcp/8080")
	prefix := mustAddr(t, "/ip4/127.0.0.1")
	suffix := mustAddr(t, "/tcp/8080")
	other := mustAddr(t, "/ip4/10.0.0.1")
	longer := mustAddr(t, "/ip4/127.0.0.1/tcp/8080/ws")

	// 每个地址都以自身开头和结尾
	assert.True(t, full.StartsWith(full))
	assert.True(t, full.EndsWith(full))

	assert.True(t, full.StartsWith(prefix))
	assert.False(t, full.StartsWith(suffix))
	assert.True(t, full.EndsWith(suffix))
	assert.False(t, full.EndsWith(prefix))
	assert.False(t, full.StartsWith(other))

	// 绝不以严格更长的地址开头或结尾
	assert.False(t, full.StartsWith(longer))
	assert.False(t, full.EndsWith(longer))

	// 空地址是任何地址的前缀和后缀
	empty := &Multiaddr{}
	assert.True(t, full.StartsWith(empty))
	assert.True(t, full.EndsWith(empty))
}

// TestMultiaddr_EncapsulateDecapsulate 测试封装 / 解封装
func TestMultiaddr_Encapsulate(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1/tcp/4001")
	p2p := mustAddr(t, "/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N")

	full := ma.Encapsulate(p2p)
	assert.Equal(t, ma.String()+p2p.String(), full.String())
	assert.True(t, full.StartsWith(ma))
	assert.True(t, full.EndsWith(p2p))

	back := full.Decapsulate(p2p)
	assert.True(t, back.Equal(ma))

	// 不匹配的后缀：返回副本
	noop := ma.Decapsulate(p2p)
	assert.True(t, noop.Equal(ma))
}

// TestMultiaddr_FromComponents 测试从组件序列创建
func TestMultiaddr_FromComponents(t *testing.T) {
	ma, err := FromComponents(
		mustComponent(t, "ip4", "127.0.0.1"),
		mustComponent(t, "tcp", "8080"),
	)
	require.NoError(t, err)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/8080", ma.String())

	// 空组件被拒绝
	_, err = FromComponents(Component{})
	assert.ErrorIs(t, err, ErrInvalidComponent)
}

// TestMultiaddr_WithCapacity 测试容量预留只是提示
func TestMultiaddr_WithCapacity(t *testing.T) {
	ma := NewMultiaddrWithCapacity(64)
	assert.True(t, ma.Empty())
	assert.Equal(t, 0, ma.Len())

	require.NoError(t, ma.Push(mustComponent(t, "tcp", "8080")))
	assert.Equal(t, "/tcp/8080", ma.String())
}

// TestMultiaddr_ValueForProtocol 测试协议值查询
func TestMultiaddr_ValueForProtocol(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1/tcp/4001/tls")

	v, err := ma.ValueForProtocol(P_IP4)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", v)

	v, err = ma.ValueForProtocol(P_TCP)
	require.NoError(t, err)
	assert.Equal(t, "4001", v)

	// 无数据协议返回空字符串
	v, err = ma.ValueForProtocol(P_TLS)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	// 不在地址中的协议
	_, err = ma.ValueForProtocol(P_UDP)
	assert.Error(t, err)
}

// TestMultiaddr_FromStringScenario 测试 /tcp/8080 单段场景
func TestMultiaddr_FromStringScenario(t *testing.T) {
	ma := mustAddr(t, "/tcp/8080")
	assert.Len(t, ma.Protocols(), 1)
	assert.Equal(t, "/tcp/8080", ma.String())
}

// TestMultiaddr_Marshal 测试序列化接口
func TestMultiaddr_Marshal(t *testing.T) {
	ma := mustAddr(t, "/ip4/127.0.0.1/tcp/4001")

	// JSON
	data, err := json.Marshal(ma)
	require.NoError(t, err)
	assert.Equal(t, `"/ip4/127.0.0.1/tcp/4001"`, string(data))

	var back Multiaddr
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(ma))

	// Binary
	raw, err := ma.MarshalBinary()
	require.NoError(t, err)
	var back2 Multiaddr
	require.NoError(t, back2.UnmarshalBinary(raw))
	assert.True(t, back2.Equal(ma))

	// Text
	txt, err := ma.MarshalText()
	require.NoError(t, err)
	var back3 Multiaddr
	require.NoError(t, back3.UnmarshalText(txt))
	assert.True(t, back3.Equal(ma))

	// 非法输入归类为 ErrUnmarshalFailed
	var bad Multiaddr
	assert.ErrorIs(t, bad.UnmarshalText([]byte("notslash")), ErrUnmarshalFailed)
	assert.ErrorIs(t, bad.UnmarshalBinary([]byte{0x04, 1}), ErrUnmarshalFailed)
}

// TestMultiaddr_Equal 测试地址相等性
func TestMultiaddr_Equal(t *testing.T) {
	ma1 := mustAddr(t, "/ip4/127.0.0.1/tcp/4001")
	ma2 := mustAddr(t, "/ip4/127.0.0.1/tcp/4001")
	ma3 := mustAddr(t, "/ip4/127.0.0.1/tcp/4002")

	assert.True(t, ma1.Equal(ma2))
	assert.False(t, ma1.Equal(ma3))
	assert.False(t, ma1.Equal(nil))
}

func BenchmarkMultiaddr_Pop(b *testing.B) {
	base, _ := NewMultiaddr("/ip4/127.0.0.1/tcp/4001/tls/ws")
	raw := append([]byte(nil), base.Bytes()...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ma := Cast(append([]byte(nil), raw...))
		for {
			_, ok, _ := ma.Pop()
			if !ok {
				break
			}
		}
	}
}
