package multiaddr

import (
	"fmt"
	"strings"
)

// Protocol 描述一个 multiaddr 协议
type Protocol struct {
	// Name 协议名称（如 "ip4", "tcp"）
	Name string

	// Code 协议代码
	Code int

	// VCode 预计算的 varint 编码
	VCode []byte

	// Size 协议数据大小（位）
	// 0 表示无数据
	// -1 表示变长（length-prefixed）
	Size int

	// Path 是否为路径协议（终端协议，值占用剩余全部 token）
	Path bool

	// Transcoder 编解码器
	Transcoder Transcoder
}

// String 返回协议名称
func (p Protocol) String() string {
	return p.Name
}

// LengthPrefixedVarSize 表示变长数据（使用 varint 前缀）
const LengthPrefixedVarSize = -1

// 协议代码常量（与 multiformats/multicodec 对齐）
// 参考：https://github.com/multiformats/multicodec/blob/master/table.csv
const (
	P_IP4               = 0x0004
	P_TCP               = 0x0006
	P_UDP               = 0x0111
	P_DCCP              = 0x0021
	P_IP6               = 0x0029
	P_IP6ZONE           = 0x002A
	P_IPCIDR            = 0x002B
	P_DNS               = 0x0035
	P_DNS4              = 0x0036
	P_DNS6              = 0x0037
	P_DNSADDR           = 0x0038
	P_SCTP              = 0x0084
	P_UTP               = 0x012E
	P_UDT               = 0x012D
	P_UNIX              = 0x0190
	P_P2P               = 0x01A5
	P_IPFS              = 0x01A5 // 向后兼容别名
	P_HTTP              = 0x01E0
	P_HTTPS             = 0x01BB
	P_TLS               = 0x01C0
	P_NOISE             = 0x01C6
	P_QUIC              = 0x01CC
	P_QUIC_V1           = 0x01CD
	P_WS                = 0x01DD
	P_WSS               = 0x01DE
	P_ONION             = 0x01BC
	P_ONION3            = 0x01BD
	P_GARLIC64          = 0x01BE
	P_GARLIC32          = 0x01BF
	P_P2P_CIRCUIT       = 0x0122
	P_CIRCUIT           = 0x0122 // 别名
	P_WEBTRANSPORT      = 0x01D2
	P_WEBRTC            = 0x0118
	P_WEBRTC_DIRECT     = 0x0119
	P_P2P_WEBRTC_DIRECT = 0x0119 // 别名
)

// defaultProtocols 内置协议集
// 注册表在 init 中由此播种；新协议通过 AddProtocol 注册
var defaultProtocols = []Protocol{
	{Name: "ip4", Code: P_IP4, Size: 32, Transcoder: TranscoderIP4},
	{Name: "tcp", Code: P_TCP, Size: 16, Transcoder: TranscoderPort},
	{Name: "udp", Code: P_UDP, Size: 16, Transcoder: TranscoderPort},
	{Name: "dccp", Code: P_DCCP, Size: 16, Transcoder: TranscoderPort},
	{Name: "ip6", Code: P_IP6, Size: 128, Transcoder: TranscoderIP6},
	{Name: "ip6zone", Code: P_IP6ZONE, Size: LengthPrefixedVarSize, Transcoder: TranscoderIP6Zone},
	{Name: "ipcidr", Code: P_IPCIDR, Size: 8, Transcoder: TranscoderIPCIDR},
	{Name: "dns", Code: P_DNS, Size: LengthPrefixedVarSize, Transcoder: TranscoderDNS},
	{Name: "dns4", Code: P_DNS4, Size: LengthPrefixedVarSize, Transcoder: TranscoderDNS},
	{Name: "dns6", Code: P_DNS6, Size: LengthPrefixedVarSize, Transcoder: TranscoderDNS},
	{Name: "dnsaddr", Code: P_DNSADDR, Size: LengthPrefixedVarSize, Transcoder: TranscoderDNS},
	{Name: "sctp", Code: P_SCTP, Size: 16, Transcoder: TranscoderPort},
	{Name: "utp", Code: P_UTP},
	{Name: "udt", Code: P_UDT},
	{Name: "unix", Code: P_UNIX, Size: LengthPrefixedVarSize, Path: true, Transcoder: TranscoderUnix},
	{Name: "p2p", Code: P_P2P, Size: LengthPrefixedVarSize, Transcoder: TranscoderP2P},
	{Name: "http", Code: P_HTTP},
	{Name: "https", Code: P_HTTPS},
	{Name: "tls", Code: P_TLS},
	{Name: "noise", Code: P_NOISE},
	{Name: "quic", Code: P_QUIC},
	{Name: "quic-v1", Code: P_QUIC_V1},
	{Name: "ws", Code: P_WS},
	{Name: "wss", Code: P_WSS},
	{Name: "onion", Code: P_ONION, Size: 96, Transcoder: TranscoderOnion},
	{Name: "onion3", Code: P_ONION3, Size: 296, Transcoder: TranscoderOnion3},
	{Name: "garlic64", Code: P_GARLIC64, Size: LengthPrefixedVarSize, Transcoder: TranscoderGarlic64},
	{Name: "garlic32", Code: P_GARLIC32, Size: LengthPrefixedVarSize, Transcoder: TranscoderGarlic32},
	{Name: "p2p-circuit", Code: P_P2P_CIRCUIT},
	{Name: "webtransport", Code: P_WEBTRANSPORT},
	{Name: "webrtc", Code: P_WEBRTC},
	{Name: "webrtc-direct", Code: P_WEBRTC_DIRECT},
}

// protocols 协议注册表（按代码索引）
var protocols = map[int]Protocol{}

// protocolsByName 协议注册表（按名称索引）
var protocolsByName = map[string]Protocol{}

func init() {
	for _, p := range defaultProtocols {
		if err := AddProtocol(p); err != nil {
			panic(err)
		}
	}

	// 名称别名
	protocolsByName["ipfs"] = protocolsByName["p2p"]
}

// AddProtocol 向注册表注册新协议
//
// 这是协议集的扩展点：外部协议代码注册表可以通过它提供权威的
// code→协议映射，而无需修改内置表。VCode 留空时自动预计算。
//
// 非线程安全：注册应在程序初始化阶段完成。
func AddProtocol(p Protocol) error {
	if p.Code <= 0 || p.Name == "" {
		return fmt.Errorf("protocol must have a positive code and a name: %q/%d", p.Name, p.Code)
	}
	if p.Size != 0 && p.Transcoder == nil {
		return fmt.Errorf("protocol %q with a value must have a transcoder", p.Name)
	}
	if _, ok := protocols[p.Code]; ok {
		return fmt.Errorf("protocol code %d already registered", p.Code)
	}
	if _, ok := protocolsByName[p.Name]; ok {
		return fmt.Errorf("protocol name %q already registered", p.Name)
	}

	if len(p.VCode) == 0 {
		p.VCode = codeToVarint(p.Code)
	}

	protocols[p.Code] = p
	protocolsByName[p.Name] = p
	return nil
}

// ProtocolWithCode 根据协议代码获取协议
// 如果协议不存在，返回零值协议（Code = 0）
func ProtocolWithCode(code int) Protocol {
	if proto, ok := protocols[code]; ok {
		return proto
	}
	return Protocol{}
}

// ProtocolWithName 根据协议名称获取协议
// 如果协议不存在，返回零值协议（Code = 0）
func ProtocolWithName(name string) Protocol {
	if proto, ok := protocolsByName[name]; ok {
		return proto
	}
	return Protocol{}
}

// ProtocolsWithString 解析多地址字符串中的协议序列（不校验值）
func ProtocolsWithString(s string) ([]Protocol, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, "/")
	ps := make([]Protocol, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		proto := ProtocolWithName(parts[i])
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProtocolName, parts[i])
		}
		ps = append(ps, proto)

		// 跳过协议值；路径协议消费剩余全部 token
		if proto.Path {
			break
		}
		if proto.Size != 0 {
			i++
		}
	}

	return ps, nil
}
