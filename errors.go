package multiaddr

import "errors"

// 通用错误
//
// 所有解析和解码失败都可以用 errors.Is 归类到下面的哨兵值之一，
// 具体上下文通过 fmt.Errorf("...: %w") 包装附加。
var (
	// ErrInvalidMultiaddr 地址结构违例：缺少前导斜杠，或字节缓冲
	// 无法解码为整数个协议段
	ErrInvalidMultiaddr = errors.New("invalid multiaddr")

	// ErrInsufficientData 二进制输入在段中途被截断
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownProtocolCode 二进制协议代码无法识别
	ErrUnknownProtocolCode = errors.New("unknown protocol code")

	// ErrUnknownProtocolName 文本协议名称无法识别
	ErrUnknownProtocolName = errors.New("unknown protocol name")

	// ErrInvalidProtocolValue 协议值缺失或格式非法
	ErrInvalidProtocolValue = errors.New("invalid protocol value")

	// ErrInvalidComponent 组件为空或未初始化
	ErrInvalidComponent = errors.New("invalid component")

	// ErrUnmarshalFailed 反序列化失败
	ErrUnmarshalFailed = errors.New("failed to unmarshal multiaddr")
)
