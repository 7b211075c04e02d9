// Package multiaddr 提供多地址（Multiaddr）的独立实现
//
// Multiaddr 是一种自描述、可组合的网络地址格式：一个地址是若干协议段的
// 有序拼接，每个段由 varint 编码的协议代码和该协议固定布局的负载组成。
// 二进制形式与 /proto/value/... 的文本形式可以无损互转。
//
// # 基本用法
//
//	// 从字符串创建多地址
//	ma, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/tcp/4001")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 获取字符串表示
//	fmt.Println(ma.String()) // /ip4/127.0.0.1/tcp/4001
//
//	// 获取二进制表示
//	bytes := ma.Bytes()
//
//	// 压入 / 弹出协议段
//	c, _ := multiaddr.NewComponent("ws", "")
//	_ = ma.Push(c)
//	last, ok, _ := ma.Pop() // last == ws 段，ok == true
//	_ = last
//
//	// 封装另一个地址
//	p2p, _ := multiaddr.NewMultiaddr("/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N")
//	full := ma.Encapsulate(p2p)
//
// # 遍历
//
//	it := ma.Components()
//	for {
//	    c, ok, err := it.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Println(c.Protocol().Name, c.Value())
//	}
//
// 只需要协议名称序列时，使用 ProtocolStack 避免物化负载值：
//
//	st := ma.ProtocolStack()
//	for {
//	    name, ok, err := st.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Println(name)
//	}
//
// # 地址格式
//
// 字符串格式：
//
//	/ip4/127.0.0.1/tcp/4001
//	/ip6/::1/tcp/8080
//	/ip4/192.168.1.1/udp/4001/quic-v1
//	/ip4/1.2.3.4/tcp/4001/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N
//	/dns/example.com/tcp/443/wss
//
// 二进制格式（无额外帧结构）：
//
//	[varint:protocol_code][varint:length][data_bytes]...
//
// # 所有权与并发
//
// Multiaddr 是单写者的可变缓冲：Push/Pop 原地修改，With/Replace/Encapsulate
// 产生拥有独立存储的新地址，互不影响。并发读写同一地址需要外部同步。
// 迭代器在构造时对字节做快照，之后对源地址的修改不会被迭代观察到。
//
// # 与 multiformats 对齐
//
// 所有协议代码与 multiformats/multicodec 完全对齐：
// https://github.com/multiformats/multicodec/blob/master/table.csv
package multiaddr
