// Package main 提供 maddr 命令行入口
//
// maddr 是多地址检查工具：解析字符串或十六进制二进制形式的多地址，
// 输出规范字符串、二进制编码和协议栈。
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	multiaddr "github.com/dep2p/go-multiaddr"
)

var (
	fromHex = flag.Bool("hex", false, "输入按十六进制二进制编码解析")
	quiet   = flag.Bool("q", false, "只输出规范字符串形式")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: maddr [-hex] [-q] <multiaddr> ...")
		os.Exit(2)
	}

	for _, arg := range flag.Args() {
		ma, err := parse(arg, *fromHex)
		if err != nil {
			logger.Error("解析多地址失败", "input", arg, "err", err)
			os.Exit(1)
		}

		if *quiet {
			fmt.Println(ma.String())
			continue
		}

		if err := describe(ma); err != nil {
			logger.Error("输出多地址失败", "input", arg, "err", err)
			os.Exit(1)
		}
	}
}

func parse(arg string, isHex bool) (*multiaddr.Multiaddr, error) {
	if isHex {
		raw, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %w", err)
		}
		return multiaddr.NewMultiaddrBytes(raw)
	}
	return multiaddr.NewMultiaddr(arg)
}

func describe(ma *multiaddr.Multiaddr) error {
	var names []string
	st := ma.ProtocolStack()
	for {
		name, ok, err := st.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		names = append(names, name)
	}

	fmt.Printf("addr:  %s\n", ma.String())
	fmt.Printf("bytes: %s (%d bytes)\n", hex.EncodeToString(ma.Bytes()), ma.Len())
	fmt.Printf("stack: %s\n", strings.Join(names, " "))
	return nil
}
