// 嵌入式风格的示例：静态命令表、定长缓冲区，输入来自一段模拟的串口数据
package main

import (
	"fmt"
	"strconv"

	"github.com/TrailHuang/stint"
)

var (
	ledOn    bool
	baudRate = 115200
)

// 解释器只借用这两块内存
var (
	lineBuf  [64]byte
	commands []stint.Command
)

var serialRx = []byte("led on\r\nbaud 9600\r\nbaud\r\nstatus\r\nfoo\r\nledd\r\nstatus\r\n")

func init() {
	commands = []stint.Command{
		{Name: "led", Handler: ledHandler, Help: "led (on|off)"},
		{Name: "baud", Handler: baudHandler, Help: "baud [RATE]"},
		{Name: "status", Handler: statusHandler, Help: "Show device status"},
		{Name: "reset", Handler: nil, Help: "Reserved"},
	}
}

func ledHandler(arg []byte, n int) {
	switch stint.Arg(arg) {
	case "on":
		ledOn = true
	case "off":
		ledOn = false
	default:
		fmt.Println("usage: led (on|off)")
	}
}

func baudHandler(arg []byte, n int) {
	if n == 1 {
		fmt.Printf("baud_rate: %d\n", baudRate)
		return
	}
	rate, err := strconv.Atoi(stint.Arg(arg))
	if err != nil {
		fmt.Printf("invalid baud rate: %s\n", stint.Arg(arg))
		return
	}
	baudRate = rate
}

func statusHandler(arg []byte, n int) {
	fmt.Printf("led=%v baud_rate=%d\n", ledOn, baudRate)
}

func main() {
	in, err := stint.New(commands, lineBuf[:], stint.WithAutoBackspace(true))
	if err != nil {
		panic(err)
	}

	for _, c := range serialRx {
		switch in.Ingest(c) {
		case stint.NoMatch:
			fmt.Println("unknown command")
		case stint.BufferFull:
			fmt.Println("line too long")
		}
	}
}
