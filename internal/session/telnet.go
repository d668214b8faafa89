package session

// telnet 协议字节
const (
	iac  byte = 0xFF
	dont byte = 0xFE
	will byte = 0xFB
	sb   byte = 0xFA
	se   byte = 0xF0

	optEcho            byte = 0x01
	optSuppressGoAhead byte = 0x03
)

// characterMode 让客户端按键立即发送，并由服务端负责回显
var characterMode = []byte{
	iac, will, optEcho,
	iac, 0xFD, optSuppressGoAhead, // DO
	iac, will, optSuppressGoAhead,
}

type telnetState int

const (
	telnetData telnetState = iota
	telnetCommand
	telnetOption
	telnetSub
	telnetSubIAC
)

// telnetFilter 从输入流中剥离 telnet 命令序列，可跨多次读取保持状态
type telnetFilter struct {
	state telnetState
}

// filter 返回 b 是否为普通数据字节
func (f *telnetFilter) filter(b byte) bool {
	switch f.state {
	case telnetCommand:
		switch {
		case b == iac: // IAC IAC 表示数据 0xFF，命令行中忽略
			f.state = telnetData
		case b >= will && b <= dont:
			f.state = telnetOption
		case b == sb:
			f.state = telnetSub
		default:
			f.state = telnetData
		}
		return false
	case telnetOption:
		f.state = telnetData
		return false
	case telnetSub:
		if b == iac {
			f.state = telnetSubIAC
		}
		return false
	case telnetSubIAC:
		if b == se {
			f.state = telnetData
		} else {
			f.state = telnetSub
		}
		return false
	}

	if b == iac {
		f.state = telnetCommand
		return false
	}
	return true
}
