// Package linebuf 实现定长行缓冲区
//
// 缓冲区内存由调用者提供，最后一个字节始终保留给行结束时写入的 0 终止符，
// 因此容量为 C 的缓冲区最多存放 C-1 个内容字节。
package linebuf

// Terminator 行结束时写入的终止符
const Terminator byte = 0

// Buffer 行缓冲区
type Buffer struct {
	data []byte
	fill int
}

// New 在调用者提供的内存上创建行缓冲区，不复制也不释放 data
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Append 追加一个字节，缓冲区已满时返回 false 且内容不变
func (b *Buffer) Append(c byte) bool {
	if b.fill >= len(b.data)-1 {
		return false
	}
	b.data[b.fill] = c
	b.fill++
	return true
}

// DeleteLast 删除最后一个字节，缓冲区为空时什么也不做
func (b *Buffer) DeleteLast() {
	if b.fill == 0 {
		return
	}
	b.fill--
	b.data[b.fill] = 0
}

// Terminate 写入终止符并返回完整的一行（含终止符）
func (b *Buffer) Terminate() []byte {
	b.data[b.fill] = Terminator
	b.fill++
	return b.data[:b.fill]
}

// Len 当前占用的字节数
func (b *Buffer) Len() int { return b.fill }

// Cap 缓冲区总容量，含保留的终止符位置
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes 当前内容的只读视图
func (b *Buffer) Bytes() []byte { return b.data[:b.fill] }

// Clear 清空缓冲区，不清零内存
func (b *Buffer) Clear() { b.fill = 0 }
