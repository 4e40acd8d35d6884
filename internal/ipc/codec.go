package ipc

import (
	"bufio"
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"io"

	"github.com/zx06/keybridge/internal/errors"
)

// Framing 决定 stdio 上的消息分帧方式。
type Framing string

const (
	// FramingLines：每行一个 JSON 对象。
	FramingLines Framing = "lines"
	// FramingNative：浏览器 native messaging 分帧，4 字节小端长度 + JSON。
	FramingNative Framing = "native"
)

// MaxFrameSize 是单帧上限（1 MiB）。
const MaxFrameSize = 1 << 20

func IsValidFraming(f Framing) bool {
	switch f {
	case FramingLines, FramingNative:
		return true
	default:
		return false
	}
}

// FrameReader 读取一帧；流正常结束时返回 io.EOF。
type FrameReader interface {
	ReadFrame() ([]byte, error)
}

// FrameWriter 写出一帧。
type FrameWriter interface {
	WriteFrame(payload []byte) error
}

func NewFrameReader(f Framing, r io.Reader) (FrameReader, error) {
	switch f {
	case FramingLines:
		s := bufio.NewScanner(r)
		s.Buffer(make([]byte, 0, 64*1024), MaxFrameSize)
		return &lineReader{s: s}, nil
	case FramingNative:
		return &nativeReader{r: bufio.NewReader(r)}, nil
	default:
		return nil, errors.New(errors.CodeCfgInvalid, "invalid framing", map[string]any{"framing": string(f)})
	}
}

func NewFrameWriter(f Framing, w io.Writer) (FrameWriter, error) {
	switch f {
	case FramingLines:
		return &lineWriter{w: w}, nil
	case FramingNative:
		return &nativeWriter{w: w}, nil
	default:
		return nil, errors.New(errors.CodeCfgInvalid, "invalid framing", map[string]any{"framing": string(f)})
	}
}

type lineReader struct {
	s *bufio.Scanner
}

func (l *lineReader) ReadFrame() ([]byte, error) {
	for l.s.Scan() {
		line := bytes.TrimSpace(l.s.Bytes())
		if len(line) == 0 {
			continue
		}
		// Scanner 会复用缓冲区
		return append([]byte(nil), line...), nil
	}
	if err := l.s.Err(); err != nil {
		if stderrors.Is(err, bufio.ErrTooLong) {
			return nil, errors.New(errors.CodeIPCProtocol, "frame too large", map[string]any{"max": MaxFrameSize})
		}
		return nil, errors.Wrap(errors.CodeIPCProtocol, "failed to read frame", nil, err)
	}
	return nil, io.EOF
}

type lineWriter struct {
	w io.Writer
}

func (l *lineWriter) WriteFrame(payload []byte) error {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, payload...)
	buf = append(buf, '\n')
	_, err := l.w.Write(buf)
	return err
}

type nativeReader struct {
	r io.Reader
}

func (n *nativeReader) ReadFrame() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(n.r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(errors.CodeIPCProtocol, "truncated frame header", nil, err)
	}
	size := binary.LittleEndian.Uint32(hdr[:])
	if size > MaxFrameSize {
		return nil, errors.New(errors.CodeIPCProtocol, "frame too large", map[string]any{"size": size, "max": MaxFrameSize})
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(n.r, payload); err != nil {
		return nil, errors.Wrap(errors.CodeIPCProtocol, "truncated frame payload", map[string]any{"size": size}, err)
	}
	return payload, nil
}

type nativeWriter struct {
	w io.Writer
}

func (n *nativeWriter) WriteFrame(payload []byte) error {
	if len(payload) > MaxFrameSize {
		return errors.New(errors.CodeIPCProtocol, "frame too large", map[string]any{"size": len(payload), "max": MaxFrameSize})
	}
	buf := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	_, err := n.w.Write(buf)
	return err
}
