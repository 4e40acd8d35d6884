package ipc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/keychain"
	"github.com/zx06/keybridge/internal/log"
)

// Server 在一对 reader/writer（通常是 stdin/stdout）上逐帧处理请求。
// 请求按到达顺序串行处理，每个请求恰好一个响应。
type Server struct {
	dispatcher *Dispatcher
	framing    Framing
	logger     *slog.Logger
}

func NewServer(d *Dispatcher, framing Framing, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New(errors.CodeInternal, "dispatcher is nil", nil)
	}
	if !IsValidFraming(framing) {
		return nil, errors.New(errors.CodeCfgInvalid, "invalid framing", map[string]any{"framing": string(framing)})
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Server{dispatcher: d, framing: framing, logger: logger}, nil
}

type frame struct {
	data []byte
	err  error
}

// Serve 处理请求直到 r 结束（返回 nil）、ctx 取消（返回 ctx.Err()）或出现协议错误。
// 单帧 JSON 不合法不会中断循环，而是回复一个失败结果。
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	fr, err := NewFrameReader(s.framing, r)
	if err != nil {
		return err
	}
	fw, err := NewFrameWriter(s.framing, w)
	if err != nil {
		return err
	}

	frames := make(chan frame)
	go func() {
		defer close(frames)
		for {
			data, err := fr.ReadFrame()
			select {
			case frames <- frame{data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	s.logger.Info("serve started", "framing", string(s.framing))
	handled := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("serve stopped", "reason", "canceled", "handled", handled)
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return ctx.Err()
			}
			if f.err != nil {
				if stderrors.Is(f.err, io.EOF) {
					s.logger.Info("serve stopped", "reason", "eof", "handled", handled)
					return nil
				}
				s.logger.Error("serve aborted", "err", f.err, "handled", handled)
				return f.err
			}
			if err := s.handle(fw, f.data); err != nil {
				return err
			}
			handled++
		}
	}
}

func (s *Server) handle(fw FrameWriter, data []byte) error {
	var resp Response
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("invalid request frame", "err", err)
		resp = Response{Result: keychain.Failf("invalid request: " + err.Error())}
	} else {
		s.logger.Debug("request", "command", req.Command, "id", string(req.ID))
		resp = s.dispatcher.Invoke(req)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to marshal response", nil, err)
	}
	if err := fw.WriteFrame(b); err != nil {
		return errors.Wrap(errors.CodeIPCProtocol, "failed to write response", nil, err)
	}
	return nil
}
