package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// maxLineSize bounds a single stdio message. Tool results embed whole
// envelopes as text, so lines can grow well past bufio's default.
const maxLineSize = 4 * 1024 * 1024

// RunStdio serves the bridge over newline-delimited JSON-RPC, one message
// per line, until in is closed or ctx is cancelled.
func (b *Bridge) RunStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := b.HandleMessage(ctx, line)
		if resp == nil {
			continue
		}
		data, err := json.Marshal(resp)
		if err != nil {
			b.logger.Error("encode response failed", zap.Error(err))
			continue
		}
		if _, err := out.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return scanner.Err()
}
