package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// waitDelay bounds how long Wait keeps draining pipes after the process was
// killed; grandchildren holding the pipes open would otherwise block it.
const waitDelay = 2 * time.Second

// capture runs name with argv and collects both output streams. Cancelling
// ctx kills the process (and its process group where supported).
func capture(ctx context.Context, name string, argv []string, sink Sink) Result {
	cmd := exec.CommandContext(ctx, name, argv...)
	configureProcess(cmd)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return launchFailure(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return launchFailure(err)
	}

	if err := cmd.Start(); err != nil {
		return launchFailure(err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return drain(stdout, &outBuf, Stdout, sink) })
	g.Go(func() error { return drain(stderr, &errBuf, Stderr, sink) })
	// Pipes must be fully read before Wait closes them.
	readErr := g.Wait()
	waitErr := cmd.Wait()

	res := Result{
		Stdout: decode(outBuf.Bytes()),
		Stderr: decode(errBuf.Bytes()),
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		// ExitCode is -1 when the process was terminated by a signal.
		res.ExitCode = int32(exitErr.ExitCode())
	default:
		res.ExitCode = LaunchFailedCode
		res.Stderr = appendLine(res.Stderr, waitErr.Error())
	}
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		res.Stderr = appendLine(res.Stderr, fmt.Sprintf("reading output: %v", readErr))
	}
	if ctxErr := ctx.Err(); ctxErr != nil && res.ExitCode == 0 {
		res.ExitCode = LaunchFailedCode
	}
	return res
}

func launchFailure(err error) Result {
	return Result{
		Stderr:   fmt.Sprintf("failed to launch: %v", err),
		ExitCode: LaunchFailedCode,
	}
}

// drain copies r into buf, forwarding complete UTF-8 sequences to sink.
func drain(r io.Reader, buf *bytes.Buffer, stream Stream, sink Sink) error {
	chunk := make([]byte, 4096)
	var pending []byte
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if sink != nil {
				pending = append(pending, chunk[:n]...)
				var ready []byte
				ready, pending = splitComplete(pending)
				if len(ready) > 0 {
					sink(stream, decode(ready))
				}
			}
		}
		if err != nil {
			if sink != nil && len(pending) > 0 {
				sink(stream, decode(pending))
			}
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// splitComplete separates a trailing, possibly incomplete UTF-8 sequence from
// the bytes before it.
func splitComplete(b []byte) (ready, rest []byte) {
	// A sequence is at most utf8.UTFMax bytes, so only the tail can be cut.
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i], append([]byte(nil), b[len(b)-i:]...)
		}
		break
	}
	return b, nil
}

// decode converts process output to text, replacing invalid sequences.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func appendLine(s, line string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}
