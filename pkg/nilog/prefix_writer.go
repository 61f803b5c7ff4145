package nilog

import (
	"bytes"
	"io"
)

// PrefixWriter stamps a fixed prefix on every complete line written
// through it, holding back any partial trailing line until the next
// Write completes it with a newline. New uses it to prefix every line
// of the logger's plain-text (non-JSON) output.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter returns a PrefixWriter that prefixes every line
// written to it with prefix before forwarding it to w.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: w,
	}
}

// Write buffers p until one or more full lines accumulate, then emits
// each as prefix+line to the underlying writer. A trailing partial
// line is held back for the next call.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	if _, err := pw.buffer.Write(p); err != nil {
		return 0, err
	}

	for {
		line, err := pw.buffer.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				if _, wErr := pw.buffer.Write(line); wErr != nil {
					return 0, wErr
				}
			}
			break
		}

		if _, err := pw.writer.Write([]byte(pw.prefix)); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(line); err != nil {
			return 0, err
		}
	}

	return n, nil
}
