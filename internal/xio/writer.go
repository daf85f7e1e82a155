package xio

import (
	"io"
)

// NopWriteCloser adapts a writer that must outlive the consumer, such as os.Stdout,
// to io.WriteCloser without closing it.
func NopWriteCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{Writer: w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
