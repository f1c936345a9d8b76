package utils

// CountingWriter drops written bytes and keeps only their total
type CountingWriter struct {
	n int64
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

func (w *CountingWriter) WriteString(s string) (int, error) {
	w.n += int64(len(s))
	return len(s), nil
}

func (w *CountingWriter) Count() int64 { return w.n }

func (w *CountingWriter) Reset() { w.n = 0 }
