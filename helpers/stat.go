package helpers

import (
	"expvar"
	"io"
)

// StatReader adds bytes read plus fixed F per Read call to expvar counter.
type StatReader struct {
	R io.Reader
	V *expvar.Int
	F int64
}

var _ io.Reader = &StatReader{}

func NewStatReader(r io.Reader, expvar *expvar.Int, fix int64) io.Reader {
	return &StatReader{R: r, F: fix, V: expvar}
}

func (sr *StatReader) Read(p []byte) (n int, err error) {
	n, err = sr.R.Read(p)
	sr.V.Add(int64(n) + sr.F)
	return
}
