package conf

import (
	"bytes"
	"io"
	"os"
)

// NewEnvExpandedReader replaces ${VAR} and $VAR references in r with the
// values from the environment.
func NewEnvExpandedReader(r io.Reader) io.Reader {
	data, err := io.ReadAll(r)
	if err != nil {
		return &errReader{err}
	}

	expanded := os.ExpandEnv(string(data))
	return bytes.NewReader([]byte(expanded))
}

type errReader struct {
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	return 0, r.err
}
