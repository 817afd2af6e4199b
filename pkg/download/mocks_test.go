package download

import (
	"bytes"
	"context"
	"io"
)

// --- Mocks ---

type mockHTTPClient struct {
	calls int
	data  []byte
	err   error
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockReader struct {
	data   map[string][]byte
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	data, ok := m.data[uri]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for k := range m.data {
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}
