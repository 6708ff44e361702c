package mocks

import (
	"context"
	"io"
	"strconv"
	"sync"
)

// MockUploader реализует media.Uploader: читает файл целиком и возвращает URL
type MockUploader struct {
	mu sync.Mutex

	URL string
	Err error

	Uploads   int
	Filenames []string
	Sizes     []int
}

func NewMockUploader(url string) *MockUploader {
	return &MockUploader{URL: url}
}

func (m *MockUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads++
	m.Filenames = append(m.Filenames, filename)
	m.Sizes = append(m.Sizes, len(data))

	if m.Err != nil {
		return "", m.Err
	}
	return m.URL, nil
}

// MockTokenIssuer выдает токены вида "token-<id>"
type MockTokenIssuer struct {
	Err error
}

func (m MockTokenIssuer) Issue(userID uint) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "token-" + strconv.FormatUint(uint64(userID), 10), nil
}
