package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable はAPIサーバーに接続できなかったことを表します。
	ErrUnreachable = errors.New("api server unreachable")
	// ErrNotFound はストアが404を返したことを表します。
	ErrNotFound = errors.New("not found")
)

// NetworkError は接続エラーです。errors.Is(err, ErrUnreachable) が true になります。
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error: Unable to connect to the API server. Please ensure the server is running at %s", e.BaseURL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrUnreachable }

// RemoteError はストアが2xx以外を返した場合のエラーです。Body はサーバーの詳細メッセージです。
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d - %s", e.StatusCode, e.Body)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
