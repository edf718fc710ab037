package sessionaccess

import (
	"fmt"

	"greenroom/internal/ipc"
	"greenroom/internal/session"
)

// Handle represents a session access handle and its cleanup function.
type Handle struct {
	Access Access
	close  func() error
}

// Close releases resources associated with the handle.
func (h Handle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// OpenWithFallback tries IPC-backed access first, then falls back to direct store access.
func OpenWithFallback(
	dial func() (*ipc.Client, error),
	openStore func() (*session.Store, error),
) (Handle, error) {
	if dial != nil {
		if client, err := dial(); err == nil {
			return Handle{
				Access: NewIPCAccess(client),
				close:  client.Close,
			}, nil
		}
	}

	if openStore == nil {
		return Handle{}, fmt.Errorf("open session store: no store opener configured")
	}
	store, err := openStore()
	if err != nil {
		return Handle{}, fmt.Errorf("open session store: %w", err)
	}
	return Handle{
		Access: NewStoreAccess(store),
		close:  store.Close,
	}, nil
}
