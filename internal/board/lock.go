// internal/board/lock.go
package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// lock takes an exclusive advisory lock for this bus address.
// The returned func releases it.
func (b *Board) lock() (func(), error) {
	if b.opts.LockDir == "" {
		return func() {}, nil
	}

	name := strings.NewReplacer("/", "_", ":", "_").Replace(b.opts.BusName)
	path := filepath.Join(b.opts.LockDir, fmt.Sprintf("crt8-%s-%02x.lock", name, b.addr))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, err
	}
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
