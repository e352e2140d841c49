// Package secure keeps credential material encrypted while it sits in
// process memory. The AppRole secret-id is read from the environment at
// startup but only needed once, at login time; in between it lives inside a
// memguard enclave rather than a plain Go string.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds a credential in an encrypted memguard enclave. The enclave
// encrypts the data at rest and attempts to mlock it so it cannot be
// swapped out.
type Buffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy() and blocks use after destroy
	destroyed bool
}

// NewBuffer copies data into a protected memory region. The caller keeps
// ownership of the input slice and should zero it.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// Open decrypts the credential into a locked buffer. The caller MUST call
// Destroy() on the returned buffer once the plaintext has been used:
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.String())
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return b.enclave.Open()
}

// Destroy marks the buffer as unusable. Idempotent. The encrypted enclave
// itself is left to the garbage collector; call memguard.Purge() at process
// exit for full cleanup.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
