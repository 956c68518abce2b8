package keystore

import (
	"fmt"
	"sync"

	"otr-lab/contract"
)

// EncryptionContext serializes every access to one session directory.
// Callers never touch the directory outside of Perform.
type EncryptionContext struct {
	mu        sync.Mutex
	path      string
	directory contract.SessionDirectory
}

func NewEncryptionContext(path string, directory contract.SessionDirectory) *EncryptionContext {
	return &EncryptionContext{path: path, directory: directory}
}

func (c *EncryptionContext) Path() string {
	return c.path
}

// Perform runs fn with exclusive access to the directory. Pending session
// advances are committed when fn succeeds and discarded when it fails.
func (c *EncryptionContext) Perform(fn func(directory contract.SessionDirectory) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.directory); err != nil {
		c.directory.DiscardCache()
		return err
	}
	if err := c.directory.Commit(); err != nil {
		return fmt.Errorf("commit sessions: %w", err)
	}
	return nil
}
