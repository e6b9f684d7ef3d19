package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFirestoreStore runs against the Firestore emulator when
// FIRESTORE_EMULATOR_HOST is set. Each run uses a fresh project id.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	projectID := fmt.Sprintf("test-%d", time.Now().UnixNano())
	s, err := NewFirestoreStore(context.Background(), projectID, "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	RunStoreTests(t, func(t *testing.T) Store {
		return s
	})
}
