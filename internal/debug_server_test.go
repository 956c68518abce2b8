package internal

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otr-lab/domain"
	"otr-lab/messagestore"
	"otr-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDebugServer_ListsDestructions(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	deadline := time.Now().Add(time.Minute)
	nonce := uuid.New()
	repository := repositories.NewMessageRepository(db, slog.Default())
	req.NoError(repository.StoreMessage(messagestore.NewClientMessage(domain.Message{
		Nonce: nonce, ConversationID: uuid.New(), DestructionDeadline: &deadline,
	})))

	server := httptest.NewServer(NewDebugServer(db, 0, "/inspect", nil, func() map[string]any {
		return map[string]any{"pending": 1}
	}).Handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/inspect")
	req.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(string(body), "DESTRUCTION")
	req.Contains(string(body), nonce.String()[:8])
	req.Contains(string(body), "pending: 1")
}

func TestDefaultMapper(t *testing.T) {
	req := require.New(t)

	row := DefaultMapper("client:failed:alice_phone", nil)
	req.Equal("FAILED_SESSION", row.Type)
	req.Equal("alice_phone", row.EntityID)

	row = DefaultMapper("user:alice:client:phone", nil)
	req.Equal("USER_CLIENT", row.Type)
	req.Equal("alice", row.Namespace)
	req.Equal("phone", row.EntityID)

	row = DefaultMapper("message:conv:nonce", []byte{0xff})
	req.Equal("MESSAGE", row.Type)
	req.Contains(row.Detail, "Invalid record")

	row = DefaultMapper("other", []byte("abc"))
	req.Equal("RAW", row.Type)
	req.Equal("Size: 3 bytes", row.Detail)
}
