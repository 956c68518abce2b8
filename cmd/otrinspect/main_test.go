package main

import (
	"bytes"
	"testing"
	"time"

	"otr-lab/repositories"

	"github.com/gookit/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	req := require.New(t)
	color.Disable()

	// Given one overdue and one future destruction
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	overdue := repositories.PendingDestruction{ConversationID: uuid.New(), MessageID: uuid.New(), Deadline: now.Add(-time.Minute)}
	future := repositories.PendingDestruction{ConversationID: uuid.New(), MessageID: uuid.New(), Deadline: now.Add(90 * time.Second)}

	// When the table is rendered
	var out bytes.Buffer
	render(&out, []repositories.PendingDestruction{overdue, future}, now)

	// Then both rows are listed with their status
	req.Contains(out.String(), overdue.MessageID.String())
	req.Contains(out.String(), future.MessageID.String())
	req.Contains(out.String(), "overdue")
	req.Contains(out.String(), "1m30s")
	req.Contains(out.String(), "2 pending destruction(s)")
}

func TestOpenDB_RequiresPath(t *testing.T) {
	_, err := openDB("")
	require.Error(t, err)
}
