package extract

import (
	"testing"

	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/memory"
)

func newTestStore(t *testing.T) core.ConversationStore {
	t.Helper()
	s, err := memory.NewStore(16)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
