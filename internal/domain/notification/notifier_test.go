package notification

import (
	"context"
	"testing"

	"hirepath/internal/common"
)

func TestNoopNotify(t *testing.T) {
	var n Notifier = Noop{}
	if err := n.Notify(context.Background(), common.NewUUID(), "t", "m", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
