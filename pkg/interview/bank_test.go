package interview

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/generate"
)

func countingReply(calls *atomic.Int32, text string, err error) generate.Func {
	return func(ctx context.Context, req generate.Request) (string, error) {
		calls.Add(1)
		return text, err
	}
}

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBankCachesGenerated(t *testing.T) {
	var calls atomic.Int32
	bank := NewBank(countingReply(&calls, questionJSON, nil),
		WithBankCache(newTestCache(t), nil),
		WithDelay(time.Millisecond))

	ctx := context.Background()
	first, err := bank.Questions(ctx, 3, []string{"Linked Lists", "Trees & Graphs"})
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(first) != 2 || calls.Load() != 2 {
		t.Fatalf("got %d questions after %d calls, want 2 and 2", len(first), calls.Load())
	}

	again, err := bank.Question(ctx, 3, "Trees & Graphs")
	if err != nil {
		t.Fatalf("Question: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("cached question regenerated: %d calls", calls.Load())
	}
	if again.ID != first[1].ID || again.Topic != "Trees & Graphs" {
		t.Errorf("cached question = %+v, want %+v", again, first[1])
	}

	if _, err := bank.Question(ctx, 4, "Trees & Graphs"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("other category should miss the cache: %d calls", calls.Load())
	}
}

func TestBankSkipsFallbacks(t *testing.T) {
	var calls atomic.Int32
	bank := NewBank(countingReply(&calls, "", errDown),
		WithBankCache(newTestCache(t), nil),
		WithDelay(time.Millisecond))

	ctx := context.Background()
	for range 2 {
		q, err := bank.Question(ctx, 1, "State Management")
		if err != nil {
			t.Fatalf("Question: %v", err)
		}
		if !q.Fallback || q.Topic != "State Management" {
			t.Errorf("Question() = %+v, want fallback for topic", q)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (fallbacks are not cached)", calls.Load())
	}
}

func TestBankCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := generate.Func(func(context.Context, generate.Request) (string, error) {
		cancel()
		return questionJSON, nil
	})
	bank := NewBank(gen, WithDelay(time.Hour))

	got, err := bank.Questions(ctx, 1, []string{"a", "b", "c"})
	if err != context.Canceled {
		t.Errorf("Questions() error = %v, want context.Canceled", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d questions, want 1 before cancellation", len(got))
	}
}
