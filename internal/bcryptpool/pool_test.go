package bcryptpool

import (
	"context"
	"testing"
)

func TestHashThenCompareRoundTrips(t *testing.T) {
	p := New(2)
	defer p.Close()

	ctx := context.Background()
	hash, err := p.Hash(ctx, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if err := p.Compare(ctx, hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected matching password to compare clean: %v", err)
	}
	if err := p.Compare(ctx, hash, "wrong password"); err == nil {
		t.Fatal("expected mismatched password to fail comparison")
	}
}

func TestConcurrentHashing(t *testing.T) {
	p := New(4)
	defer p.Close()

	ctx := context.Background()
	errCh := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := p.Hash(ctx, "concurrent-password")
			errCh <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Hash: %v", err)
		}
	}
}
