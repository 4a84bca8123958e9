package eventpublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"NewsPortal/internal/domain"
)

type stuckPublisher struct {
	release chan struct{}
}

func (s *stuckPublisher) PublishBreaking(context.Context, []domain.Article) error {
	<-s.release
	return nil
}

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) PublishBreaking(context.Context, []domain.Article) error {
	c.calls++
	return c.err
}

func TestFanoutMirrorFailureIsIsolated(t *testing.T) {
	primary := &countingPublisher{}
	broken := &countingPublisher{err: errors.New("telegram down")}
	healthy := &countingPublisher{}

	f := NewFanout(primary, nil, broken, nil, healthy)
	err := f.PublishBreaking(context.Background(), []domain.Article{{ID: "1"}})

	assert.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestFanoutReturnsPrimaryError(t *testing.T) {
	primary := &countingPublisher{err: errors.New("encode")}
	mirror := &countingPublisher{}

	err := NewFanout(primary, nil, mirror).PublishBreaking(context.Background(), nil)

	assert.ErrorContains(t, err, "encode")
	assert.Equal(t, 1, mirror.calls)
}

func TestFanoutAbandonsStuckMirror(t *testing.T) {
	primary := &countingPublisher{}
	stuck := &stuckPublisher{release: make(chan struct{})}
	t.Cleanup(func() { close(stuck.release) })
	healthy := &countingPublisher{}

	f := NewFanout(primary, nil, stuck, healthy)
	f.mirrorTimeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- f.PublishBreaking(context.Background(), []domain.Article{{ID: "1"}}) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("PublishBreaking blocked on a stuck mirror")
	}
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, healthy.calls)
}
