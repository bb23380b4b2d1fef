package goroutine

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	log, hook := test.NewNullLogger()
	rh := NewRecoveryHandler(log)

	done := make(chan struct{})
	rh.SafeGo("boom", func() {
		defer close(done)
		panic("oops")
	})
	<-done

	require.Eventually(t, func() bool { return len(hook.AllEntries()) == 1 }, time.Second, 10*time.Millisecond)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Data["task"])
	assert.Equal(t, "oops", entry.Data["panic"])
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	rh := NewRecoveryHandler(log)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	got := make(chan any, 1)
	rh.SafeGoWithContext(ctx, "ctx", func(ctx context.Context) { got <- ctx.Value(key{}) })

	assert.Equal(t, "v", <-got)
}

func TestRun_SwallowsPanic(t *testing.T) {
	log, hook := test.NewNullLogger()
	NewRecoveryHandler(log).Run("inline", func() { panic(42) })
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, 42, hook.LastEntry().Data["panic"])
}
