package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConversation struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeConversation) Ask(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStore_TaskIDs(t *testing.T) {
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(fixedClock(day))

	s1, err := store.Create(nil)
	require.NoError(t, err)
	s2, err := store.Create(nil)
	require.NoError(t, err)

	assert.Equal(t, "1015-01", s1.ID)
	assert.Equal(t, "1015-02", s2.ID)
	assert.NotEqual(t, s1.RequestID, s2.RequestID)

	store.now = fixedClock(day.AddDate(0, 0, 1))
	s3, err := store.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, "1016-01", s3.ID)

	assert.Equal(t, []string{"1016-01", "1015-02", "1015-01"}, store.List())
}

func TestMemoryStore_NextIDUsesHighestSuffix(t *testing.T) {
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(fixedClock(day))
	store.sessions["1015-07"] = &Session{ID: "1015-07"}
	store.sessions["1015-xx"] = &Session{ID: "1015-xx"}
	store.sessions["1014-30"] = &Session{ID: "1014-30"}

	s, err := store.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, "1015-08", s.ID)
}

func TestMemoryStore_ListNumericOrder(t *testing.T) {
	store := NewMemoryStore()
	for _, id := range []string{"1015-99", "1015-100", "1014-02"} {
		store.sessions[id] = &Session{ID: id}
	}
	assert.Equal(t, []string{"1015-100", "1015-99", "1014-02"}, store.List())
}

func TestMemoryStore_Get(t *testing.T) {
	store := NewMemoryStore()
	s, err := store.Create(nil)
	require.NoError(t, err)

	got, ok := store.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = store.Get("0000-00")
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Create(nil)
		}()
	}
	wg.Wait()
	assert.Len(t, store.List(), 20)
}

func TestSession_Ask(t *testing.T) {
	conv := &fakeConversation{replies: []string{"报告", "回答"}}
	store := NewMemoryStore()
	s, err := store.Create(conv)
	require.NoError(t, err)

	s.Append(RoleUser, "【系统指令】分析数据与素材")
	s.Append(RoleModel, "初始报告")

	reply, err := s.Ask(context.Background(), "为什么ROAS下降?")
	require.NoError(t, err)
	assert.Equal(t, "报告", reply)

	history := s.History()
	require.Len(t, history, 4)
	assert.Equal(t, RoleUser, history[2].Role)
	assert.Equal(t, "为什么ROAS下降?", history[2].Content)
	assert.Equal(t, RoleModel, history[3].Role)
	assert.Equal(t, []string{"为什么ROAS下降?"}, conv.prompts)
}

func TestSession_AskFailureKeepsQuestion(t *testing.T) {
	conv := &fakeConversation{err: errors.New("quota exceeded")}
	s, err := NewMemoryStore().Create(conv)
	require.NoError(t, err)

	_, err = s.Ask(context.Background(), "再来一次")
	require.Error(t, err)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleUser, history[0].Role)
}

func TestSession_AskWithoutConversation(t *testing.T) {
	s, err := NewMemoryStore().Create(nil)
	require.NoError(t, err)

	_, err = s.Ask(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoConversation)
	assert.Empty(t, s.History())
}
