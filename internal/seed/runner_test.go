package seed_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/infrastructure/storage/memory"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

type recordingObserver struct {
	mu      sync.Mutex
	started int
	pairs   []seed.PairResult
	summary *seed.Summary
	onPair  func()
}

func (o *recordingObserver) Start(total int) { o.started = total }

func (o *recordingObserver) Pair(res seed.PairResult) {
	o.mu.Lock()
	o.pairs = append(o.pairs, res)
	o.mu.Unlock()
	if o.onPair != nil {
		o.onPair()
	}
}

func (o *recordingObserver) Finish(s seed.Summary) { o.summary = &s }

func seedUsers(t *testing.T, store *memory.Store, n int) []seed.Entity {
	t.Helper()
	out := make([]seed.Entity, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.CreateUser(context.Background(), directory.User{Login: "u" + string(rune('a'+i))})
		require.NoError(t, err)
		out = append(out, seed.User(id))
	}
	return out
}

func TestRunnerFieldMajorOrder(t *testing.T) {
	store := memory.New()
	users := seedUsers(t, store, 3)
	fields := []metadata.FieldDefinition{
		field(metadata.TypeCheckbox, "first"),
		field(metadata.TypeNumber, "second"),
	}

	obs := &recordingObserver{}
	r := seed.NewRunner(seed.NewDispatcher(seed.NewSource(testSeed), store, store),
		seed.WithWorkers(1), seed.WithObserver(obs))

	summary, err := r.Run(context.Background(), fields, users)
	require.NoError(t, err)
	assert.Equal(t, 6, obs.started)
	require.Len(t, obs.pairs, 6)
	for i, res := range obs.pairs {
		wantField := fields[i/len(users)].MetaKey
		assert.Equal(t, wantField, res.Field.MetaKey)
		assert.Equal(t, users[i%len(users)], res.Entity)
	}
	assert.Equal(t, 6, summary.Dispatched)
	assert.Equal(t, 6, summary.Processed())
	require.NotNil(t, obs.summary)
	assert.Equal(t, summary, *obs.summary)
}

func TestRunnerContinuesPastSkipsAndFailures(t *testing.T) {
	store := memory.New()
	users := seedUsers(t, store, 2)
	ghost := seed.User(9999) // unknown user makes the write fail

	fields := []metadata.FieldDefinition{
		field(metadata.TypeFile, "avatar"),
		field(metadata.TypeSelect, "one", "x"),
		field(metadata.TypeCheckbox, "ok"),
	}
	r := seed.NewRunner(seed.NewDispatcher(seed.NewSource(testSeed), store, store), seed.WithWorkers(3))

	summary, err := r.Run(context.Background(), fields, append(users, ghost))
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Total)
	assert.Equal(t, 2, summary.Dispatched)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Skipped[apperror.CodeUnsupportedType])
	assert.Equal(t, 3, summary.Skipped[apperror.CodeInsufficientOptions])
	assert.Equal(t, 6, summary.SkippedTotal())
	assert.False(t, summary.Canceled)
	assert.Len(t, store.Writes(), 2)
}

func TestRunnerStopsBetweenPairsOnCancel(t *testing.T) {
	store := memory.New()
	users := seedUsers(t, store, 5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := &recordingObserver{onPair: cancel}
	r := seed.NewRunner(seed.NewDispatcher(seed.NewSource(testSeed), store, store),
		seed.WithWorkers(1), seed.WithObserver(obs))

	fields := []metadata.FieldDefinition{field(metadata.TypeCheckbox, "a"), field(metadata.TypeCheckbox, "b")}
	summary, err := r.Run(ctx, fields, users)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Canceled)
	assert.Equal(t, 1, summary.Processed())
	assert.Len(t, store.Writes(), 1)
	require.NotNil(t, obs.summary)
	assert.True(t, obs.summary.Canceled)
}

func TestRunnerConcurrentRunIsReproducible(t *testing.T) {
	fields := []metadata.FieldDefinition{
		field(metadata.TypeText, "bio"),
		field(metadata.TypeMultiselect, "langs", "go", "php", "js", "rust"),
		field(metadata.TypeNumber, "score"),
	}
	run := func(workers int) map[int64]map[string]seed.Value {
		store := memory.New()
		users := seedUsers(t, store, 8)
		r := seed.NewRunner(seed.NewDispatcher(seed.NewSource(testSeed), store, store), seed.WithWorkers(workers))
		_, err := r.Run(context.Background(), fields, users)
		require.NoError(t, err)

		out := make(map[int64]map[string]seed.Value)
		for _, u := range users {
			out[u.ID] = make(map[string]seed.Value)
			for _, f := range fields {
				v, ok := store.UserMeta(u.ID, f.MetaKey)
				require.True(t, ok)
				out[u.ID][f.MetaKey] = v
			}
		}
		return out
	}
	assert.Equal(t, run(1), run(8))
}

func TestValueJSON(t *testing.T) {
	b, err := json.Marshal(seed.KeysValue([]string{"a", "b"}))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))

	b, err = json.Marshal(seed.BoolValue(true))
	require.NoError(t, err)
	assert.Equal(t, "true", string(b))

	_, err = json.Marshal(seed.Value{})
	assert.Error(t, err)
}
