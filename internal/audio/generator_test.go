package audio

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-learning/internal/config"
	"vocab-learning/internal/database"
	"vocab-learning/internal/models"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if text == f.fail {
		return nil, errors.New("quota exceeded")
	}
	return []byte("mp3:" + text), nil
}

func newDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:", ConnectRetries: 1}, logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return db
}

func seedWords(t *testing.T, db *database.DB, words ...string) []int64 {
	t.Helper()
	ctx := context.Background()
	topic := &models.VocabularyTopic{Name: "Animals"}
	require.NoError(t, database.NewTopicDAO(db).Create(ctx, topic))

	vocabs := database.NewVocabularyDAO(db)
	ids := make([]int64, 0, len(words))
	for _, w := range words {
		v := &models.Vocabulary{TopicID: topic.ID, Word: w, Meaning: "meaning of " + w, CreatedAt: time.Now()}
		require.NoError(t, vocabs.Create(ctx, v))
		ids = append(ids, v.ID)
	}
	return ids
}

func TestGeneratorRun(t *testing.T) {
	db := newDB(t)
	ids := seedWords(t, db, "cat", "dog", "owl")
	vocabs := database.NewVocabularyDAO(db)
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "media")
	synth := &fakeSynth{}
	log, _ := logtest.NewNullLogger()
	gen := NewGenerator(vocabs, synth, dir, log, WithWorkers(2), WithPause(0))

	sum, err := gen.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Pending: 3, Generated: 3}, sum)
	assert.ElementsMatch(t, []string{"cat", "dog", "owl"}, synth.calls)

	content, err := os.ReadFile(filepath.Join(dir, FileName(ids[0])))
	require.NoError(t, err)
	assert.Equal(t, "mp3:cat", string(content))

	v, err := vocabs.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "media/" + FileName(ids[0]), Valid: true}, v.AudioPath)

	// Nothing left
	sum, err = gen.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, sum)
	assert.Len(t, synth.calls, 3)
}

func TestGeneratorContinuesPastFailures(t *testing.T) {
	db := newDB(t)
	ids := seedWords(t, db, "cat", "dog")
	vocabs := database.NewVocabularyDAO(db)
	ctx := context.Background()

	log, hook := logtest.NewNullLogger()
	gen := NewGenerator(vocabs, &fakeSynth{fail: "dog"}, t.TempDir(), log, WithPause(0))

	sum, err := gen.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Pending: 2, Generated: 1, Failed: 1}, sum)

	failed := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "synthesis failed" {
			failed++
			assert.Equal(t, ids[1], e.Data["vocabulary_id"])
		}
	}
	assert.Equal(t, 1, failed)

	pending, err := vocabs.ListMissingAudio(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dog", pending[0].Word)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "vocab_42.mp3", FileName(42))
}
