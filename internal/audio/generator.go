package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vocab-learning/internal/models"
)

const (
	DefaultWorkers = 10

	// 10 workers pausing 700ms each stay under 1000 requests per minute.
	DefaultPause = 700 * time.Millisecond
)

// Synthesizer turns text into encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type VocabularyStore interface {
	ListMissingAudio(ctx context.Context) ([]models.Vocabulary, error)
	SetAudioPath(ctx context.Context, id int64, path string) error
}

// Summary reports one Run.
type Summary struct {
	Pending   int
	Generated int
	Failed    int
}

type Generator struct {
	store   VocabularyStore
	synth   Synthesizer
	dir     string
	workers int
	pause   time.Duration
	log     logrus.FieldLogger
}

type Option func(*Generator)

func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

func WithPause(d time.Duration) Option {
	return func(g *Generator) { g.pause = d }
}

func NewGenerator(store VocabularyStore, synth Synthesizer, dir string, log logrus.FieldLogger, opts ...Option) *Generator {
	g := &Generator{
		store:   store,
		synth:   synth,
		dir:     dir,
		workers: DefaultWorkers,
		pause:   DefaultPause,
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FileName is the media file a vocabulary's pronunciation is stored under.
func FileName(id int64) string {
	return fmt.Sprintf("vocab_%d.mp3", id)
}

// Run synthesizes every vocabulary without audio. A failed word is logged and
// counted; it does not stop the others.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", g.dir, err)
	}

	pending, err := g.store.ListMissingAudio(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Pending: len(pending)}
	if len(pending) == 0 {
		g.log.Info("every vocabulary already has audio")
		return sum, nil
	}
	g.log.WithField("pending", len(pending)).Info("generating audio")

	jobs := make(chan models.Vocabulary)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < g.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				err := g.process(ctx, v)
				mu.Lock()
				if err != nil {
					sum.Failed++
				} else {
					sum.Generated++
				}
				mu.Unlock()
				if g.pause > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(g.pause):
					}
				}
			}
		}()
	}

feed:
	for _, v := range pending {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- v:
		}
	}
	close(jobs)
	wg.Wait()

	g.log.WithFields(logrus.Fields{
		"generated": sum.Generated,
		"failed":    sum.Failed,
	}).Info("audio generation finished")
	return sum, ctx.Err()
}

func (g *Generator) process(ctx context.Context, v models.Vocabulary) error {
	log := g.log.WithFields(logrus.Fields{"vocabulary_id": v.ID, "word": v.Word})

	content, err := g.synth.Synthesize(ctx, v.Word)
	if err != nil {
		log.WithError(err).Error("synthesis failed")
		return err
	}

	name := FileName(v.ID)
	if err := os.WriteFile(filepath.Join(g.dir, name), content, 0o644); err != nil {
		log.WithError(err).Error("failed to write audio file")
		return err
	}

	// Stored with forward slashes so the path doubles as a URL.
	stored := filepath.ToSlash(filepath.Join(filepath.Base(g.dir), name))
	if err := g.store.SetAudioPath(ctx, v.ID, stored); err != nil {
		log.WithError(err).Error("failed to store audio path")
		return err
	}
	log.WithField("path", stored).Debug("audio saved")
	return nil
}
