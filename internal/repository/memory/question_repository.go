package memory

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"civics-tutor-be/internal/entity"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/repository/contract"
)

// QuestionRepository is the in-memory flat-index backend: brute-force cosine
// similarity over every stored question. At corpus scale (100 documents) a
// linear scan beats any index. State optionally persists to a JSON snapshot
// file so restarts skip re-embedding.
type QuestionRepository struct {
	mu           sync.RWMutex
	questions    map[int]*entity.CivicsQuestion
	snapshotPath string
}

type snapshotFile struct {
	SavedAt   time.Time                `json:"saved_at"`
	Questions []*entity.CivicsQuestion `json:"questions"`
}

// NewQuestionRepository creates the store and, when snapshotPath is non-empty,
// loads a previous snapshot. A missing snapshot file is not an error.
func NewQuestionRepository(snapshotPath string) (contract.QuestionRepository, error) {
	r := &QuestionRepository{
		questions:    make(map[int]*entity.CivicsQuestion),
		snapshotPath: snapshotPath,
	}
	if snapshotPath != "" {
		if err := r.loadSnapshot(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *QuestionRepository) loadSnapshot() error {
	data, err := os.ReadFile(r.snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for _, q := range snap.Questions {
		r.questions[q.QuestionID] = q
	}
	return nil
}

// saveSnapshot writes the full store to disk. Callers hold at least a read lock.
func (r *QuestionRepository) saveSnapshot() error {
	if r.snapshotPath == "" {
		return nil
	}

	snap := snapshotFile{
		SavedAt:   time.Now(),
		Questions: make([]*entity.CivicsQuestion, 0, len(r.questions)),
	}
	for _, q := range r.questions {
		snap.Questions = append(snap.Questions, q)
	}
	sort.Slice(snap.Questions, func(i, j int) bool {
		return snap.Questions[i].QuestionID < snap.Questions[j].QuestionID
	})

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.snapshotPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.snapshotPath, data, 0o644)
}

func (r *QuestionRepository) Upsert(_ context.Context, question *entity.CivicsQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *question
	if existing, ok := r.questions[question.QuestionID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = &now
	r.questions[question.QuestionID] = &stored

	return r.saveSnapshot()
}

func (r *QuestionRepository) SearchSimilar(_ context.Context, embedding []float32, limit int) ([]*entity.ScoredQuestion, error) {
	if limit <= 0 {
		limit = 3
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]*entity.ScoredQuestion, 0, len(r.questions))
	for _, q := range r.questions {
		scored = append(scored, &entity.ScoredQuestion{
			CivicsQuestion: *q,
			Similarity:     cosineSimilarity(embedding, q.Embedding),
		})
	}

	// Equal scores order by question number so results are deterministic.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].QuestionID < scored[j].QuestionID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *QuestionRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.questions)), nil
}

func (r *QuestionRepository) CountByCategory(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, q := range r.questions {
		counts[q.Category]++
	}
	return counts, nil
}

func (r *QuestionRepository) FindByQuestionID(_ context.Context, questionID int) (*entity.CivicsQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[questionID]
	if !ok {
		return nil, serverutils.ErrQuestionNotFound
	}
	copied := *q
	return &copied, nil
}

func (r *QuestionRepository) FindRandom(_ context.Context) (*entity.CivicsQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.questions) == 0 {
		return nil, serverutils.ErrEmptyStore
	}

	ids := make([]int, 0, len(r.questions))
	for id := range r.questions {
		ids = append(ids, id)
	}
	q := r.questions[ids[rand.Intn(len(ids))]]
	copied := *q
	return &copied, nil
}

func (r *QuestionRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.questions = make(map[int]*entity.CivicsQuestion)
	return r.saveSnapshot()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
