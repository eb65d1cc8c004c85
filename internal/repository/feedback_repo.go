package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"support-chat/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb domain.Feedback) error
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, fb domain.Feedback) error {
	const query = `
		INSERT INTO feedback (id, content, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, fb.ID, fb.Content, fb.CreatedAt)
	return err
}

// RedisFeedbackKey es la lista donde se apilan los feedbacks serializados en JSON.
const RedisFeedbackKey = "support:feedback"

type redisPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

type RedisFeedbackRepository struct {
	client redisPusher
	key    string
}

func NewRedisFeedbackRepository(client *redis.Client) *RedisFeedbackRepository {
	return &RedisFeedbackRepository{client: client, key: RedisFeedbackKey}
}

func (r *RedisFeedbackRepository) Create(ctx context.Context, fb domain.Feedback) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return r.client.LPush(ctx, r.key, payload).Err()
}

// MemoryFeedbackRepository guarda el feedback en memoria; se pierde al reiniciar.
type MemoryFeedbackRepository struct {
	mu    sync.Mutex
	items []domain.Feedback
}

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{}
}

func (r *MemoryFeedbackRepository) Create(_ context.Context, fb domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, fb)
	return nil
}

// All devuelve una copia en orden de llegada.
func (r *MemoryFeedbackRepository) All() []domain.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Feedback, len(r.items))
	copy(out, r.items)
	return out
}
