package viewcount

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

const pendingKey = "inkwell:views:pending"

// Service buffers article view hits and flushes them to the database in
// batches, so a public page view never writes a row synchronously.
type Service struct {
	articleRepo repository.ArticleRepository
	redis       *redis.Client
	logger      zerolog.Logger

	mu     sync.Mutex
	memory map[uint]int
}

// NewService builds a view counter. redisClient may be nil; counts then
// buffer in process memory, which loses pending hits on restart.
func NewService(articleRepo repository.ArticleRepository, redisClient *redis.Client, logger zerolog.Logger) *Service {
	return &Service{
		articleRepo: articleRepo,
		redis:       redisClient,
		logger:      logger.With().Str("service", "viewcount").Logger(),
		memory:      make(map[uint]int),
	}
}

// Record counts one view of the article. Never fails the page view; errors
// are logged and the hit dropped.
func (s *Service) Record(ctx context.Context, articleID uint) {
	if s.redis != nil {
		field := strconv.FormatUint(uint64(articleID), 10)
		if err := s.redis.HIncrBy(ctx, pendingKey, field, 1).Err(); err != nil {
			s.logger.Warn().Err(err).Uint("article_id", articleID).Msg("buffer view hit failed")
		}
		return
	}
	s.mu.Lock()
	s.memory[articleID]++
	s.mu.Unlock()
}

// Flush applies all buffered hits to the database. Called by the scheduler
// and at shutdown. Returns the number of articles updated.
func (s *Service) Flush(ctx context.Context) (int, error) {
	deltas, err := s.drain(ctx)
	if err != nil {
		return 0, err
	}
	if len(deltas) == 0 {
		return 0, nil
	}
	if err := s.articleRepo.AddViews(ctx, deltas); err != nil {
		// Re-buffer so the hits survive a transient database error.
		s.restore(ctx, deltas)
		return 0, err
	}
	return len(deltas), nil
}

func (s *Service) drain(ctx context.Context) (map[uint]int, error) {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		deltas := s.memory
		s.memory = make(map[uint]int)
		return deltas, nil
	}

	pipe := s.redis.TxPipeline()
	getAll := pipe.HGetAll(ctx, pendingKey)
	pipe.Del(ctx, pendingKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw := getAll.Val()
	deltas := make(map[uint]int, len(raw))
	for field, val := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			continue
		}
		deltas[uint(id)] = n
	}
	return deltas, nil
}

func (s *Service) restore(ctx context.Context, deltas map[uint]int) {
	if s.redis == nil {
		s.mu.Lock()
		for id, n := range deltas {
			s.memory[id] += n
		}
		s.mu.Unlock()
		return
	}
	for id, n := range deltas {
		field := strconv.FormatUint(uint64(id), 10)
		if err := s.redis.HIncrBy(ctx, pendingKey, field, int64(n)).Err(); err != nil {
			s.logger.Warn().Err(err).Uint("article_id", id).Msg("restore buffered views failed")
		}
	}
}
