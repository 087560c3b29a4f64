package consolelog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
)

const (
	sessionKeyPrefix  = "console:session:"
	linesKeyPrefix    = "console:lines:"
	defaultSessionTTL = 24 * time.Hour
)

var _ secondary.ConsoleLogRepository = (*ConsoleLogRepository)(nil)

// ConsoleLogRepository implements the ConsoleLogRepository interface with
// Redis. A session is a marker key plus a capped list of lines; both expire
// together.
type ConsoleLogRepository struct {
	redisClient *redis.Client
	maxLines    int64
	ttl         time.Duration
	logger      primary.Logger
}

// NewConsoleLogRepository creates a new Redis console log repository
func NewConsoleLogRepository(redisClient *redis.Client, maxLines int, logger primary.Logger) *ConsoleLogRepository {
	return &ConsoleLogRepository{
		redisClient: redisClient,
		maxLines:    int64(maxLines),
		ttl:         defaultSessionTTL,
		logger:      logger,
	}
}

func sessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
}

func linesKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s%s", linesKeyPrefix, sessionID)
}

// Open registers a session
func (r *ConsoleLogRepository) Open(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.redisClient.Set(ctx, sessionKey(sessionID), time.Now().Unix(), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to open console session", "session", sessionID, "error", err)
		return fmt.Errorf("failed to open console session: %w", err)
	}
	return nil
}

// AppendLine pushes a line and trims the list to the newest maxLines
func (r *ConsoleLogRepository) AppendLine(ctx context.Context, sessionID uuid.UUID, line string) error {
	key := linesKey(sessionID)

	pipe := r.redisClient.TxPipeline()
	pipe.RPush(ctx, key, line)
	if r.maxLines > 0 {
		pipe.LTrim(ctx, key, -r.maxLines, -1)
	}
	pipe.Expire(ctx, key, r.ttl)
	pipe.Expire(ctx, sessionKey(sessionID), r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to append console line", "session", sessionID, "error", err)
		return fmt.Errorf("failed to append console line: %w", err)
	}
	return nil
}

// GetLines returns the backlog, oldest first
func (r *ConsoleLogRepository) GetLines(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	lines, err := r.redisClient.LRange(ctx, linesKey(sessionID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil
		}
		r.logger.Error("Failed to get console lines", "session", sessionID, "error", err)
		return nil, fmt.Errorf("failed to get console lines: %w", err)
	}
	return lines, nil
}

// Exists reports whether the session marker is still present
func (r *ConsoleLogRepository) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := r.redisClient.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		r.logger.Error("Failed to check console session", "session", sessionID, "error", err)
		return false, fmt.Errorf("failed to check console session: %w", err)
	}
	return n > 0, nil
}
