package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("twofa/adapters/repos/redis")
	logger = otelslog.NewLogger("twofa/adapters/repos/redis")
)

const (
	// KeyPrefix namespaces verification codes so unrelated keys in a
	// shared Redis never collide with them.
	KeyPrefix = "twofa:"

	// decrementAttempts bounds the optimistic-lock retry loop in
	// DecrementRetries when concurrent writers touch the same key.
	decrementAttempts = 3
)

// VerificationStore keeps verification records in Redis under
// KeyPrefix + userID with a fixed expiry. A second write for the same
// user overwrites the first and restarts the clock.
type VerificationStore struct {
	tracer trace.Tracer
	logger *slog.Logger
	client *redis.Client
}

// NewVerificationStore creates a new instance of VerificationStore.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if client is nil
func NewVerificationStore(client *redis.Client, t trace.Tracer, l *slog.Logger) *VerificationStore {
	if client == nil {
		panic("redis.Client cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &VerificationStore{
		tracer: t,
		logger: l,
		client: client,
	}
}

// Key returns the Redis key for a user's verification record.
func Key(userID string) string {
	return KeyPrefix + sanitizeSegment(userID)
}

// sanitizeSegment keeps user-supplied IDs from injecting key namespace
// separators.
func sanitizeSegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

type recordDTO struct {
	Code       string `json:"Code"`
	Retries    int8   `json:"Retries"`
	UserStatus string `json:"UserStatus,omitempty"`
}

func domainToRecordDTO(rec *twofa.Record) recordDTO {
	return recordDTO{
		Code:       rec.Code(),
		Retries:    rec.Retries(),
		UserStatus: rec.UserStatus(),
	}
}

func recordToDomain(userID string, dto recordDTO) *twofa.Record {
	return twofa.Rehydrate(twofa.RehydrateArgs{
		UserID:     userID,
		Code:       dto.Code,
		Retries:    dto.Retries,
		UserStatus: dto.UserStatus,
	})
}

// Save writes the record with its expiry in a single SET, so the key
// can never outlive its TTL or exist without one.
func (s *VerificationStore) Save(ctx context.Context, rec *twofa.Record) error {
	const op = "redisrepo.VerificationStore.Save"
	ctx, span := s.tracer.Start(ctx, "VerificationStore.Save")
	defer span.End()

	data, err := json.Marshal(domainToRecordDTO(rec))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to marshal verification record")
		return errorx.Wrap(err, op)
	}

	if err := s.client.Set(ctx, Key(rec.UserID()), data, twofa.TTL).Err(); err != nil {
		otelx.RecordSpanError(span, err, "failed to store verification record")
		return errorx.Wrap(err, op)
	}

	return nil
}

func (s *VerificationStore) Get(ctx context.Context, userID string) (*twofa.Record, error) {
	const op = "redisrepo.VerificationStore.Get"
	ctx, span := s.tracer.Start(ctx, "VerificationStore.Get")
	defer span.End()

	data, err := s.client.Get(ctx, Key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorx.Wrap(twofa.ErrCodeNotFound, op)
		}
		otelx.RecordSpanError(span, err, "failed to get verification record")
		return nil, errorx.Wrap(err, op)
	}

	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		otelx.RecordSpanError(span, err, "failed to unmarshal verification record")
		return nil, errorx.Wrap(err, op)
	}

	return recordToDomain(userID, dto), nil
}

// DecrementRetries consumes one verification attempt while preserving
// the record's remaining TTL. Concurrent decrements are serialized with
// WATCH; a conflicting write triggers a bounded retry.
func (s *VerificationStore) DecrementRetries(ctx context.Context, userID string) (*twofa.Record, error) {
	const op = "redisrepo.VerificationStore.DecrementRetries"
	ctx, span := s.tracer.Start(ctx, "VerificationStore.DecrementRetries")
	defer span.End()

	key := Key(userID)

	var rec *twofa.Record
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return twofa.ErrCodeNotFound
			}
			return err
		}

		var dto recordDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		rec = recordToDomain(userID, dto)
		if err := rec.Decrement(); err != nil {
			return err
		}

		ttl, err := tx.TTL(ctx, key).Result()
		if err != nil {
			return err
		}
		if ttl <= 0 {
			return twofa.ErrCodeNotFound
		}

		updated, err := json.Marshal(domainToRecordDTO(rec))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, ttl)
			return nil
		})
		return err
	}

	for range decrementAttempts {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if !errorx.IsNotFound(err) && !errors.Is(err, twofa.ErrRetriesExhausted) {
			otelx.RecordSpanError(span, err, "failed to decrement retries")
		}
		return nil, errorx.Wrap(err, op)
	}

	return nil, errorx.Wrap(redis.TxFailedErr, op)
}

func (s *VerificationStore) Delete(ctx context.Context, userID string) error {
	const op = "redisrepo.VerificationStore.Delete"
	ctx, span := s.tracer.Start(ctx, "VerificationStore.Delete")
	defer span.End()

	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		otelx.RecordSpanError(span, err, "failed to delete verification record")
		return errorx.Wrap(err, op)
	}

	return nil
}
