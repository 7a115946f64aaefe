package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "imagedepot:"
	redisOrderKey    = redisKeyPrefix + "images"
	redisSequenceKey = redisKeyPrefix + "images:seq"
)

// RedisDatabase keeps one hash per record, a filename -> id index guarded by SETNX
// and a sorted set scored by an insertion counter for listing order.
type RedisDatabase struct {
	client *redis.Client
}

func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisDatabase{client: redis.NewClient(opts)}, nil
}

func redisImageKey(id string) string {
	return redisKeyPrefix + "image:" + id
}

func redisFilenameKey(filename string) string {
	return redisKeyPrefix + "filename:" + filename
}

func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	// Redis has no schema; verify connectivity instead.
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *RedisDatabase) CreateImage(ctx context.Context, record *ImageRecord) (*ImageRecord, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	claimed, err := r.client.SetNX(ctx, redisFilenameKey(record.Filename), id, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("claim filename %s: %w", record.Filename, err)
	}
	if !claimed {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFilename, record.Filename)
	}

	seq, err := r.client.Incr(ctx, redisSequenceKey).Result()
	if err != nil {
		r.releaseFilename(record.Filename)
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisImageKey(id),
			"id", id,
			"filename", record.Filename,
			"contentType", record.ContentType,
			"imageData", record.ImageData,
		)
		pipe.ZAdd(ctx, redisOrderKey, redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		r.releaseFilename(record.Filename)
		return nil, fmt.Errorf("store image %s: %w", record.Filename, err)
	}

	created := *record
	created.ID = id
	return &created, nil
}

func (r *RedisDatabase) releaseFilename(filename string) {
	_ = r.client.Del(context.Background(), redisFilenameKey(filename)).Err()
}

func (r *RedisDatabase) GetAllImages(ctx context.Context) ([]*ImageRecord, error) {
	ids, err := r.client.ZRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list image ids: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if len(ids) > 0 {
		_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.HGetAll(ctx, redisImageKey(id))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load images: %w", err)
		}
	}

	images := make([]*ImageRecord, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		images = append(images, recordFromHash(fields))
	}
	return images, nil
}

func (r *RedisDatabase) GetImageByFilename(ctx context.Context, filename string) (*ImageRecord, error) {
	id, err := r.client.Get(ctx, redisFilenameKey(filename)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup filename %s: %w", filename, err)
	}

	fields, err := r.client.HGetAll(ctx, redisImageKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return recordFromHash(fields), nil
}

func (r *RedisDatabase) DeleteImage(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	filename, err := r.client.HGet(ctx, redisImageKey(id), "filename").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup image %s: %w", id, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisImageKey(id), redisFilenameKey(filename))
		pipe.ZRem(ctx, redisOrderKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	return nil
}

func recordFromHash(fields map[string]string) *ImageRecord {
	return &ImageRecord{
		ID:          fields["id"],
		Filename:    fields["filename"],
		ContentType: fields["contentType"],
		ImageData:   fields["imageData"],
	}
}
