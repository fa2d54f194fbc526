package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type InMemoryHistoryStorage struct {
	ResultMap map[string]string
	mutex     sync.Mutex
}

func NewInMemoryHistoryStorage() *InMemoryHistoryStorage {
	return &InMemoryHistoryStorage{
		ResultMap: make(map[string]string),
	}
}

type RedisHistoryStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisHistoryStorage(client *redis.Client, namespace string) *RedisHistoryStorage {
	return &RedisHistoryStorage{client: client, namespace: namespace}
}

// Should be safe to use in concurrency
type HistoryStorage interface {
	// Store the serialized parse result for the given session id.
	// Should not return an error when a result already exists,
	// it should just overwrite in that case.
	StoreResult(sessionId string, payload string) error

	// Should retrieve the stored result for the given session id
	// and return an error in any case where it fails to do so.
	RetrieveResult(sessionId string) (string, error)

	// Should remove the result and return an error if it fails to do so.
	// The value not being there should also be considered an error.
	RemoveResult(sessionId string) error
}

// ------------------------------------------------------------------------------

func createKey(namespace, sessionId string) string {
	return fmt.Sprintf("%s:result:%s", namespace, sessionId)
}

const ResultTTL time.Duration = 24 * time.Hour

func (s *RedisHistoryStorage) StoreResult(sessionId string, payload string) error {
	ctx := context.Background()
	return s.client.Set(ctx, createKey(s.namespace, sessionId), payload, ResultTTL).Err()
}

func (s *RedisHistoryStorage) RetrieveResult(sessionId string) (string, error) {
	ctx := context.Background()
	return s.client.Get(ctx, createKey(s.namespace, sessionId)).Result()
}

func (s *RedisHistoryStorage) RemoveResult(sessionId string) error {
	ctx := context.Background()
	return s.client.Del(ctx, createKey(s.namespace, sessionId)).Err()
}

// ------------------------------------------------------------------------------

func (s *InMemoryHistoryStorage) StoreResult(sessionId, payload string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ResultMap[sessionId] = payload
	return nil
}

func (s *InMemoryHistoryStorage) RetrieveResult(sessionId string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if payload, ok := s.ResultMap[sessionId]; ok {
		return payload, nil
	} else {
		return "", fmt.Errorf("failed to find result for %s", sessionId)
	}
}

func (s *InMemoryHistoryStorage) RemoveResult(sessionId string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.ResultMap[sessionId]; ok {
		delete(s.ResultMap, sessionId)
		return nil
	} else {
		return fmt.Errorf("failed to remove result for %s, because it wasn't there", sessionId)
	}
}
