package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ignatzorin/shotboard/internal/goroutine"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/preview"
)

// PreviewTTL - время жизни подготовленного превью текстового файла.
const PreviewTTL = 10 * time.Minute

// CacheService - кэш в памяти с TTL и инвалидацией по префиксу.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	data      any
	expiresAt time.Time
}

// NewCacheService создаёт кэш. Просроченные записи удаляются в фоне до отмены ctx.
func NewCacheService(ctx context.Context) *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
	}
	goroutine.SafeGoWithContext(ctx, "cache-cleanup", cs.cleanup)
	return cs
}

// Get возвращает значение, если оно есть и не просрочено.
func (cs *CacheService) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, ok := cs.cache[key]
	if !ok || cs.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Set сохраняет значение на ttl.
func (cs *CacheService) Set(key string, value any, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{data: value, expiresAt: cs.now().Add(ttl)}
}

// Delete удаляет ключ.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
}

// InvalidateByPrefix удаляет все ключи с префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
		}
	}
}

// Len возвращает число записей, включая ещё не вычищенные просроченные.
func (cs *CacheService) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.cache)
}

// GetOrSet возвращает значение из кэша или вычисляет и сохраняет его.
func (cs *CacheService) GetOrSet(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	if v, ok := cs.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	cs.Set(key, v, ttl)
	return v, nil
}

func (cs *CacheService) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.evictExpired()
		}
	}
}

func (cs *CacheService) evictExpired() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	for key, entry := range cs.cache {
		if now.After(entry.expiresAt) {
			delete(cs.cache, key)
		}
	}
}

// PreviewCacheKey - ключ превью файла шота.
func PreviewCacheKey(shotID, name string) string {
	return "preview:" + shotID + ":" + name
}

// FolderPreviewPrefix - префикс всех превью шотов папки.
func FolderPreviewPrefix(folder string) string {
	return "preview:" + folder + "/"
}

// PlainPrompt возвращает текст файла шота без разметки, используя кэш.
func (cs *CacheService) PlainPrompt(shotID string, p models.PromptFile) (string, error) {
	v, err := cs.GetOrSet(PreviewCacheKey(shotID, p.Name), PreviewTTL, func() (any, error) {
		return preview.Plain(p)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
