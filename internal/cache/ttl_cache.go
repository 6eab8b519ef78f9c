// Package cache 는 세션 레지스트리와 요청 제한에 쓰는 만료형 LRU 캐시를 제공한다.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// EvictReason 은 항목이 캐시에서 빠진 이유다.
type EvictReason string

const (
	EvictExpired  EvictReason = "expired"
	EvictCapacity EvictReason = "capacity"
	EvictDeleted  EvictReason = "deleted"
)

// EvictFunc 는 항목이 빠질 때 호출된다. 캐시 잠금 밖에서 호출되므로 캐시를 다시 써도 된다.
type EvictFunc[K comparable, V any] func(key K, value V, reason EvictReason)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

type evicted[K comparable, V any] struct {
	key    K
	value  V
	reason EvictReason
}

// TTLCache 는 마지막 사용 시점부터 ttl 이 지나면 만료되는 크기 제한 LRU 캐시다.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	items   map[K]*list.Element
	onEvict EvictFunc[K, V]
	now     func() time.Time
}

// Option 은 TTLCache 선택 설정이다.
type Option[K comparable, V any] func(*TTLCache[K, V])

// WithEvict 는 항목 제거 콜백을 등록한다.
func WithEvict[K comparable, V any](fn EvictFunc[K, V]) Option[K, V] {
	return func(c *TTLCache[K, V]) { c.onEvict = fn }
}

// NewTTLCache 는 만료 시간과 최대 크기를 갖는 TTLCache 를 생성한다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration, opts ...Option[K, V]) *TTLCache[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	c := &TTLCache[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[K]*list.Element, maxSize),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get 은 값을 조회하고 만료 시간을 연장한다.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.Lock()
	element, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}

	ent := element.Value.(*entry[K, V])
	now := c.now()
	if now.After(ent.expiresAt) {
		c.removeElement(element)
		c.mu.Unlock()
		c.notify([]evicted[K, V]{{key: ent.key, value: ent.value, reason: EvictExpired}})
		return zero, false
	}

	ent.expiresAt = now.Add(c.ttl)
	c.order.MoveToFront(element)
	c.mu.Unlock()
	return ent.value, true
}

// Set 은 값을 저장한다. 크기를 넘으면 가장 오래 쓰이지 않은 항목부터 제거한다.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	now := c.now()
	if element, ok := c.items[key]; ok {
		ent := element.Value.(*entry[K, V])
		ent.value = value
		ent.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(element)
		c.mu.Unlock()
		return
	}

	element := c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: now.Add(c.ttl)})
	c.items[key] = element
	removed := c.evictOverflowLocked()
	c.mu.Unlock()
	c.notify(removed)
}

// Modify 는 현재 값을 fn 으로 갱신하고 새 값을 반환한다. 조회와 저장이 한 번의 잠금 안에서 일어난다.
// 만료된 항목은 없는 것으로 본다.
func (c *TTLCache[K, V]) Modify(key K, fn func(current V, exists bool) V) (V, bool) {
	var zero V
	if fn == nil {
		return zero, false
	}
	c.mu.Lock()
	now := c.now()
	if element, ok := c.items[key]; ok {
		ent := element.Value.(*entry[K, V])
		if now.After(ent.expiresAt) {
			ent.value = fn(zero, false)
		} else {
			ent.value = fn(ent.value, true)
		}
		ent.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(element)
		value := ent.value
		c.mu.Unlock()
		return value, true
	}

	value := fn(zero, false)
	element := c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: now.Add(c.ttl)})
	c.items[key] = element
	removed := c.evictOverflowLocked()
	c.mu.Unlock()
	c.notify(removed)
	return value, true
}

// Delete 는 항목을 제거한다. 있었으면 true 다.
func (c *TTLCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	element, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	ent := element.Value.(*entry[K, V])
	c.removeElement(element)
	c.mu.Unlock()
	c.notify([]evicted[K, V]{{key: ent.key, value: ent.value, reason: EvictDeleted}})
	return true
}

// Len 은 만료 정리 전 항목 수다.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Prune 은 만료된 항목을 모두 제거하고 제거한 수를 반환한다.
func (c *TTLCache[K, V]) Prune() int {
	c.mu.Lock()
	now := c.now()
	var removed []evicted[K, V]
	for element := c.order.Back(); element != nil; {
		prev := element.Prev()
		ent := element.Value.(*entry[K, V])
		if now.After(ent.expiresAt) {
			c.removeElement(element)
			removed = append(removed, evicted[K, V]{key: ent.key, value: ent.value, reason: EvictExpired})
		}
		element = prev
	}
	c.mu.Unlock()
	c.notify(removed)
	return len(removed)
}

// Values 는 만료되지 않은 값을 최근 사용 순으로 반환한다. 만료 시간은 연장하지 않는다.
func (c *TTLCache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	out := make([]V, 0, len(c.items))
	for element := c.order.Front(); element != nil; element = element.Next() {
		ent := element.Value.(*entry[K, V])
		if now.After(ent.expiresAt) {
			continue
		}
		out = append(out, ent.value)
	}
	return out
}

func (c *TTLCache[K, V]) evictOverflowLocked() []evicted[K, V] {
	var removed []evicted[K, V]
	for len(c.items) > c.maxSize {
		element := c.order.Back()
		if element == nil {
			break
		}
		ent := element.Value.(*entry[K, V])
		c.removeElement(element)
		removed = append(removed, evicted[K, V]{key: ent.key, value: ent.value, reason: EvictCapacity})
	}
	return removed
}

func (c *TTLCache[K, V]) removeElement(element *list.Element) {
	c.order.Remove(element)
	ent := element.Value.(*entry[K, V])
	delete(c.items, ent.key)
}

func (c *TTLCache[K, V]) notify(removed []evicted[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, item := range removed {
		c.onEvict(item.key, item.value, item.reason)
	}
}
