// Package storage provides key/value persistence with an in-memory fallback.
package storage

import (
	"sort"
	"strings"
)

// Backend is a string key/value store that may fail on any call.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
	// Clear removes every key starting with prefix, or all keys when prefix is empty.
	Clear(prefix string) error
}

// Memory is an in-process Backend. It never fails.
type Memory struct {
	items map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

// Get implements Backend.
func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *Memory) Set(key, value string) error {
	m.items[key] = value
	return nil
}

// Remove implements Backend.
func (m *Memory) Remove(key string) error {
	delete(m.items, key)
	return nil
}

// Keys implements Backend. Keys are returned sorted.
func (m *Memory) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear implements Backend.
func (m *Memory) Clear(prefix string) error {
	if prefix == "" {
		m.items = map[string]string{}
		return nil
	}
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return len(m.items)
}
