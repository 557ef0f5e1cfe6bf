package storage

import (
	"encoding/json"
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

const probeKey = "__storage_test__"

var numberPattern = regexp.MustCompile(`^[-+]?\d*\.?\d+([eE][-+]?\d+)?$`)

// Storage wraps a Backend with typed accessors and an in-memory fallback.
// No method returns an error or panics; failures are logged as warnings and
// degrade to defaults or to the fallback map.
type Storage struct {
	backend  Backend
	fallback *Memory
	log      *slog.Logger

	probed    bool
	available bool
}

// Stats is a diagnostic snapshot of a Storage.
type Stats struct {
	Available              bool
	FallbackKeyCount       int
	FallbackKeys           []string
	PersistentKeyCount     int
	PersistentByteEstimate int
}

// New returns a Storage over backend. A nil backend is always unavailable;
// a nil logger uses slog.Default.
func New(backend Backend, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{backend: backend, fallback: NewMemory(), log: logger}
}

// Available probes the backend once with a write and delete and caches the
// result. Later changes in backend health are not observed.
func (s *Storage) Available() bool {
	if s.probed {
		return s.available
	}
	s.probed = true
	if s.backend == nil {
		return false
	}
	if err := s.backend.Set(probeKey, "test"); err != nil {
		s.log.Warn("storage unavailable, using memory fallback", "err", err)
		return false
	}
	if err := s.backend.Remove(probeKey); err != nil {
		s.log.Warn("storage unavailable, using memory fallback", "err", err)
		return false
	}
	s.available = true
	return true
}

// Lookup returns the raw value stored under key.
func (s *Storage) Lookup(key string) (string, bool) {
	if !s.Available() {
		v, ok, _ := s.fallback.Get(key)
		return v, ok
	}
	v, ok, err := s.backend.Get(key)
	if err != nil {
		s.log.Warn("storage read failed", "key", key, "err", err)
		v, ok, _ = s.fallback.Get(key)
		return v, ok
	}
	if ok {
		_ = s.fallback.Set(key, v)
		return v, true
	}
	return "", false
}

// Get returns the raw value under key or def when absent.
func (s *Storage) Get(key, def string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return def
}

// Set stores value under key. The fallback map is always updated; the result
// reports whether the backend write succeeded.
func (s *Storage) Set(key, value string) bool {
	_ = s.fallback.Set(key, value)
	if !s.Available() {
		return false
	}
	if err := s.backend.Set(key, value); err != nil {
		s.log.Warn("storage write failed", "key", key, "err", err)
		return false
	}
	return true
}

// Remove deletes key from the fallback map and the backend.
func (s *Storage) Remove(key string) bool {
	_ = s.fallback.Remove(key)
	if !s.Available() {
		return false
	}
	if err := s.backend.Remove(key); err != nil {
		s.log.Warn("storage remove failed", "key", key, "err", err)
		return false
	}
	return true
}

// Bool reads key through the coercion table "true"/"1" -> true and
// "false"/"0" -> false. Any other value, or absence, yields def.
func (s *Storage) Bool(key string, def bool) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return def
	}
	switch v {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}

// SetBool stores "true" or "false".
func (s *Storage) SetBool(key string, value bool) bool {
	return s.Set(key, strconv.FormatBool(value))
}

// Number reads a strictly formatted decimal number. Values that do not match
// the pattern, overflow, or parse to NaN yield def.
func (s *Storage) Number(key string, def float64) float64 {
	v, ok := s.Lookup(key)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	if !numberPattern.MatchString(v) {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

// Int reads a number and truncates it toward zero.
func (s *Storage) Int(key string, def int) int {
	n := s.Number(key, math.NaN())
	if math.IsNaN(n) || n >= math.MaxInt64 || n < math.MinInt64 {
		return def
	}
	return int(n)
}

// SetNumber stores the shortest decimal form of value.
func (s *Storage) SetNumber(key string, value float64) bool {
	return s.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetInt stores value in base 10.
func (s *Storage) SetInt(key string, value int) bool {
	return s.Set(key, strconv.Itoa(value))
}

// JSON decodes the value under key into dst. It reports false and leaves dst
// untouched when the key is absent or does not hold valid JSON for dst.
func (s *Storage) JSON(key string, dst any) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return false
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		s.log.Warn("JSON destination must be a non-nil pointer", "key", key)
		return false
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(v), tmp.Interface()); err != nil {
		s.log.Warn("failed to decode stored JSON", "key", key, "err", err)
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

// SetJSON encodes value and stores it. An encoding failure touches neither
// the fallback map nor the backend.
func (s *Storage) SetJSON(key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("failed to encode JSON", "key", key, "err", err)
		return false
	}
	return s.Set(key, string(data))
}

// Stats returns a diagnostic snapshot. The byte estimate covers the backend only.
func (s *Storage) Stats() Stats {
	keys, _ := s.fallback.Keys()
	st := Stats{
		Available:        s.Available(),
		FallbackKeyCount: len(keys),
		FallbackKeys:     keys,
	}
	if !st.Available {
		return st
	}
	backendKeys, err := s.backend.Keys()
	if err != nil {
		s.log.Warn("failed to list storage keys", "err", err)
		return st
	}
	st.PersistentKeyCount = len(backendKeys)
	for _, k := range backendKeys {
		v, ok, err := s.backend.Get(k)
		if err != nil || !ok {
			continue
		}
		st.PersistentByteEstimate += len(k) + len(v)
	}
	return st
}

// Clear removes keys starting with prefix, or every key when prefix is empty,
// from both the fallback map and the backend.
func (s *Storage) Clear(prefix string) bool {
	_ = s.fallback.Clear(prefix)
	if !s.Available() {
		return false
	}
	if err := s.backend.Clear(prefix); err != nil {
		s.log.Warn("failed to clear storage", "prefix", prefix, "err", err)
		return false
	}
	return true
}
