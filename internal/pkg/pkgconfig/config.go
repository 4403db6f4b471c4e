package pkgconfig

import "time"

// Config is the read-only view of application configuration.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetArray(key string) []string
	Close() error
}

// Static is an in-memory Config, mostly useful in tests and for defaults.
type Static map[string]any

func (s Static) GetInt(key string) int64 {
	switch v := s[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func (s Static) GetBool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

func (s Static) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}

func (s Static) GetDuration(key string) time.Duration {
	switch v := s[key].(type) {
	case time.Duration:
		return v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0
		}
		return d
	default:
		return 0
	}
}

func (s Static) GetArray(key string) []string {
	v, _ := s[key].([]string)
	return v
}

func (s Static) Close() error {
	return nil
}
