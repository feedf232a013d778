package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open selects a backend from a cache URL:
//
//   - "" uses a FileCache in dir
//   - "none" or "off" disables caching
//   - "redis://..." / "rediss://..." uses Redis
//   - "mongodb://..." / "mongodb+srv://..." uses MongoDB
//   - "file://<path>" uses a FileCache at path
func Open(ctx context.Context, url, dir string) (Cache, error) {
	switch {
	case url == "":
		if dir == "" {
			return NewNullCache(), nil
		}
		return openFile(dir)
	case url == "none" || url == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		c, err := NewRedisCache(ctx, url)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, url)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(url, "file://"):
		return openFile(strings.TrimPrefix(url, "file://"))
	default:
		return nil, fmt.Errorf("unsupported cache url: %q", url)
	}
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
