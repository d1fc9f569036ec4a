package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoRecord 指定键下没有已持久化的记录
var ErrNoRecord = errors.New("localstore: 记录不存在")

// Store 本地 JSON 键值存储。
//
// 每个键对应目录下的一个独立 JSON 文档（<key>.json），整条记录整体读写，
// 写入通过临时文件 + rename 完成，调用方观察不到部分写入。
// 进程内以读写锁串行化访问；跨进程协调不在设计范围内。
type Store struct {
	dir string

	mu sync.RWMutex

	watchMu  sync.Mutex
	watchers []*watcher
}

// Open 打开（必要时创建）存储目录
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("localstore: 存储目录不能为空")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: 创建存储目录失败: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回存储目录
func (s *Store) Dir() string { return s.dir }

// Get 读取键对应的记录并反序列化到 v；键不存在时返回 ErrNoRecord
func (s *Store) Get(key string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoRecord
		}
		return fmt.Errorf("localstore: 读取 %q 失败: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("localstore: 解析 %q 失败: %w", key, err)
	}
	return nil
}

// Set 序列化 v 并整体覆盖键对应的记录
func (s *Store) Set(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: 序列化 %q 失败: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 先写临时文件再 rename，保证读方看到的要么是旧记录要么是新记录
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("localstore: 创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: 写入 %q 失败: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: 写入 %q 失败: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: 持久化 %q 失败: %w", key, err)
	}
	return nil
}

// Remove 删除键对应的记录；键不存在时为空操作
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: 删除 %q 失败: %w", key, err)
	}
	return nil
}

// Close 停止所有变更监听
func (s *Store) Close() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	var firstErr error
	for _, w := range s.watchers {
		if err := w.stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.watchers = nil
	return firstErr
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
