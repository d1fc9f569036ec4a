package localstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watcher 封装单个 fsnotify 监听循环
type watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

func (w *watcher) stop() error {
	err := w.fw.Close()
	<-w.done
	return err
}

// Watch 监听存储目录，某个键的记录在磁盘上被改写时回调 fn(key)。
//
// 对应浏览器端的 storage 事件：另一个写方（例如外部工具直接编辑数据文件）
// 更新记录后，嵌入方可以借此刷新展示层。返回的 stop 函数用于单独停止本次
// 监听；Store.Close 会停止所有监听。
func (s *Store) Watch(fn func(key string)) (stop func() error, err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("localstore: 创建监听器失败: %w", err)
	}
	if err := fw.Add(s.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("localstore: 监听目录失败: %w", err)
	}

	w := &watcher{fw: fw, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(ev.Name)
				// 忽略写入途中的临时文件，只上报最终的 <key>.json
				if !strings.HasSuffix(name, ".json") || strings.Contains(name, ".tmp-") {
					continue
				}
				fn(strings.TrimSuffix(name, ".json"))
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	s.watchMu.Lock()
	s.watchers = append(s.watchers, w)
	s.watchMu.Unlock()

	return w.stop, nil
}
