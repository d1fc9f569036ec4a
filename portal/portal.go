// Package portal 组装考试门户的各层组件：配置 → 日志 → 存储 → 仓储 → 业务。
// 本项目为纯本地演示实现，不含网络层，调用方直接使用 Service 聚合。
package portal

import (
	"context"

	"go.uber.org/zap"

	"exam-portal/backend/config"
	"exam-portal/backend/internal/repository"
	"exam-portal/backend/internal/service"
	"exam-portal/backend/pkg/localstore"
	"exam-portal/backend/pkg/logger"
)

// Portal 门户实例，持有全部已组装的组件
type Portal struct {
	Config  *config.Config
	Service *service.Service
	Logger  *zap.Logger

	store *localstore.Store
}

// New 按给定配置组装门户；cfg.Seed.Enabled 为真时播种演示数据
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Portal, error) {
	store, err := localstore.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(store)
	svc := service.NewService(cfg, repo, log)

	if cfg.Seed.Enabled {
		if err := service.NewSeeder(repo, log).EnsureSeedData(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}

	log.Info("门户初始化完成", zap.String("storage_dir", store.Dir()))
	return &Portal{
		Config:  cfg,
		Service: svc,
		Logger:  log,
		store:   store,
	}, nil
}

// Open 从配置文件路径组装门户（path 为空时走默认查找路径）
func Open(ctx context.Context, configPath string) (*Portal, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	return New(ctx, cfg, log)
}

// Watch 订阅底层存储的键变更（类浏览器 storage 事件），
// 返回停止函数；多个实例共用同一目录时可借此感知对方的写入
func (p *Portal) Watch(fn func(key string)) (func() error, error) {
	return p.store.Watch(fn)
}

// Close 释放存储与日志资源
func (p *Portal) Close() error {
	err := p.store.Close()
	_ = p.Logger.Sync()
	return err
}
