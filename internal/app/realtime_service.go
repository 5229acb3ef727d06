package app

import (
	"context"
	"errors"

	"github.com/vintek-market/internal/realtime"
)

// BridgeService 实时通知桥接服务
type BridgeService struct {
	name string
	hub  *realtime.Hub
}

// NewBridgeService 创建实时通知桥接服务
func NewBridgeService(hub *realtime.Hub) *BridgeService {
	return &BridgeService{name: "realtime_bridge", hub: hub}
}

// Name 服务名称
func (s *BridgeService) Name() string {
	if s == nil || s.name == "" {
		return "realtime_bridge"
	}
	return s.name
}

// Start 启动桥接并等待退出信号
func (s *BridgeService) Start(ctx context.Context) error {
	if s == nil || s.hub == nil {
		return errors.New("realtime hub not initialized")
	}
	go s.hub.RunBridge(ctx)
	<-ctx.Done()
	return ctx.Err()
}

// Stop 停止服务
func (s *BridgeService) Stop(ctx context.Context) error {
	return nil
}
