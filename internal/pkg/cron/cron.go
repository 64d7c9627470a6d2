package cron

import (
	"log"
	"time"

	"github.com/yzh77/plaza_go_server/internal/service"
)

type Service struct {
	reconciler *service.ReconcileService
	stopChan   chan struct{}
}

func NewService(reconciler *service.ReconcileService) *Service {
	return &Service{
		reconciler: reconciler,
		stopChan:   make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runNightlyReconcile()
	log.Println("Cron service started (counter reconcile)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNightlyReconcile 每日零点（UTC）对账一次计数
func (s *Service) runNightlyReconcile() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.reconcileCounters()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) reconcileCounters() {
	log.Println("Starting counter reconcile...")
	fixed, err := s.reconciler.ReconcileAll(false)
	if err != nil {
		log.Printf("Counter reconcile failed: %v", err)
		return
	}
	log.Printf("Counter reconcile completed, %d posts fixed", fixed)
}
