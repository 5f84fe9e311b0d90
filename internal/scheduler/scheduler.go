package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task는 스케줄러가 주기적으로 실행할 작업의 인터페이스입니다
type Task interface {
	// Execute는 한 사이클의 작업을 실행합니다
	Execute(ctx context.Context) error

	// Holding은 현재 포지션 보유 여부를 반환합니다.
	// 보유 여부에 따라 다음 실행까지의 대기 시간이 달라집니다.
	Holding() bool
}

// Scheduler는 매매 사이클을 주기적으로 실행합니다.
// 포지션 보유 중에는 짧은 심장박동 주기로, 미보유 중에는 거래 대기 주기로 동작합니다.
type Scheduler struct {
	holdInterval time.Duration
	flatDelay    time.Duration
	task         Task

	stopCh   chan struct{}
	stopOnce sync.Once

	after func(d time.Duration) <-chan time.Time
}

// Option은 스케줄러 생성 옵션입니다
type Option func(*Scheduler)

// WithAfter는 대기 타이머 생성 함수를 교체합니다 (테스트용)
func WithAfter(after func(d time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) {
		s.after = after
	}
}

// NewScheduler는 새로운 스케줄러를 생성합니다
func NewScheduler(task Task, holdInterval, flatDelay time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		holdInterval: holdInterval,
		flatDelay:    flatDelay,
		task:         task,
		stopCh:       make(chan struct{}),
		after:        time.After,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start는 사이클 루프를 시작합니다.
// 먼저 한 사이클을 실행한 뒤 보유 여부에 따른 주기만큼 대기하기를 반복하며,
// 사이클 에러는 기록만 하고 루프를 계속합니다.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		if err := s.task.Execute(ctx); err != nil {
			log.Printf("매매 사이클 실행 실패: %v", err)
		}

		wait := s.flatDelay
		if s.task.Holding() {
			wait = s.holdInterval
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-s.after(wait):
		}
	}
}

// Stop은 사이클 루프를 중지합니다
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
