package strategy

import (
	"fmt"
	"sync"

	"github.com/assist-by/surfer/internal/config"
)

// Factory는 설정으로부터 전략 인스턴스를 생성하는 함수입니다
type Factory func(cfg *config.Config) Strategy

// Registry는 사용 가능한 전략들을 관리합니다
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry는 새로운 전략 레지스트리를 생성합니다
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register는 새로운 전략 팩토리를 등록합니다
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("이미 등록된 전략입니다: %s", name)
	}

	r.factories[name] = factory
	return nil
}

// Create는 이름으로 전략 인스턴스를 생성합니다
func (r *Registry) Create(name string, cfg *config.Config) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("등록되지 않은 전략입니다: %s", name)
	}

	return factory(cfg), nil
}

// RegisterAll은 기본 제공 전략들을 모두 등록합니다
func RegisterAll(r *Registry) error {
	factories := map[string]Factory{
		"simple": func(cfg *config.Config) Strategy {
			return NewSimpleStrategy(cfg.Trading.PrimarySymbol)
		},
		"pump": func(cfg *config.Config) Strategy {
			return NewPumpStrategy(cfg.Trading.ChangePercent)
		},
		"dump": func(cfg *config.Config) Strategy {
			return NewDumpStrategy()
		},
		"flat": func(cfg *config.Config) Strategy {
			return NewFlatStrategy()
		},
	}

	for name, factory := range factories {
		if err := r.Register(name, factory); err != nil {
			return fmt.Errorf("전략 등록 실패 (%s): %w", name, err)
		}
	}

	return nil
}

// CreateFromConfig는 설정에 지정된 전략을 생성합니다
func CreateFromConfig(r *Registry, cfg *config.Config) (Strategy, error) {
	return r.Create(cfg.Trading.Indicator, cfg)
}
