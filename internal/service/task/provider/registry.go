package provider

import (
	"sync"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

// Config 통신사 어댑터의 등록 정보입니다.
type Config struct {
	// Name 시트 이름과 비교표 열 이름에 쓰이는 표시 이름입니다. (예: "docomo", "Y!mobile")
	Name string

	// DefaultCompareBy 통신사 내 중복 제거의 기본 비교 가격입니다. 비어 있으면 할인가를 사용합니다.
	DefaultCompareBy string

	NewAdapter NewAdapterFunc
}

// Validate 등록 정보의 무결성을 검증합니다.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrNameEmpty
	}
	if c.NewAdapter == nil {
		return ErrNewAdapterNil
	}
	if c.DefaultCompareBy != "" {
		if _, err := aggregate.SelectorByName(c.DefaultCompareBy); err != nil {
			return newErrInvalidSettings(err)
		}
	}
	return nil
}

// Registry 등록된 모든 통신사 어댑터를 관리합니다.
type Registry struct {
	configs map[ID]Config
	order   []ID

	mu sync.RWMutex
}

var defaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{configs: make(map[ID]Config)}
}

// MustRegister 등록에 실패하면 패닉을 발생시킵니다. 각 통신사 패키지의 init() 에서 호출합니다.
func (r *Registry) MustRegister(id ID, cfg *Config) {
	if err := r.Register(id, cfg); err != nil {
		panic(err.Error())
	}
}

func (r *Registry) Register(id ID, cfg *Config) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if cfg == nil {
		return ErrConfigNil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[id]; exists {
		return newErrDuplicateID(id)
	}

	r.configs[id] = *cfg
	r.order = append(r.order, id)

	applog.WithComponentAndFields(component, applog.Fields{
		"carrier":    id,
		"name":       cfg.Name,
		"compare_by": cfg.DefaultCompareBy,
	}).Debug("통신사 어댑터 등록 완료")

	return nil
}

// Lookup 식별자에 해당하는 등록 정보를 반환합니다.
func (r *Registry) Lookup(id ID) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	if !ok {
		return Config{}, NewErrNotSupported(id, r.order)
	}
	return cfg, nil
}

// IDs 등록된 순서대로 식별자 목록을 반환합니다.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	return ids
}

// ResolveCompare override 가 있으면 그것을, 없으면 등록 기본값을 Selector 로 변환합니다.
func (c Config) ResolveCompare(override string) (aggregate.Selector, error) {
	name := override
	if name == "" {
		name = c.DefaultCompareBy
	}
	if name == "" {
		name = aggregate.CompareByDiscount
	}

	sel, err := aggregate.SelectorByName(name)
	if err != nil {
		return nil, newErrInvalidSettings(err)
	}
	return sel, nil
}

// ClearForTest 테스트 간 격리를 위해 모든 등록 정보를 제거합니다.
func (r *Registry) ClearForTest() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs = make(map[ID]Config)
	r.order = nil
}

func MustRegister(id ID, cfg *Config) {
	defaultRegistry.MustRegister(id, cfg)
}

func Register(id ID, cfg *Config) error {
	return defaultRegistry.Register(id, cfg)
}

func Lookup(id ID) (Config, error) {
	return defaultRegistry.Lookup(id)
}

func IDs() []ID {
	return defaultRegistry.IDs()
}

// Default 전역 Registry 를 반환합니다.
func Default() *Registry {
	return defaultRegistry
}
