package pipeline

import (
	"context"
	"fmt"
	"sync"
)

// Component 流水线组件接口。
// 输入输出都是命名值的映射，由外部编排器负责连线。
type Component interface {
	// Run 执行组件
	Run(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// Serializable 支持序列化为映射的组件
type Serializable interface {
	Component

	// ToDict 序列化组件配置
	ToDict() map[string]any
}

// Factory 根据序列化数据重建组件
type Factory func(data map[string]any) (Component, error)

// Registry 组件类型注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register 注册组件类型
func (r *Registry) Register(typeName string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		return fmt.Errorf("component type %s already registered", typeName)
	}

	r.factories[typeName] = factory
	return nil
}

// FromDict 根据序列化数据重建组件。
// data 必须包含 type 和 init_parameters 两个键。
func (r *Registry) FromDict(data map[string]any) (Component, error) {
	typeName, ok := data["type"].(string)
	if !ok || typeName == "" {
		return nil, NewSerializeError("serialized component is missing its type identifier")
	}

	r.mu.RLock()
	factory, exists := r.factories[typeName]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponentType, typeName)
	}

	return factory(data)
}

// List 列出所有已注册的组件类型
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// DefaultRegistry 默认注册表
var DefaultRegistry = NewRegistry()

// Register 注册到默认注册表
func Register(typeName string, factory Factory) error {
	return DefaultRegistry.Register(typeName, factory)
}

// FromDict 从默认注册表重建组件
func FromDict(data map[string]any) (Component, error) {
	return DefaultRegistry.FromDict(data)
}

// InitParameters 提取序列化数据中的 init_parameters 映射
func InitParameters(data map[string]any) (map[string]any, error) {
	raw, ok := data["init_parameters"]
	if !ok {
		return nil, NewSerializeError("serialized component is missing init_parameters")
	}
	params, ok := raw.(map[string]any)
	if !ok {
		return nil, NewSerializeError("init_parameters must be a mapping, got %T", raw)
	}
	return params, nil
}
