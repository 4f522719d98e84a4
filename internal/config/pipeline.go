package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// PipelineFile 序列化的流水线定义文件：命名组件 -> 序列化形式
type PipelineFile struct {
	Components map[string]map[string]any `mapstructure:"components"`
}

// LoadPipelineFile 读取流水线定义文件（yaml/json/toml，按扩展名识别）
func LoadPipelineFile(path string) (*PipelineFile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read pipeline file %s: %w", path, err)
	}

	var file PipelineFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file %s: %w", path, err)
	}

	if len(file.Components) == 0 {
		return nil, fmt.Errorf("pipeline file %s defines no components", path)
	}

	return &file, nil
}

// Materialize 根据注册表重建文件中定义的全部组件
func (f *PipelineFile) Materialize() (map[string]pipeline.Component, error) {
	components := make(map[string]pipeline.Component, len(f.Components))
	for name, data := range f.Components {
		component, err := pipeline.FromDict(data)
		if err != nil {
			return nil, fmt.Errorf("failed to build component %q: %w", name, err)
		}
		components[name] = component
	}
	return components, nil
}

// LoadPipeline 读取并重建流水线定义文件中的组件
func LoadPipeline(path string) (map[string]pipeline.Component, error) {
	file, err := LoadPipelineFile(path)
	if err != nil {
		return nil, err
	}
	return file.Materialize()
}
