package pipeline

import (
	"github.com/google/uuid"
)

// Document 流水线中流转的文档单元
type Document struct {
	// ID 文档唯一标识
	ID string `json:"id"`

	// Content 文档正文
	Content string `json:"content"`

	// Meta 附加的键值元数据
	Meta map[string]any `json:"meta,omitempty"`

	// Score 可选的相关性得分
	Score *float64 `json:"score,omitempty"`
}

// NewDocument 创建带唯一ID的新文档
func NewDocument(content string) Document {
	return Document{
		ID:      uuid.NewString(),
		Content: content,
		Meta:    make(map[string]any),
	}
}

// WithMeta 返回元数据被覆盖层更新后的文档副本（不修改原文档）
func (d Document) WithMeta(overlay map[string]any) Document {
	meta := make(map[string]any, len(d.Meta)+len(overlay))
	for k, v := range d.Meta {
		meta[k] = v
	}
	for k, v := range overlay {
		meta[k] = v
	}
	d.Meta = meta
	return d
}

// CloneMeta 返回元数据的浅拷贝
func (d Document) CloneMeta() map[string]any {
	meta := make(map[string]any, len(d.Meta))
	for k, v := range d.Meta {
		meta[k] = v
	}
	return meta
}
