// Package domain 定义领域模型和接口
package domain

// ContentType 可版本化内容的类型，封闭集合
type ContentType string

const (
	ContentTypeUnit      ContentType = "unit"
	ContentTypePilot     ContentType = "pilot"
	ContentTypeForce     ContentType = "force"
	ContentTypeEncounter ContentType = "encounter"
)

// IsValid 校验内容类型是否在封闭集合内
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeUnit, ContentTypePilot, ContentTypeForce, ContentTypeEncounter:
		return true
	}
	return false
}

// ChangeType 变更日志条目的变更类型
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeDelete ChangeType = "delete"
	ChangeTypeMove   ChangeType = "move"
)

// IsValid 校验变更类型
func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeTypeCreate, ChangeTypeUpdate, ChangeTypeDelete, ChangeTypeMove:
		return true
	}
	return false
}

// Resolution 冲突处理状态
// pending 为初始态，其余为终态
type Resolution string

const (
	ResolutionPending Resolution = "pending"
	ResolutionLocal   Resolution = "local"
	ResolutionRemote  Resolution = "remote"
	ResolutionMerged  Resolution = "merged"
	ResolutionForked  Resolution = "forked"
)

// IsTerminal 校验是否为合法的终态处理方式
func (r Resolution) IsTerminal() bool {
	switch r {
	case ResolutionLocal, ResolutionRemote, ResolutionMerged, ResolutionForked:
		return true
	}
	return false
}
