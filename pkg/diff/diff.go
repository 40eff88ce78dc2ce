// Package diff 计算两份内容之间的结构化差异
// 纯函数包，不依赖存储层
package diff

import (
	"reflect"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// RawField 内容无法结构化解析时使用的合成字段名
const RawField = "_raw"

// FieldChange 单个字段的修改，记录修改前后的值
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// Result 字段级差异结果
// ChangedFields 是三类变更字段名的并集，按字典序排序
type Result struct {
	ChangedFields []string               `json:"changedFields"`
	Additions     map[string]interface{} `json:"additions"`
	Deletions     map[string]interface{} `json:"deletions"`
	Modifications map[string]FieldChange `json:"modifications"`
}

// Empty 判断是否没有任何字段变更
func (r *Result) Empty() bool {
	return len(r.ChangedFields) == 0
}

func newResult() *Result {
	return &Result{
		ChangedFields: []string{},
		Additions:     map[string]interface{}{},
		Deletions:     map[string]interface{}{},
		Modifications: map[string]FieldChange{},
	}
}

// Fields 对两份内容做单层字段比较
// 仅在 new 中出现的字段为新增，仅在 old 中出现的为删除，
// 两边都有但值不等的为修改；不做深层递归
// 内容不是 JSON 对象时退化为整体 _raw 修改，永不报错
func Fields(oldContent, newContent string) *Result {
	result := newResult()

	if oldContent == newContent {
		return result
	}

	oldFields, oldOK := parseObject(oldContent)
	newFields, newOK := parseObject(newContent)

	if !oldOK || !newOK {
		result.ChangedFields = []string{RawField}
		result.Modifications[RawField] = FieldChange{From: oldContent, To: newContent}
		return result
	}

	changed := map[string]bool{}

	for key, newVal := range newFields {
		oldVal, exists := oldFields[key]
		if !exists {
			result.Additions[key] = newVal
			changed[key] = true
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			result.Modifications[key] = FieldChange{From: oldVal, To: newVal}
			changed[key] = true
		}
	}

	for key, oldVal := range oldFields {
		if _, exists := newFields[key]; !exists {
			result.Deletions[key] = oldVal
			changed[key] = true
		}
	}

	for key := range changed {
		result.ChangedFields = append(result.ChangedFields, key)
	}
	sort.Strings(result.ChangedFields)

	return result
}

// Patch 生成从 old 到 new 的文本补丁
// 用于历史详情展示，与结构化差异互补
func Patch(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldContent, newContent, false)
	return dmp.PatchToText(dmp.PatchMake(oldContent, diffs))
}

// parseObject 尝试把内容解析为单层 JSON 对象
func parseObject(content string) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := sonic.UnmarshalString(content, &fields); err != nil {
		return nil, false
	}
	if fields == nil {
		return nil, false
	}
	return fields, true
}
