package diff

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_Modification(t *testing.T) {
	result := Fields(`{"v": 1}`, `{"v": 3}`)

	assert.Equal(t, []string{"v"}, result.ChangedFields)
	assert.Empty(t, result.Additions)
	assert.Empty(t, result.Deletions)
	require.Contains(t, result.Modifications, "v")
	// JSON 数字统一解析为 float64
	assert.Equal(t, float64(1), result.Modifications["v"].From)
	assert.Equal(t, float64(3), result.Modifications["v"].To)
}

func TestFields_AdditionsAndDeletions(t *testing.T) {
	result := Fields(`{"name": "Atlas", "tonnage": 100}`, `{"name": "Atlas", "pilot": "Kerensky"}`)

	assert.Equal(t, []string{"pilot", "tonnage"}, result.ChangedFields)
	assert.Equal(t, "Kerensky", result.Additions["pilot"])
	assert.Equal(t, float64(100), result.Deletions["tonnage"])
	assert.Empty(t, result.Modifications)
}

func TestFields_Identical(t *testing.T) {
	content := `{"name": "Atlas", "tonnage": 100}`
	result := Fields(content, content)

	assert.True(t, result.Empty())
	assert.Empty(t, result.ChangedFields)
	assert.Empty(t, result.Additions)
	assert.Empty(t, result.Deletions)
	assert.Empty(t, result.Modifications)
}

func TestFields_NestedValueCompared(t *testing.T) {
	// 嵌套对象仅作整体比较，不递归
	result := Fields(`{"loadout": {"arm": "AC20"}}`, `{"loadout": {"arm": "LRM15"}}`)

	assert.Equal(t, []string{"loadout"}, result.ChangedFields)
	require.Contains(t, result.Modifications, "loadout")
}

func TestFields_RawFallback(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"both plain text", "alpha strike", "called shot"},
		{"old not object", `[1, 2]`, `{"v": 1}`},
		{"new malformed", `{"v": 1}`, `{"v": `},
		{"null content", `null`, `{"v": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Fields(tt.old, tt.new)

			assert.Equal(t, []string{RawField}, result.ChangedFields)
			require.Contains(t, result.Modifications, RawField)
			assert.Equal(t, tt.old, result.Modifications[RawField].From)
			assert.Equal(t, tt.new, result.Modifications[RawField].To)
		})
	}
}

func TestPatch_RoundTrip(t *testing.T) {
	patch := Patch(`{"v": 1}`, `{"v": 3}`)
	assert.NotEmpty(t, patch)

	assert.Empty(t, Patch("same", "same"))
}

// 验证 changedFields 对交换 old/new 对称
func TestProperty_ChangedFieldsSymmetric(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// 键与值都用具体类型生成，序列化前无需类型断言
	genObject := gen.MapOf(
		gen.RegexMatch(`[a-z]{1,8}`),
		gen.AlphaString(),
	)

	properties.Property("fields(a,b) and fields(b,a) flag the same fields", prop.ForAll(
		func(oldFields, newFields map[string]string) bool {
			oldContent, err := sonic.MarshalString(oldFields)
			if err != nil {
				return false
			}
			newContent, err := sonic.MarshalString(newFields)
			if err != nil {
				return false
			}

			forward := Fields(oldContent, newContent)
			backward := Fields(newContent, oldContent)

			if len(forward.ChangedFields) != len(backward.ChangedFields) {
				return false
			}
			for i := range forward.ChangedFields {
				if forward.ChangedFields[i] != backward.ChangedFields[i] {
					return false
				}
			}
			// 新增与删除互为镜像
			return len(forward.Additions) == len(backward.Deletions) &&
				len(forward.Deletions) == len(backward.Additions)
		},
		genObject,
		genObject,
	))

	genNumericObject := gen.MapOf(
		gen.RegexMatch(`[a-z]{1,8}`),
		gen.Int64Range(-1000, 1000),
	)

	properties.Property("self diff is always empty", prop.ForAll(
		func(fields map[string]int64) bool {
			content, err := sonic.MarshalString(fields)
			if err != nil {
				return false
			}
			return Fields(content, content).Empty()
		},
		genNumericObject,
	))

	properties.TestingRun(t)
}
