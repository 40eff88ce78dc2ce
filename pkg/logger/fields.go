package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldItemID 内容条目 ID 字段
	FieldItemID = "itemId"

	// FieldContentType 内容类型字段
	FieldContentType = "contentType"

	// FieldVersion 版本号字段
	FieldVersion = "version"

	// FieldChangeType 变更类型字段
	FieldChangeType = "changeType"

	// FieldPeerID 对端标识字段
	FieldPeerID = "peerId"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldSize 内容大小字段
	FieldSize = "size"
)
