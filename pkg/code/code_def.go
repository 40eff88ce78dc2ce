package code

// 业务状态码定义
// 1000xxxx 通用，2001xxxx 版本历史，2002xxxx 变更日志，2003xxxx 同步冲突
var (
	Success = NewSuss(200, lang{en: "Success", zh_cn: "成功"})

	ErrorServerInternal  = NewError(10000000, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorInvalidParams   = NewError(10000001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorTooManyRequests = NewError(10000002, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorDBQuery         = NewError(10000003, lang{en: "Database query error", zh_cn: "数据库查询错误"})
	ErrorNotFound        = NewError(10000004, lang{en: "Resource not found", zh_cn: "资源不存在"})

	ErrorVersionNotFound    = NewError(20010001, lang{en: "Version not found", zh_cn: "版本不存在"})
	ErrorApplyContent       = NewError(20010002, lang{en: "Failed to apply restored content", zh_cn: "恢复内容写回失败"})
	ErrorInvalidContentType = NewError(20010003, lang{en: "Invalid content type", zh_cn: "内容类型无效"})

	ErrorInvalidChangeType  = NewError(20020001, lang{en: "Invalid change type", zh_cn: "变更类型无效"})
	ErrorChangeDataRequired = NewError(20020002, lang{en: "Change data is required for non-delete changes", zh_cn: "非删除变更必须携带数据"})

	ErrorConflictNotFound  = NewError(20030001, lang{en: "Conflict not found", zh_cn: "冲突记录不存在"})
	ErrorInvalidResolution = NewError(20030002, lang{en: "Invalid conflict resolution", zh_cn: "冲突处理方式无效"})
)
