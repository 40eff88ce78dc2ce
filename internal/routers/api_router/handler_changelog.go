package api_router

import (
	"github.com/mekstation/vault-sync-service/internal/app"
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/dto"
	pkgapp "github.com/mekstation/vault-sync-service/pkg/app"
	"github.com/mekstation/vault-sync-service/pkg/code"
	apperrors "github.com/mekstation/vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChangeLogHandler 变更日志 API 路由处理器
type ChangeLogHandler struct {
	*Handler
}

// NewChangeLogHandler 创建 ChangeLogHandler 实例
func NewChangeLogHandler(a *app.App) *ChangeLogHandler {
	return &ChangeLogHandler{Handler: NewHandler(a)}
}

// Record 记录一次变更
// @Summary 记录变更
// @Description 向变更日志追加一条记录，全局版本号严格递增
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.ChangeLogEntryDTO} "成功"
// @Router /api/change [post]
func (h *ChangeLogHandler) Record(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChangeRecordRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.Record.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	entry, err := h.App.ChangeService.RecordChange(ctx, params)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.Record", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(entry))
}

// Unsynced 获取全部未同步的变更
// @Summary 获取未同步变更
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ChangeLogEntryDTO} "成功"
// @Router /api/changes/unsynced [get]
func (h *ChangeLogHandler) Unsynced(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	list, err := h.App.ChangeService.GetUnsynced(ctx)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.Unsynced", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Since 游标式拉取变更
// @Summary 拉取增量变更
// @Description 返回版本号大于游标的变更，按版本号升序，供对端轮询
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ChangeLogEntryDTO} "成功"
// @Router /api/changes [get]
func (h *ChangeLogHandler) Since(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChangesSinceRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.Since.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.ChangeService.GetChangesSince(ctx, params.Cursor, params.Limit)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.Since", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Latest 获取条目最近一次变更
// @Summary 获取条目最近变更
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.ChangeLogEntryDTO} "成功"
// @Router /api/change/latest [get]
func (h *ChangeLogHandler) Latest(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChangeItemHistoryRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.Latest.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	entry, err := h.App.ChangeService.GetLatestForItem(ctx, params.ItemID, domain.ContentType(params.ContentType))
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.Latest", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		response.ToResponse(code.ErrorNotFound)
		return
	}

	response.ToResponse(code.Success.WithData(entry))
}

// ItemHistory 获取条目的全部变更记录
// @Summary 获取条目变更历史
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ChangeLogEntryDTO} "成功"
// @Router /api/change/history [get]
func (h *ChangeLogHandler) ItemHistory(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChangeItemHistoryRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.ItemHistory.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.ChangeService.GetHistoryForItem(ctx, params.ItemID, domain.ContentType(params.ContentType))
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.ItemHistory", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// 条目日志可能很长，分页输出
	total := len(list)
	offset := pkgapp.GetPageOffset(pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if offset > total {
		offset = total
	}
	end := offset + pkgapp.GetPageSize(c)
	if end > total {
		end = total
	}

	response.ToResponseList(code.Success, list[offset:end], total)
}

// CurrentVersion 获取全局当前版本号
// @Summary 获取当前日志版本号
// @Description 返回日志中的最大版本号，空日志返回 0，供对端初始化游标
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/changes/version [get]
func (h *ChangeLogHandler) CurrentVersion(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	version, err := h.App.ChangeService.GetCurrentVersion(ctx)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.CurrentVersion", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"version": version}))
}

// MarkSynced 批量标记变更为已同步
// @Summary 标记已同步
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/changes/synced [put]
func (h *ChangeLogHandler) MarkSynced(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.MarkSyncedRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.MarkSynced.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	updated, err := h.App.ChangeService.MarkSynced(ctx, params.IDs)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.MarkSynced", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"updated": updated}))
}

// Prune 清理已同步的旧变更
// @Summary 清理变更日志
// @Description 裁剪超出保留数的最旧已同步变更，未同步的变更永不删除
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/changes/prune [delete]
func (h *ChangeLogHandler) Prune(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChangePruneRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ChangeLogHandler.Prune.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	deleted, err := h.App.ChangeService.PruneOldChanges(ctx, params.KeepCount)
	if err != nil {
		h.logError(ctx, "ChangeLogHandler.Prune", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"deleted": deleted}))
}
