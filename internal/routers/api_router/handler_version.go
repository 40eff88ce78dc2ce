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

// VersionHandler 版本历史 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type VersionHandler struct {
	*Handler
}

// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// Server 获取服务端版本信息
// @Summary 获取服务端版本号
// @Produce json
// @Success 200 {object} pkgapp.Res{data=pkgapp.VersionInfo} "成功"
// @Router /api/version [get]
func (h *VersionHandler) Server(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	response.ToResponse(code.Success.WithData(h.App.Version()))
}

// Save 保存新版本快照
// @Summary 保存版本快照
// @Description 为条目追加一个新的版本快照，版本号严格递增无空洞
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.VersionSnapshotDTO} "成功"
// @Router /api/version [post]
func (h *VersionHandler) Save(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionSaveRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Save.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	snapshot, err := h.App.HistoryService.SaveVersion(ctx, params)
	if err != nil {
		h.logError(ctx, "VersionHandler.Save", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if snapshot == nil {
		// skipIfUnchanged 命中，未落库
		response.ToResponse(code.Success.WithData(gin.H{"skipped": true}))
		return
	}

	response.ToResponse(code.Success.WithData(snapshot))
}

// VersionHistoryGetParams 获取单个版本快照请求参数
type VersionHistoryGetParams struct {
	ContentType string `form:"contentType" binding:"required"`
	ItemID      string `form:"itemId" binding:"required"`
	Version     int64  `form:"version" binding:"required"`
}

// Get 获取单个版本快照
// @Summary 获取版本快照详情
// @Description 按版本号或快照 ID 获取单个版本快照
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.VersionSnapshotDTO} "成功"
// @Router /api/version/detail [get]
func (h *VersionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &VersionHistoryGetParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	snapshot, err := h.App.HistoryService.GetVersion(ctx, params.ItemID, domain.ContentType(params.ContentType), params.Version)
	if err != nil {
		h.logError(ctx, "VersionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if snapshot == nil {
		response.ToResponse(code.ErrorVersionNotFound)
		return
	}

	response.ToResponse(code.Success.WithData(snapshot))
}

// History 获取版本历史列表
// @Summary 获取版本历史
// @Description 获取条目的版本历史，从新到旧
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.VersionSnapshotDTO} "成功"
// @Router /api/version/history [get]
func (h *VersionHandler) History(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionHistoryRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.History.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.HistoryService.GetHistory(ctx, params.ItemID, domain.ContentType(params.ContentType), params.Limit)
	if err != nil {
		h.logError(ctx, "VersionHandler.History", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// VersionSummaryParams 获取历史汇总请求参数
type VersionSummaryParams struct {
	ContentType string `form:"contentType" binding:"required"`
	ItemID      string `form:"itemId" binding:"required"`
}

// Summary 获取条目历史汇总
// @Summary 获取版本历史汇总
// @Description 汇总条目的版本数量、存储占用与版本号范围，无历史时全零
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HistorySummaryDTO} "成功"
// @Router /api/version/summary [get]
func (h *VersionHandler) Summary(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &VersionSummaryParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Summary.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	summary, err := h.App.HistoryService.GetHistorySummary(ctx, params.ItemID, domain.ContentType(params.ContentType))
	if err != nil {
		h.logError(ctx, "VersionHandler.Summary", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(summary))
}

// Diff 计算两个版本之间的差异
// @Summary 计算版本差异
// @Description 计算两个已存版本之间的字段级差异，toVersion 为空时与最新版本比较
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.VersionDiffDTO} "成功"
// @Router /api/version/diff [get]
func (h *VersionHandler) Diff(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionDiffRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Diff.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	var (
		result *dto.VersionDiffDTO
		err    error
	)
	if params.ToVersion > 0 {
		result, err = h.App.HistoryService.DiffVersions(ctx, params.ItemID, domain.ContentType(params.ContentType), params.FromVersion, params.ToVersion)
	} else {
		result, err = h.App.HistoryService.DiffWithLatest(ctx, params.ItemID, domain.ContentType(params.ContentType), params.FromVersion)
	}
	if err != nil {
		h.logError(ctx, "VersionHandler.Diff", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if result == nil {
		response.ToResponse(code.ErrorVersionNotFound)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Rollback 回滚到指定版本
// @Summary 回滚版本
// @Description 把目标版本内容作为新版本向前追加，历史保持不变
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.RollbackResultDTO} "成功"
// @Router /api/version/rollback [put]
func (h *VersionHandler) Rollback(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionRollbackRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Rollback.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	var (
		result *dto.RollbackResultDTO
		err    error
	)
	if params.VersionID > 0 {
		result, err = h.App.HistoryService.RollbackToVersionByID(ctx, params.VersionID, params.Actor)
	} else {
		if params.ItemID == "" || params.TargetVersion <= 0 {
			response.ToResponse(code.ErrorInvalidParams.WithDetails("itemId and targetVersion are required when versionId is absent"))
			return
		}
		result, err = h.App.HistoryService.RollbackToVersion(ctx, params.ItemID, domain.ContentType(params.ContentType), params.TargetVersion, params.Actor)
	}
	if err != nil {
		h.logError(ctx, "VersionHandler.Rollback", err)
		// 回滚失败时 result 携带失败原因，随错误码一并返回
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Prune 清理条目的旧版本
// @Summary 清理旧版本
// @Description 仅保留条目最新的 keepCount 个版本，保留版本号不重排
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/version/prune [delete]
func (h *VersionHandler) Prune(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionPruneRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Prune.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	deleted, err := h.App.HistoryService.PruneVersions(ctx, params.ItemID, domain.ContentType(params.ContentType), params.KeepCount)
	if err != nil {
		h.logError(ctx, "VersionHandler.Prune", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"deleted": deleted}))
}

// VersionDeleteParams 删除单个版本快照请求参数
type VersionDeleteParams struct {
	VersionID int64 `form:"versionId" binding:"required"`
}

// Delete 删除单个版本快照
// @Summary 删除版本快照
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/version [delete]
func (h *VersionHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &VersionDeleteParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	deleted, err := h.App.HistoryService.DeleteVersion(ctx, params.VersionID)
	if err != nil {
		h.logError(ctx, "VersionHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if !deleted {
		response.ToResponse(code.ErrorVersionNotFound)
		return
	}

	response.ToResponse(code.Success)
}

// DeleteAll 删除条目的全部版本历史
// @Summary 删除条目全部历史
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/versions [delete]
func (h *VersionHandler) DeleteAll(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionDeleteAllRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.DeleteAll.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	deleted, err := h.App.HistoryService.DeleteAllVersions(ctx, params.ItemID, domain.ContentType(params.ContentType))
	if err != nil {
		h.logError(ctx, "VersionHandler.DeleteAll", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"deleted": deleted}))
}
