package api_router

import (
	"github.com/mekstation/vault-sync-service/internal/app"
	"github.com/mekstation/vault-sync-service/internal/dto"
	pkgapp "github.com/mekstation/vault-sync-service/pkg/app"
	"github.com/mekstation/vault-sync-service/pkg/code"
	apperrors "github.com/mekstation/vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConflictHandler 同步冲突 API 路由处理器
type ConflictHandler struct {
	*Handler
}

// NewConflictHandler 创建 ConflictHandler 实例
func NewConflictHandler(a *app.App) *ConflictHandler {
	return &ConflictHandler{Handler: NewHandler(a)}
}

// Record 记录一个同步冲突
// @Summary 记录冲突
// @Description 记录本地与远端历史的一次分歧，初始状态为 pending
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.SyncConflictDTO} "成功"
// @Router /api/conflict [post]
func (h *ConflictHandler) Record(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ConflictRecordRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ConflictHandler.Record.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	conflict, err := h.App.ConflictService.RecordConflict(ctx, params)
	if err != nil {
		h.logError(ctx, "ConflictHandler.Record", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(conflict))
}

// Pending 获取全部待处理冲突
// @Summary 获取待处理冲突
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.SyncConflictDTO} "成功"
// @Router /api/conflicts/pending [get]
func (h *ConflictHandler) Pending(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	list, err := h.App.ConflictService.GetPendingConflicts(ctx)
	if err != nil {
		h.logError(ctx, "ConflictHandler.Pending", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Resolve 处理一个冲突
// @Summary 处理冲突
// @Description 把冲突迁移到终态，重复处理静默覆盖
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/conflict/resolve [put]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ConflictResolveRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ConflictHandler.Resolve.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	resolved, err := h.App.ConflictService.ResolveConflict(ctx, params.ID, params.Resolution)
	if err != nil {
		h.logError(ctx, "ConflictHandler.Resolve", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(gin.H{"resolved": resolved}))
}
