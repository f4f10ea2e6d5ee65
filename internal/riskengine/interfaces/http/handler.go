// Package http 包含组合风险引擎的 HTTP 接口。
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// RiskHandler 负责处理组合风险计算相关的 HTTP 请求。
type RiskHandler struct {
	service *application.RiskService
}

// NewRiskHandler 创建 HTTP 处理器。
func NewRiskHandler(service *application.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

// RegisterRoutes 注册路由。
func (h *RiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/risk")
	{
		api.POST("/calculate", h.CalculateRisk)
		api.POST("/quick", h.QuickRisk)
		api.GET("/sample-portfolio", h.SamplePortfolio)

		api.POST("/portfolios", h.SavePortfolio)
		api.GET("/portfolios", h.ListPortfolios)
		api.GET("/portfolios/:id", h.GetPortfolio)
		api.DELETE("/portfolios/:id", h.DeletePortfolio)
		api.POST("/portfolios/:id/calculate", h.CalculateForPortfolio)
	}
}

// CalculateRisk 完整的蒙特卡洛风险计算。
func (h *RiskHandler) CalculateRisk(c *gin.Context) {
	var req application.CalculateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.service.CalculateRisk(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to calculate risk", err)
		return
	}

	response.Success(c, result)
}

// QuickRisk 快速风险估算：简化输入、单位相关系数矩阵。
func (h *RiskHandler) QuickRisk(c *gin.Context) {
	var assets []application.AssetInput
	if err := c.ShouldBindJSON(&assets); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	sims := 0
	if v := c.Query("num_simulations"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid num_simulations", "")
			return
		}
		sims = parsed
	}

	result, err := h.service.QuickRisk(c.Request.Context(), assets, sims)
	if err != nil {
		h.writeError(c, "Failed to calculate quick risk", err)
		return
	}

	response.Success(c, result)
}

// SamplePortfolio 返回用于联调的示例组合。
func (h *RiskHandler) SamplePortfolio(c *gin.Context) {
	response.Success(c, h.service.SamplePortfolio())
}

// SavePortfolio 保存命名组合定义。
func (h *RiskHandler) SavePortfolio(c *gin.Context) {
	var req application.SavePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	def, err := h.service.SavePortfolio(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to save portfolio", err)
		return
	}

	response.Success(c, def)
}

// ListPortfolios 分页列出组合定义。
func (h *RiskHandler) ListPortfolios(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset", "")
		return
	}

	defs, err := h.service.ListPortfolios(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, "Failed to list portfolios", err)
		return
	}

	response.Success(c, defs)
}

// GetPortfolio 按 ID 查询组合定义。
func (h *RiskHandler) GetPortfolio(c *gin.Context) {
	def, err := h.service.GetPortfolio(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "Failed to get portfolio", err)
		return
	}

	response.Success(c, def)
}

// DeletePortfolio 删除组合定义。
func (h *RiskHandler) DeletePortfolio(c *gin.Context) {
	if err := h.service.DeletePortfolio(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "Failed to delete portfolio", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// CalculateForPortfolio 对保存的组合定义执行风险计算。
func (h *RiskHandler) CalculateForPortfolio(c *gin.Context) {
	var params struct {
		NumSimulations  int `json:"num_simulations,omitempty"`
		TimeHorizonDays int `json:"time_horizon_days,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
	}

	result, err := h.service.CalculateForPortfolio(c.Request.Context(), c.Param("id"), params.NumSimulations, params.TimeHorizonDays)
	if err != nil {
		h.writeError(c, "Failed to calculate risk for portfolio", err)
		return
	}

	response.Success(c, result)
}

// writeError 按错误类别映射 HTTP 状态码：
// 配置类错误与数值退化视为客户端输入问题返回 400，
// 组合不存在返回 404，其余返回 500。
func (h *RiskHandler) writeError(c *gin.Context, msg string, err error) {
	logging.Error(c.Request.Context(), msg, "error", err)

	switch {
	case isConfigurationError(err):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrPortfolioNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	default:
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}

func isConfigurationError(err error) bool {
	for _, target := range []error{
		application.ErrValidation,
		domain.ErrEmptyPortfolio,
		domain.ErrDimensionMismatch,
		domain.ErrMatrixNotSymmetric,
		domain.ErrInvalidDiagonal,
		domain.ErrInvalidSimulations,
		domain.ErrInvalidTimeHorizon,
		domain.ErrNegativeVolatility,
		domain.ErrInputLengthMismatch,
		domain.ErrCorrelationOutOfRange,
		domain.ErrNotPositiveDefinite,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
