package domain

import "errors"

// 配置类错误：在构造或变更配置时同步检测，拒绝后原有状态保持不变。
var (
	ErrEmptyPortfolio        = errors.New("portfolio cannot be empty")
	ErrDimensionMismatch     = errors.New("correlation matrix dimensions must match portfolio size")
	ErrMatrixNotSymmetric    = errors.New("correlation matrix must be symmetric")
	ErrInvalidDiagonal       = errors.New("diagonal elements of correlation matrix should be 1")
	ErrInvalidSimulations    = errors.New("number of simulations must be positive")
	ErrInvalidTimeHorizon    = errors.New("time horizon must be positive")
	ErrNegativeVolatility    = errors.New("asset volatility must be non-negative")
	ErrInputLengthMismatch   = errors.New("asset input lists must have equal length")
	ErrCorrelationOutOfRange = errors.New("correlation values must be between -1 and 1")
)

// 数值退化错误：相关系数矩阵通过了对称性/对角线校验，
// 但不是半正定矩阵，Cholesky 分解在开方前出现负值。
var ErrNotPositiveDefinite = errors.New("cholesky decomposition failed: matrix is not positive definite")
