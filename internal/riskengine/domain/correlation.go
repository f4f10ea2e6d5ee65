package domain

import (
	"fmt"
	"math"
)

const (
	// symmetryTolerance 对称性校验容差。
	symmetryTolerance = 1e-10
	// diagonalMin / diagonalMax 对角线元素允许的区间。
	diagonalMin = 0.99
	diagonalMax = 1.01
)

// validateCorrelationMatrix 校验相关系数矩阵：
// 维度与资产数一致、对称（容差 1e-10）、对角线落在 [0.99, 1.01]。
// 不做任何自动修正（例如对称化），不合规矩阵一律拒绝。
func validateCorrelationMatrix(matrix [][]float64, n int) error {
	if len(matrix) != n {
		return fmt.Errorf("%w: got %d rows, want %d", ErrDimensionMismatch, len(matrix), n)
	}
	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if math.Abs(matrix[i][j]-matrix[j][i]) > symmetryTolerance {
				return fmt.Errorf("%w: [%d][%d]=%g differs from [%d][%d]=%g", ErrMatrixNotSymmetric, i, j, matrix[i][j], j, i, matrix[j][i])
			}
		}
		if matrix[i][i] < diagonalMin || matrix[i][i] > diagonalMax {
			return fmt.Errorf("%w: [%d][%d]=%g", ErrInvalidDiagonal, i, i, matrix[i][i])
		}
	}
	return nil
}

// cloneMatrix 深拷贝矩阵，引擎内部状态与调用方隔离。
func cloneMatrix(matrix [][]float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// IdentityMatrix 生成 n 阶单位相关系数矩阵（各资产互不相关）。
func IdentityMatrix(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	return matrix
}
