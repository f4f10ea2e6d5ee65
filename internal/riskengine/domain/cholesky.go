package domain

import (
	"fmt"
	"math"
)

// choleskyDecompose 对对称矩阵做 Cholesky 分解，返回下三角因子 L（L·Lᵗ = matrix）。
// 经典的三角递推：对角线元素为剩余方差的平方根，
// 非对角线元素为前序列的归一化内积。不做主元选取或正则化；
// 若输入不是半正定矩阵（开方前出现负值），返回 ErrNotPositiveDefinite
// 而不是让 NaN 在后续流程中扩散。
func choleskyDecompose(matrix [][]float64) ([][]float64, error) {
	n := len(matrix)
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := 0.0
			for k := 0; k < j; k++ {
				sum += l[i][k] * l[j][k]
			}
			if i == j {
				d := matrix[j][j] - sum
				if d < 0 {
					return nil, fmt.Errorf("%w: leading minor of order %d", ErrNotPositiveDefinite, j+1)
				}
				l[j][j] = math.Sqrt(d)
			} else {
				l[i][j] = (matrix[i][j] - sum) / l[j][j]
			}
		}
	}
	return l, nil
}
