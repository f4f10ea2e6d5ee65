package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCholeskyIdentity(t *testing.T) {
	l, err := choleskyDecompose(IdentityMatrix(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(l[i][j]-want) > 1e-12 {
				t.Errorf("L[%d][%d] = %g, want %g", i, j, l[i][j], want)
			}
		}
	}
}

func TestCholeskyReconstruction(t *testing.T) {
	matrix := [][]float64{
		{1.0, 0.7, 0.8},
		{0.7, 1.0, 0.6},
		{0.8, 0.6, 1.0},
	}
	l, err := choleskyDecompose(matrix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// L·Lᵗ 应还原输入矩阵。
	n := len(matrix)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += l[i][k] * l[j][k]
			}
			if math.Abs(sum-matrix[i][j]) > 1e-10 {
				t.Errorf("(L·Lᵗ)[%d][%d] = %g, want %g", i, j, sum, matrix[i][j])
			}
		}
	}

	// 下三角：上三角部分必须为零。
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if l[i][j] != 0 {
				t.Errorf("L[%d][%d] = %g, want 0", i, j, l[i][j])
			}
		}
	}
}

func TestCholeskyNotPositiveDefinite(t *testing.T) {
	// 对称且对角线为 1，但 |ρ| > 1 导致非半正定。
	matrix := [][]float64{
		{1.0, 2.0},
		{2.0, 1.0},
	}
	_, err := choleskyDecompose(matrix)
	if !errors.Is(err, ErrNotPositiveDefinite) {
		t.Fatalf("got %v, want ErrNotPositiveDefinite", err)
	}
}
