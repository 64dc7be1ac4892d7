package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			yPred:     mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0}),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0}),
			yPred:     mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:      0.25,
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1.0, 2.0, 3.0}),
			yPred:   mat.NewVecDense(2, []float64{1.0, 2.0}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if tt.wantErr {
				if err == nil {
					t.Errorf("MSE() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("MSE() unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE() unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-10 {
		t.Errorf("RMSE() = %v, want 0.5", got)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{2.0, 1.0, 4.0, 3.0})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() unexpected error: %v", err)
	}
	if math.Abs(got-1.0) > 1e-10 {
		t.Errorf("MAE() = %v, want 1.0", got)
	}
}

func TestR2Score(t *testing.T) {
	t.Run("perfect prediction", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
		got, err := R2Score(yTrue, yTrue)
		if err != nil {
			t.Fatalf("R2Score() unexpected error: %v", err)
		}
		if math.Abs(got-1.0) > 1e-10 {
			t.Errorf("R2Score() = %v, want 1.0", got)
		}
	})

	t.Run("mean prediction scores zero", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
		yPred := mat.NewVecDense(3, []float64{2.0, 2.0, 2.0})
		got, err := R2Score(yTrue, yPred)
		if err != nil {
			t.Fatalf("R2Score() unexpected error: %v", err)
		}
		if math.Abs(got) > 1e-10 {
			t.Errorf("R2Score() = %v, want 0.0", got)
		}
	})

	t.Run("constant target is undefined", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{2.0, 2.0, 2.0})
		yPred := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
		if _, err := R2Score(yTrue, yPred); err == nil {
			t.Errorf("R2Score() expected error for zero-variance target")
		}
	})
}

func TestRMSLE(t *testing.T) {
	t.Run("perfect prediction", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{1.0, 10.0, 100.0})
		got, err := RMSLE(yTrue, yTrue)
		if err != nil {
			t.Fatalf("RMSLE() unexpected error: %v", err)
		}
		if math.Abs(got) > 1e-10 {
			t.Errorf("RMSLE() = %v, want 0.0", got)
		}
	})

	t.Run("values at or below -1 rejected", func(t *testing.T) {
		yTrue := mat.NewVecDense(2, []float64{-1.0, 1.0})
		yPred := mat.NewVecDense(2, []float64{0.0, 1.0})
		if _, err := RMSLE(yTrue, yPred); err == nil {
			t.Errorf("RMSLE() expected error for out-of-domain values")
		}
	})
}

func TestMAPE(t *testing.T) {
	t.Run("excludes zero targets", func(t *testing.T) {
		yTrue := mat.NewVecDense(3, []float64{0.0, 10.0, 20.0})
		yPred := mat.NewVecDense(3, []float64{5.0, 11.0, 18.0})
		got, err := MAPE(yTrue, yPred)
		if err != nil {
			t.Fatalf("MAPE() unexpected error: %v", err)
		}
		want := (0.1 + 0.1) / 2
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("MAPE() = %v, want %v", got, want)
		}
	})

	t.Run("all-zero target is undefined", func(t *testing.T) {
		yTrue := mat.NewVecDense(2, []float64{0.0, 0.0})
		yPred := mat.NewVecDense(2, []float64{1.0, 2.0})
		if _, err := MAPE(yTrue, yPred); err == nil {
			t.Errorf("MAPE() expected error when every target is zero")
		}
	})
}
