package cluster

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// three tight blobs around (-8, -8), (-1, -1) and (7, 7).
func blobData() *mat.Dense {
	blobs := [][2]float64{{-8, -8}, {-1, -1}, {7, 7}}
	offsets := []float64{-0.2, -0.1, 0, 0.1, 0.2}

	data := make([]float64, 0, len(blobs)*len(offsets)*2)
	for _, b := range blobs {
		for _, o := range offsets {
			data = append(data, b[0]+o, b[1]-o)
		}
	}
	return mat.NewDense(len(blobs)*len(offsets), 2, data)
}

func TestKMeansFindsBlobCenters(t *testing.T) {
	X := blobData()

	kmeans := NewKMeans(
		WithKMeansNClusters(3),
		WithKMeansRandomState(42),
	)
	if err := kmeans.Fit(X, nil); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	centers := kmeans.ClusterCenters()
	if len(centers) != 3 {
		t.Fatalf("got %d centers, want 3", len(centers))
	}

	// Sort by the first coordinate so the comparison is label-free.
	sort.Slice(centers, func(i, j int) bool { return centers[i][0] < centers[j][0] })

	want := [][]float64{{-8, -8}, {-1, -1}, {7, 7}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(centers[i][j]-want[i][j]) > 0.5 {
				t.Errorf("center[%d][%d] = %v, want ~%v", i, j, centers[i][j], want[i][j])
			}
		}
	}
}

func TestKMeansDeterministicWithSeed(t *testing.T) {
	X := blobData()

	run := func() [][]float64 {
		kmeans := NewKMeans(WithKMeansNClusters(3), WithKMeansRandomState(7))
		if err := kmeans.Fit(X, nil); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		return kmeans.ClusterCenters()
	}

	a := run()
	b := run()
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("center[%d][%d] differs between seeded runs: %v vs %v", i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestKMeansClusterInterface(t *testing.T) {
	X := blobData()

	kmeans := NewKMeans(WithKMeansRandomState(1))
	centers, err := kmeans.Cluster(X, 3)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(centers) != 3 {
		t.Errorf("got %d centers, want 3", len(centers))
	}
	if len(centers[0]) != 2 {
		t.Errorf("center dimensionality = %d, want 2", len(centers[0]))
	}
}

func TestKMeansValidation(t *testing.T) {
	X := blobData()

	kmeans := NewKMeans(WithKMeansNClusters(100), WithKMeansRandomState(0))
	err := kmeans.Fit(X, nil)
	var cfgErr *errors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("more clusters than samples: got %v, want ConfigurationError", err)
	}
}

func TestKMeansPredictAssignsNearest(t *testing.T) {
	X := blobData()

	kmeans := NewKMeans(WithKMeansNClusters(3), WithKMeansRandomState(42))
	if err := kmeans.Fit(X, nil); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Points at the blob centers must land in distinct clusters.
	probes := mat.NewDense(3, 2, []float64{-8, -8, -1, -1, 7, 7})
	pred, err := kmeans.Predict(probes)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	seen := map[float64]bool{}
	for i := 0; i < 3; i++ {
		seen[pred.At(i, 0)] = true
	}
	if len(seen) != 3 {
		t.Errorf("blob centers mapped to %d distinct clusters, want 3", len(seen))
	}
}
