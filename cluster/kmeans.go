// Package cluster provides the k-means clustering used for RBF center
// selection.
package cluster

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/core/model"
	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// KMeans is Lloyd's k-means with k-means++ initialization.
//
// With a fixed random state the whole run is deterministic, which is what
// the RBF trainer relies on for reproducible center selection.
type KMeans struct {
	model.BaseEstimator

	// Hyperparameters
	nClusters   int     // number of clusters
	init        string  // initialization method: "k-means++", "random"
	maxIter     int     // maximum number of assignment/update rounds
	tol         float64 // convergence threshold on center movement
	randomState int64   // RNG seed; < 0 means time-seeded

	// Learned parameters
	clusterCenters_ [][]float64 // nClusters x nFeatures
	labels_         []int       // cluster label per training sample
	inertia_        float64     // within-cluster sum of squared distances
	nIter_          int         // rounds actually run

	// Internal state
	rng        *rand.Rand
	nFeatures_ int
}

// NewKMeans creates a KMeans clusterer.
func NewKMeans(options ...KMeansOption) *KMeans {
	kmeans := &KMeans{
		nClusters:   8,
		init:        "k-means++",
		maxIter:     300,
		tol:         1e-4,
		randomState: -1,
	}

	for _, opt := range options {
		opt(kmeans)
	}

	if kmeans.randomState >= 0 {
		kmeans.rng = rand.New(rand.NewSource(kmeans.randomState))
	} else {
		kmeans.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return kmeans
}

// KMeansOption is a function that configures KMeans.
type KMeansOption func(*KMeans)

// WithKMeansNClusters sets the number of clusters.
func WithKMeansNClusters(n int) KMeansOption {
	return func(kmeans *KMeans) {
		kmeans.nClusters = n
	}
}

// WithKMeansInit sets the initialization method ("k-means++" or "random").
func WithKMeansInit(init string) KMeansOption {
	return func(kmeans *KMeans) {
		kmeans.init = init
	}
}

// WithKMeansMaxIter sets the maximum number of rounds.
func WithKMeansMaxIter(maxIter int) KMeansOption {
	return func(kmeans *KMeans) {
		kmeans.maxIter = maxIter
	}
}

// WithKMeansTol sets the center-movement convergence threshold.
func WithKMeansTol(tol float64) KMeansOption {
	return func(kmeans *KMeans) {
		kmeans.tol = tol
	}
}

// WithKMeansRandomState sets the RNG seed.
func WithKMeansRandomState(seed int64) KMeansOption {
	return func(kmeans *KMeans) {
		kmeans.randomState = seed
		if seed >= 0 {
			kmeans.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// Fit clusters the rows of X. y is ignored and may be nil.
func (kmeans *KMeans) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewValueError("KMeans.Fit", "empty data")
	}
	if kmeans.nClusters < 1 {
		return errors.NewConfigurationError("KMeans.Fit", "n_clusters", "cluster count must be a positive integer", kmeans.nClusters)
	}
	if rows < kmeans.nClusters {
		return errors.NewConfigurationError("KMeans.Fit", "n_clusters",
			"more clusters than samples", kmeans.nClusters)
	}

	kmeans.nFeatures_ = cols

	centers := kmeans.initializeCenters(X)
	labels := make([]int, rows)

	var round int
	for round = 0; round < kmeans.maxIter; round++ {
		// Assignment step.
		for i := 0; i < rows; i++ {
			sample := mat.Row(nil, i, X)
			labels[i] = nearestCenter(sample, centers)
		}

		// Update step. A cluster that lost all its members keeps its
		// previous center.
		next := make([][]float64, kmeans.nClusters)
		counts := make([]int, kmeans.nClusters)
		for c := range next {
			next[c] = make([]float64, cols)
		}
		for i := 0; i < rows; i++ {
			c := labels[i]
			counts[c]++
			for j := 0; j < cols; j++ {
				next[c][j] += X.At(i, j)
			}
		}
		shift := 0.0
		for c := range next {
			if counts[c] == 0 {
				copy(next[c], centers[c])
				continue
			}
			for j := 0; j < cols; j++ {
				next[c][j] /= float64(counts[c])
			}
			if d := euclideanDistance(centers[c], next[c]); d > shift {
				shift = d
			}
		}
		centers = next

		if shift < kmeans.tol {
			round++
			break
		}
	}

	kmeans.clusterCenters_ = centers
	kmeans.labels_ = labels
	kmeans.nIter_ = round
	kmeans.inertia_ = computeInertia(X, centers)

	kmeans.SetFitted()
	return nil
}

// Cluster runs k-means with k clusters over the rows of points and returns
// the centroids. It satisfies the narrow clustering interface the RBF
// trainer depends on.
func (kmeans *KMeans) Cluster(points mat.Matrix, k int) ([][]float64, error) {
	kmeans.nClusters = k
	if err := kmeans.Fit(points, nil); err != nil {
		return nil, err
	}
	return kmeans.ClusterCenters(), nil
}

// Predict assigns each row of X to its nearest cluster.
func (kmeans *KMeans) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !kmeans.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}

	rows, cols := X.Dims()
	if cols != kmeans.nFeatures_ {
		return nil, errors.NewDimensionError("KMeans.Predict", kmeans.nFeatures_, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		predictions.Set(i, 0, float64(nearestCenter(sample, kmeans.clusterCenters_)))
	}

	return predictions, nil
}

// ClusterCenters returns a copy of the learned centroids.
func (kmeans *KMeans) ClusterCenters() [][]float64 {
	centers := make([][]float64, len(kmeans.clusterCenters_))
	for i := range kmeans.clusterCenters_ {
		centers[i] = make([]float64, len(kmeans.clusterCenters_[i]))
		copy(centers[i], kmeans.clusterCenters_[i])
	}
	return centers
}

// Labels returns the training-data cluster labels.
func (kmeans *KMeans) Labels() []int {
	if kmeans.labels_ == nil {
		return nil
	}
	labels := make([]int, len(kmeans.labels_))
	copy(labels, kmeans.labels_)
	return labels
}

// Inertia returns the within-cluster sum of squared distances.
func (kmeans *KMeans) Inertia() float64 {
	return kmeans.inertia_
}

// NIterations returns the number of rounds the last Fit ran.
func (kmeans *KMeans) NIterations() int {
	return kmeans.nIter_
}

// initializeCenters picks the starting centroids.
func (kmeans *KMeans) initializeCenters(X mat.Matrix) [][]float64 {
	rows, cols := X.Dims()

	switch kmeans.init {
	case "random":
		centers := make([][]float64, kmeans.nClusters)
		for i := 0; i < kmeans.nClusters; i++ {
			centers[i] = make([]float64, cols)
			idx := kmeans.rng.Intn(rows)
			sample := mat.Row(nil, idx, X)
			copy(centers[i], sample)
		}
		return centers
	default:
		return kmeans.initKMeansPlusPlus(X)
	}
}

// initKMeansPlusPlus seeds centroids with the k-means++ scheme: each new
// center is drawn with probability proportional to the squared distance to
// the nearest center already chosen.
func (kmeans *KMeans) initKMeansPlusPlus(X mat.Matrix) [][]float64 {
	rows, cols := X.Dims()
	centers := make([][]float64, kmeans.nClusters)

	centers[0] = make([]float64, cols)
	idx := kmeans.rng.Intn(rows)
	sample := mat.Row(nil, idx, X)
	copy(centers[0], sample)

	for c := 1; c < kmeans.nClusters; c++ {
		distances := make([]float64, rows)
		totalDistance := 0.0

		for i := 0; i < rows; i++ {
			sample := mat.Row(nil, i, X)
			minDist := math.Inf(1)

			for j := 0; j < c; j++ {
				dist := euclideanDistance(sample, centers[j])
				if dist < minDist {
					minDist = dist
				}
			}

			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		target := kmeans.rng.Float64() * totalDistance
		cumSum := 0.0
		selectedIdx := 0

		for i := 0; i < rows; i++ {
			cumSum += distances[i]
			if cumSum >= target {
				selectedIdx = i
				break
			}
		}

		centers[c] = make([]float64, cols)
		sample = mat.Row(nil, selectedIdx, X)
		copy(centers[c], sample)
	}

	return centers
}

// nearestCenter returns the index of the closest center.
func nearestCenter(sample []float64, centers [][]float64) int {
	minDist := math.Inf(1)
	nearest := 0

	for c, center := range centers {
		dist := euclideanDistance(sample, center)
		if dist < minDist {
			minDist = dist
			nearest = c
		}
	}

	return nearest
}

// computeInertia sums squared distances of every sample to its nearest center.
func computeInertia(X mat.Matrix, centers [][]float64) float64 {
	rows, _ := X.Dims()
	inertia := 0.0

	for i := 0; i < rows; i++ {
		sample := mat.Row(nil, i, X)
		dist := euclideanDistance(sample, centers[nearestCenter(sample, centers)])
		inertia += dist * dist
	}

	return inertia
}

// euclideanDistance computes the Euclidean distance between two vectors.
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}
