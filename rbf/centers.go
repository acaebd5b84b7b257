package rbf

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradkit/cluster"
	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// Clusterer is the narrow clustering capability the RBF trainer depends on.
// Any implementation must be deterministic under a fixed seed.
type Clusterer interface {
	// Cluster partitions the rows of points into k clusters and returns
	// the k centroids.
	Cluster(points mat.Matrix, k int) ([][]float64, error)
}

// CentersPolicy selects the hidden-unit centers during phase one of RBF
// training. The set of policies is closed: each variant carries only the
// fields it needs, and an unknown policy can only arise from config-string
// parsing, where ParseCentersPolicy rejects it.
type CentersPolicy interface {
	// centers picks hidden center vectors from the training inputs.
	centers(X mat.Matrix, hidden int, rng *rand.Rand) ([][]float64, error)
	// String returns the config-file name of the policy.
	String() string
}

// RandomCenters samples hidden distinct training rows without replacement.
type RandomCenters struct{}

func (RandomCenters) String() string { return "random" }

func (RandomCenters) centers(X mat.Matrix, hidden int, rng *rand.Rand) ([][]float64, error) {
	rows, cols := X.Dims()
	if hidden > rows {
		return nil, errors.NewConfigurationError("rbf.RandomCenters", "n_hidden",
			"cannot sample more distinct centers than there are training rows", hidden)
	}

	perm := rng.Perm(rows)
	centers := make([][]float64, hidden)
	for i := 0; i < hidden; i++ {
		centers[i] = make([]float64, cols)
		mat.Row(centers[i], perm[i], X)
	}
	return centers, nil
}

// ClusteringCenters places centers at the centroids of a k-means run over
// the training inputs.
type ClusteringCenters struct {
	// MaxIter and Tol configure the default k-means run. Zero values fall
	// back to the clusterer's defaults.
	MaxIter int
	Tol     float64
	// Clusterer overrides the clustering implementation. When nil a seeded
	// cluster.KMeans is used, with its seed drawn from the trainer's RNG so
	// a fixed trainer seed fixes the whole run.
	Clusterer Clusterer
}

func (ClusteringCenters) String() string { return "clustering" }

func (p ClusteringCenters) centers(X mat.Matrix, hidden int, rng *rand.Rand) ([][]float64, error) {
	clusterer := p.Clusterer
	if clusterer == nil {
		opts := []cluster.KMeansOption{
			cluster.WithKMeansRandomState(rng.Int63()),
		}
		if p.MaxIter > 0 {
			opts = append(opts, cluster.WithKMeansMaxIter(p.MaxIter))
		}
		if p.Tol > 0 {
			opts = append(opts, cluster.WithKMeansTol(p.Tol))
		}
		clusterer = cluster.NewKMeans(opts...)
	}
	return clusterer.Cluster(X, hidden)
}

// DebugCenters uses fixed literal centers so runs can be compared by hand:
// [-8], [-1], [7] in one dimension and (-8,-8), (-1,-1), (7,7) in two.
// It requires exactly three hidden units and at most two input features.
type DebugCenters struct{}

func (DebugCenters) String() string { return "debug" }

func (DebugCenters) centers(X mat.Matrix, hidden int, _ *rand.Rand) ([][]float64, error) {
	_, cols := X.Dims()
	if hidden != 3 {
		return nil, errors.NewConfigurationError("rbf.DebugCenters", "n_hidden",
			"debug centers are a fixed set of three", hidden)
	}

	switch cols {
	case 1:
		return [][]float64{{-8}, {-1}, {7}}, nil
	case 2:
		return [][]float64{{-8, -8}, {-1, -1}, {7, 7}}, nil
	default:
		return nil, errors.NewConfigurationError("rbf.DebugCenters", "n_features",
			"debug centers are only defined for one or two input features", cols)
	}
}

// ParseCentersPolicy maps the configuration names random, clustering and
// debug onto their policy variants. Any other name is a ConfigurationError.
func ParseCentersPolicy(name string) (CentersPolicy, error) {
	switch name {
	case "random":
		return RandomCenters{}, nil
	case "clustering":
		return ClusteringCenters{}, nil
	case "debug":
		return DebugCenters{}, nil
	default:
		return nil, errors.NewConfigurationError("rbf.ParseCentersPolicy",
			"centres_generation_method", "unknown center generation method", name)
	}
}
