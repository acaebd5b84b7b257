package neural

// MLPOption is a function that configures MLPRegressor.
type MLPOption func(*MLPRegressor)

// WithHiddenUnits sets the hidden-layer width.
func WithHiddenUnits(n int) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.hidden = n
	}
}

// WithOutputs sets the number of output units.
func WithOutputs(n int) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.outputs = n
	}
}

// WithEta sets the learning rate. It stays fixed for the whole run.
func WithEta(eta float64) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.eta = eta
	}
}

// WithEpochs sets the number of passes over the training set.
func WithEpochs(epochs int) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.epochs = epochs
	}
}

// WithMinibatches sets how many mini-batches each epoch is split into.
// 1 means full-batch updates; n_samples means one update per example.
func WithMinibatches(m int) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.minibatches = m
	}
}

// WithRandomState sets the RNG seed for weight initialization and epoch
// shuffling.
func WithRandomState(seed int64) MLPOption {
	return func(mlp *MLPRegressor) {
		mlp.randomState = seed
	}
}
