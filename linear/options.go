package linear

// GDOption is a function that configures GDRegressor.
type GDOption func(*GDRegressor)

// WithEta sets the learning rate.
func WithEta(eta float64) GDOption {
	return func(gd *GDRegressor) {
		gd.eta = eta
	}
}

// WithEpochs sets the number of passes over the training set.
func WithEpochs(epochs int) GDOption {
	return func(gd *GDRegressor) {
		gd.epochs = epochs
	}
}

// WithShuffle sets whether example order is reshuffled each epoch. Shuffling
// changes the exact parameter trajectory, not just the presentation order.
func WithShuffle(shuffle bool) GDOption {
	return func(gd *GDRegressor) {
		gd.shuffle = shuffle
	}
}

// WithRandomState sets the RNG seed used when shuffling is enabled.
func WithRandomState(seed int64) GDOption {
	return func(gd *GDRegressor) {
		gd.randomState = seed
	}
}
