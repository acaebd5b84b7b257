// Standard attribute keys for training-run logging. Using the same keys
// everywhere keeps loss curves and run diagnostics greppable across models.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type.
	// Examples: "GDRegressor", "MLPRegressor", "RBFNetwork"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "minimize", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package performs the operation.
	// Examples: "linear", "neural", "rbf", "optimize"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// TargetsKey is the number of target variables.
	TargetsKey = "data.targets"
)

// Training progress.
const (
	// EpochKey is the current epoch (one full pass over the training set).
	EpochKey = "train.epoch"

	// MinibatchKey is the current mini-batch index within an epoch.
	MinibatchKey = "train.minibatch"

	// LossKey is the loss recorded at the current step.
	LossKey = "train.loss"

	// LearningRateKey is the (fixed) learning rate of the run.
	LearningRateKey = "train.eta"

	// HiddenUnitsKey is the hidden-layer width of a network model.
	HiddenUnitsKey = "train.hidden_units"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
