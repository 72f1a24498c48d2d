package kitelog

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Events is a structured JSON-lines log of training progress: one record per
// epoch or evaluation. The zero value and nil both discard everything.
type Events struct {
	z *zap.Logger
}

// NewEvents returns an Events writing one JSON object per line to w.
func NewEvents(w io.Writer, pipeline string) *Events {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), zapcore.AddSync(w), zapcore.InfoLevel)
	return &Events{
		z: zap.New(core).With(zap.String("pipeline", pipeline)),
	}
}

func (e *Events) logger() *zap.Logger {
	if e == nil || e.z == nil {
		return zap.NewNop()
	}
	return e.z
}

// Epoch records the mean losses of a finished epoch (1-based).
func (e *Events) Epoch(epoch int, trainLoss, valLoss float64) {
	e.logger().Info("epoch",
		zap.Int("epoch", epoch),
		zap.Float64("train_loss", trainLoss),
		zap.Float64("val_loss", valLoss),
	)
}

// Evaluation records held-out classification scores.
func (e *Events) Evaluation(precision, recall, f1, accuracy float64) {
	e.logger().Info("evaluation",
		zap.Float64("precision", precision),
		zap.Float64("recall", recall),
		zap.Float64("f1", f1),
		zap.Float64("accuracy", accuracy),
	)
}

// Predictions records how many rows were written and where.
func (e *Events) Predictions(n int, out string) {
	e.logger().Info("predictions", zap.Int("rows", n), zap.String("out", out))
}

// Sync flushes buffered records.
func (e *Events) Sync() error {
	if e == nil || e.z == nil {
		return nil
	}
	return e.z.Sync()
}
