package executor

import (
	"context"

	"ggufconv/pkg/types"
)

// Converter produces the F16 intermediate for an input file.
type Converter interface {
	Convert(ctx context.Context, inputPath, intermediatePath string) error
}

// Quantizer re-encodes the intermediate into one output format.
type Quantizer interface {
	Quantize(ctx context.Context, intermediatePath, outputPath string, format types.Format) error
}

// ConvertFunc adapts a function to Converter.
type ConvertFunc func(ctx context.Context, inputPath, intermediatePath string) error

func (f ConvertFunc) Convert(ctx context.Context, inputPath, intermediatePath string) error {
	return f(ctx, inputPath, intermediatePath)
}

// QuantizeFunc adapts a function to Quantizer.
type QuantizeFunc func(ctx context.Context, intermediatePath, outputPath string, format types.Format) error

func (f QuantizeFunc) Quantize(ctx context.Context, intermediatePath, outputPath string, format types.Format) error {
	return f(ctx, intermediatePath, outputPath, format)
}
