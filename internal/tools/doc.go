// Package tools runs the two external programs the conversion engine depends
// on: a Python converter that writes the F16 GGUF intermediate, and
// llama-quantize, which writes each quantized output.
//
// Every invocation is an explicit argument vector handed to os/exec; nothing
// goes through a shell. Subprocess output is forwarded line by line to the
// logger and the tail of stderr is kept for error reporting.
//
// Converter and Quantizer satisfy executor.Converter and executor.Quantizer.
package tools
