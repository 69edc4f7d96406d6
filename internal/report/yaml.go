package report

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter emits one YAML document with two-space indentation.
type YAMLWriter struct {
	output io.Writer
}

func NewYAMLWriter(output io.Writer) *YAMLWriter {
	return &YAMLWriter{output: output}
}

func (w *YAMLWriter) Write(out Output) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := yaml.NewEncoder(cw)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(out)); err != nil {
		return cw.n, err
	}
	return cw.n, enc.Close()
}
