package driver

import (
	"fmt"
	"os"

	"delta/interpreter-go/pkg/ast"
)

// LoadModule reads and decodes a JSON syntax tree from disk.
func LoadModule(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return DecodeModule(data, path)
}

