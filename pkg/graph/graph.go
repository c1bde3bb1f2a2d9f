package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// utf8BOM is stripped from inputs written by Windows editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph encodes g as indented node-link JSON with a trailing newline.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	data, err := json.MarshalIndent(FromDAG(g), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteGraphFile writes g to path. Readers never see a partial file.
func WriteGraphFile(g *dag.DAG, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// ReadGraph decodes a node-link graph from r and builds its DAG.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return decodeGraph(data)
}

// ReadGraphFile reads a node-link graph from path.
func ReadGraphFile(path string) (*dag.DAG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeGraph(data)
}

func decodeGraph(data []byte) (*dag.DAG, error) {
	gj, err := UnmarshalGraph(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(gj)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
