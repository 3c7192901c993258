package viz

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/safeopen"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/infra"
)

// StdinInput names the standard input as an input file.
const StdinInput = "-"

// CheckInputs rejects StdinInput given more than once, stdin can only be
// read by one tree.
func CheckInputs(inputs []string) error {
	if lo.Count(inputs, StdinInput) > 1 {
		return infra.NewErrorStack("stdin (" + StdinInput + ") given more than once")
	}
	return nil
}

// LoadFile builds a KeyTree from the keys in path, StdinInput reads stdin.
// The file is opened beneath its own directory so a crafted symlink cannot
// send the read elsewhere.
func LoadFile(path string, stdin io.Reader) (*KeyTree, error) {
	kt := NewKeyTree()
	if path == StdinInput {
		if _, err := Load(stdin, kt); err != nil {
			return nil, err
		}
		return kt, nil
	}

	f, err := safeopen.OpenBeneath(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, infra.WrapErrorStack(err, "can't open "+path)
	}
	_, err = Load(f, kt)
	err = multierr.Append(err, f.Close())
	if err != nil {
		return nil, err
	}
	return kt, nil
}

// WriteDotFile writes kt as dir/name, replacing what was there, and
// returns the joined path.
func WriteDotFile(dir, name string, kt *KeyTree) (string, error) {
	f, err := safeopen.OpenFileBeneath(dir, name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", infra.WrapErrorStack(err, "can't write "+name)
	}
	err = WriteDot(f, kt)
	err = multierr.Append(err, f.Close())
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// DotName picks the output name for input. A single input keeps the
// configured name, with several inputs each one gets its own file named
// after it.
func DotName(input, configured string, inputs int) string {
	if inputs <= 1 || input == StdinInput {
		return configured
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".dot"
}

// DotNames maps every input to its DotName. Two inputs landing on the same
// file, a repeated input included, are an error since their writers would
// run concurrently.
func DotNames(inputs []string, configured string) (map[string]string, error) {
	names := make(map[string]string, len(inputs))
	owners := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := DotName(input, configured, len(inputs))
		if owner, ok := owners[name]; ok {
			return nil, infra.NewErrorStack("inputs " + owner + " and " + input + " both write " + name)
		}
		owners[name] = input
		names[input] = name
	}
	return names, nil
}
