package depfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// ErrNoTargets is returned when a depfile is requested without any target to attach the dependencies to
var ErrNoTargets = eris.New("a depfile needs at least one target name")

// Format renders one "<targets>: <dep>" line per dependency
func Format(targets, deps []string) []byte {
	prefix := strings.Join(targets, " ") + ": "

	var buf strings.Builder
	for _, dep := range deps {
		buf.WriteString(prefix)
		buf.WriteString(dep)
		buf.WriteByte('\n')
	}

	return []byte(buf.String())
}

// Write replaces the depfile at path. The content is written to a temporary file next to it first
// so that the build system never sees a partially written depfile.
func Write(fs afero.Fs, path string, targets, deps []string) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}

	dir := filepath.Dir(path)
	err := fs.MkdirAll(dir, os.FileMode(0755))
	if err != nil {
		return eris.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(Format(targets, deps))
	if err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return eris.Wrapf(err, "failed to write %s", tmpName)
	}

	err = tmp.Close()
	if err != nil {
		fs.Remove(tmpName)
		return eris.Wrapf(err, "failed to close %s", tmpName)
	}

	err = fs.Chmod(tmpName, os.FileMode(0644))
	if err != nil {
		fs.Remove(tmpName)
		return eris.Wrapf(err, "failed to set permissions on %s", tmpName)
	}

	err = fs.Rename(tmpName, path)
	if err != nil {
		fs.Remove(tmpName)
		return eris.Wrapf(err, "failed to move %s to %s", tmpName, path)
	}

	return nil
}
