// Package persist writes files so that readers only ever observe the complete
// old content or the complete new content. Data is staged in a temporary file
// next to the target, flushed to disk, then renamed over it.
package persist

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
)

// WriteFileAtomic stages the bytes produced by write in a temp file in the
// target's directory and renames it over path. On any error the temp file is
// removed and path is left untouched.
func WriteFileAtomic(path string, perm os.FileMode, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, constants.StagingPattern)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err = buf.Flush(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.WrapIO("sync", path, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// CopyFileAtomic copies src to dst byte for byte using WriteFileAtomic.
func CopyFileAtomic(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // paths come from the configured layout
	if err != nil {
		return errors.WrapIO("read", src, err)
	}
	defer func() { _ = in.Close() }()

	return WriteFileAtomic(dst, constants.FilePermissions, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// Persister writes merged datasets and quarantined rows.
type Persister interface {
	// Save replaces the file at path with ds.
	Save(path string, ds *dataset.Dataset) error

	// SaveRejected replaces the file at path with quarantined rows.
	SaveRejected(path string, header []string, rows []dataset.RejectedRow) error
}

type csvPersister struct {
	perm os.FileMode
}

// CSV returns the default Persister: atomic CSV files.
func CSV() Persister {
	return &csvPersister{perm: constants.FilePermissions}
}

// Save implements Persister.
func (p *csvPersister) Save(path string, ds *dataset.Dataset) error {
	return WriteFileAtomic(path, p.perm, func(w io.Writer) error {
		return dataset.Write(w, ds)
	})
}

// SaveRejected implements Persister.
func (p *csvPersister) SaveRejected(path string, header []string, rows []dataset.RejectedRow) error {
	return WriteFileAtomic(path, p.perm, func(w io.Writer) error {
		return dataset.WriteRejected(w, header, rows)
	})
}
