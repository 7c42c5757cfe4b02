package file

import (
	"os"
	"path/filepath"
)

// WriteFileWithSync writes data to a sibling temp file, fsyncs it and
// renames it over file so a reader never sees a half written block.
func WriteFileWithSync(file string, data []byte) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, file)
}

func Exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}
