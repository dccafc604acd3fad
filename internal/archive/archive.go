// Package archive bundles a package directory into the gzip'd tarball the
// package manager uploads, and lists such tarballs back.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileName returns the conventional tarball name for a package.
func FileName(name, version string) string {
	return fmt.Sprintf("%s-%s.tgz", name, version)
}

// Create writes every regular file under srcDir into a gzip'd tar at dest.
// Entries are sorted and carry no timestamps, so equal trees give equal
// archives.
func Create(srcDir, dest string) error {
	var files []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(srcDir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", srcDir, err)
	}
	sort.Strings(files)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpPath := dest + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	err = writeTar(out, srcDir, files)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing archive: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming archive: %w", err)
	}
	return nil
}

func writeTar(w io.Writer, srcDir string, files []string) error {
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	for _, rel := range files {
		if err := addFile(tw, filepath.Join(srcDir, rel), filepath.ToSlash(rel)); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gw.Close()
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr := &tar.Header{
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// List returns the entry names of the tarball at path, in archive order.
func List(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive: %w", err)
	}
	defer gzReader.Close()

	var names []string
	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		names = append(names, header.Name)
	}
	return names, nil
}
