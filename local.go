// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const storageId = "results"

// LocalConn stores analysis results in a directory on the local
// machine, laid out in the same way as they would be in a bucket.
// It is also useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	Dir    string
	Logger *log.Logger
}

// Init creates the storage directory if needed
func (a *LocalConn) Init() error {
	if a.Dir == "" {
		a.Dir = filepath.Join(os.TempDir(), "linewidth")
	}
	err := os.MkdirAll(filepath.Join(a.Dir, storageId), 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}

	if a.Logger == nil {
		a.Logger = log.New(os.Stdout, "", 0)
	}

	return nil
}

func (a *LocalConn) ResultsStorageId() string {
	return storageId
}

func prefixwalker(dirpath string, prefix string, list *[]ObjMeta) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		n := filepath.ToSlash(strings.TrimPrefix(path, dirpath+string(filepath.Separator)))
		if !strings.HasPrefix(n, prefix) {
			return nil
		}
		o := ObjMeta{Name: n, Date: info.ModTime()}
		*list = append(*list, o)
		return nil
	}
}

func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var names []string
	list, err := a.ListObjectsWithMeta(bucket, prefix)
	if err != nil {
		return names, err
	}
	for _, v := range list {
		names = append(names, v.Name)
	}
	return names, nil
}

func (a *LocalConn) ListObjectsWithMeta(bucket string, prefix string) ([]ObjMeta, error) {
	var list []ObjMeta
	err := filepath.Walk(filepath.Join(a.Dir, bucket), prefixwalker(filepath.Join(a.Dir, bucket), prefix, &list))
	return list, err
}

// Download just copies the file from Dir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	fin, err := os.Open(filepath.Join(a.Dir, bucket, key))
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, fin)
	return err
}

// Upload just copies the file from path to Dir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	d := filepath.Join(a.Dir, bucket, filepath.Dir(key))
	err := os.MkdirAll(d, 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}
	f, err := os.Create(filepath.Join(a.Dir, bucket, key))
	if err != nil {
		return err
	}
	defer f.Close()

	fin, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fin.Close()
	_, err = io.Copy(f, fin)
	return err
}

// Log records an item with the Logger. Arguments are handled as with
// fmt.Println.
func (a *LocalConn) Log(v ...interface{}) {
	a.Logger.Println(v...)
}
