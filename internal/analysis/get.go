// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

type DownloadLister interface {
	Download(bucket string, key string, fn string) error
	Log(v ...interface{})
	ListObjects(bucket string, prefix string) ([]string, error)
	ResultsStorageId() string
}

// Fetch downloads every stored result for name into dir, returning
// the paths of the downloaded files
func Fetch(conn DownloadLister, name string, dir string) ([]string, error) {
	var done []string

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return done, fmt.Errorf("Failed to create directory %s: %w", dir, err)
	}

	objs, err := conn.ListObjects(conn.ResultsStorageId(), name+"/")
	if err != nil {
		return done, fmt.Errorf("Failed to get list of files for %s: %w", name, err)
	}
	if len(objs) == 0 {
		return done, fmt.Errorf("No results found for %s", name)
	}

	for _, key := range objs {
		fn := filepath.Join(dir, path.Base(key))
		conn.Log("Downloading", key)
		err = conn.Download(conn.ResultsStorageId(), key, fn)
		if err != nil {
			return done, fmt.Errorf("Failed to download file %s: %w", key, err)
		}
		done = append(done, fn)
	}

	return done, nil
}
