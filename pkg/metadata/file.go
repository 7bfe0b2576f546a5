// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	fileDirName   = "metadata"
	fileExtension = ".json"
	tempPrefix    = ".tmp-"
)

// File keeps every kind as a JSON object in its own file.
// A record becomes visible only once it is completely written.
type File struct {
	dir string
}

// NewFile returns the file backend rooted at dir, creating it when needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create metadata directory %q", dir)
	}
	return &File{dir: dir}, nil
}

func (m *File) kindPath(kind string) string {
	if kind == TypeEmpty {
		kind = "_"
	}
	return path.Join(m.dir, kind+fileExtension)
}

// Record stores a key and value.
func (m *File) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap writes the map to a temporary file and links it under its final
// name. Linking fails when the kind already exists.
func (m *File) RecordMap(metadata map[string]string, kind string) error {
	if strings.ContainsAny(kind, "/\\") || strings.HasPrefix(kind, ".") {
		return errors.Errorf("invalid metadata kind %q", kind)
	}
	target := m.kindPath(kind)
	if _, err := os.Stat(target); err == nil {
		return errors.Wrapf(ErrAlreadyRecorded, "kind %q", kind)
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "cannot encode metadata of kind %q", kind)
	}

	temp, err := ioutil.TempFile(m.dir, tempPrefix)
	if err != nil {
		return errors.Wrapf(err, "cannot create temporary file for kind %q", kind)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return errors.Wrapf(err, "cannot write metadata of kind %q", kind)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return errors.Wrapf(err, "cannot sync metadata of kind %q", kind)
	}
	if err := temp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close metadata of kind %q", kind)
	}

	if err := os.Link(temp.Name(), target); err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrAlreadyRecorded, "kind %q", kind)
		}
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	return nil
}

// GetByKind reads the record of a kind.
func (m *File) GetByKind(kind string) (map[string]string, error) {
	data, err := ioutil.ReadFile(m.kindPath(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "kind %q", kind)
		}
		return nil, errors.Wrapf(err, "cannot read metadata of kind %q", kind)
	}

	metadata := map[string]string{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, errors.Wrapf(err, "cannot decode metadata of kind %q", kind)
	}
	return metadata, nil
}

// Kinds lists the kinds present in the directory, sorted.
func (m *File) Kinds() ([]string, error) {
	entries, err := ioutil.ReadDir(m.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list metadata directory %q", m.dir)
	}

	kinds := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		kind := strings.TrimSuffix(name, fileExtension)
		if kind == "_" {
			kind = TypeEmpty
		}
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds, nil
}

// Clear deletes every record.
func (m *File) Clear() error {
	if err := os.RemoveAll(m.dir); err != nil {
		return errors.Wrapf(err, "cannot remove metadata directory %q", m.dir)
	}
	return errors.Wrapf(os.MkdirAll(m.dir, 0755), "cannot recreate metadata directory %q", m.dir)
}

// Close is a no-op.
func (m *File) Close() error {
	return nil
}
