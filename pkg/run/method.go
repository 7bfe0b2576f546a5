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

package run

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Method identifies a concrete classification method.
type Method string

const (
	// BDTG is the gradient boosted decision tree method.
	BDTG Method = "BDTG"
	// DNN is the deep neural network method.
	DNN Method = "DNN"

	// allName is the wire name of the "every method" wildcard.
	allName = "ALL"
	// allLegacyName is accepted when decoding old records.
	allLegacyName = "ALL_METHODS"
)

// ErrUnknownMethod is returned when a method name cannot be parsed.
var ErrUnknownMethod = errors.New("unknown method")

// Methods lists every concrete method in priority order.
var Methods = []Method{BDTG, DNN}

// MethodSet is a set of concrete methods plus the "all methods" flag.
// The zero value enables nothing.
type MethodSet struct {
	concrete   map[Method]bool
	AllEnabled bool
}

// NewMethodSet returns a set with the given concrete methods enabled.
func NewMethodSet(methods ...Method) MethodSet {
	set := MethodSet{}
	for _, m := range methods {
		set.Add(m)
	}
	return set
}

// AllMethods returns a set with the wildcard enabled.
func AllMethods() MethodSet {
	return MethodSet{AllEnabled: true}
}

// Add enables a concrete method.
func (s *MethodSet) Add(m Method) {
	if s.concrete == nil {
		s.concrete = map[Method]bool{}
	}
	s.concrete[m] = true
}

// Contains reports whether m is enabled, explicitly or through the wildcard.
func (s MethodSet) Contains(m Method) bool {
	return s.AllEnabled || s.concrete[m]
}

// Empty reports whether no method is enabled.
func (s MethodSet) Empty() bool {
	return !s.AllEnabled && len(s.concrete) == 0
}

// Enabled returns the concrete methods this set enables, in priority order.
func (s MethodSet) Enabled() []Method {
	enabled := []Method{}
	for _, m := range Methods {
		if s.Contains(m) {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// Names returns the wire names of the set: the explicit methods sorted,
// followed by "ALL" when the wildcard is on.
func (s MethodSet) Names() []string {
	names := []string{}
	for m := range s.concrete {
		names = append(names, string(m))
	}
	sort.Strings(names)
	if s.AllEnabled {
		names = append(names, allName)
	}
	return names
}

// Equal reports whether both sets hold the same explicit methods and wildcard.
func (s MethodSet) Equal(other MethodSet) bool {
	if s.AllEnabled != other.AllEnabled || len(s.concrete) != len(other.concrete) {
		return false
	}
	for m := range s.concrete {
		if !other.concrete[m] {
			return false
		}
	}
	return true
}

func (s MethodSet) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}

// Clone returns a deep copy.
func (s MethodSet) Clone() MethodSet {
	c := MethodSet{AllEnabled: s.AllEnabled}
	for m := range s.concrete {
		c.Add(m)
	}
	return c
}

// ParseMethodSet builds a set from wire names.
func ParseMethodSet(names []string) (MethodSet, error) {
	set := MethodSet{}
	for _, name := range names {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case string(BDTG):
			set.Add(BDTG)
		case string(DNN):
			set.Add(DNN)
		case allName, allLegacyName:
			set.AllEnabled = true
		default:
			return MethodSet{}, errors.Wrapf(ErrUnknownMethod, "%q", name)
		}
	}
	return set, nil
}
