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

package uuid

import (
	gouuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
)

// New returns new random uuid as string in XXXXXXXX-XXXX- ... format.
func New() (string, error) {
	id, err := gouuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "cannot generate uuid")
	}
	return id.String(), nil
}
