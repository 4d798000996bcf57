/*
 * Copyright 2023 The Relift Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"os"
	"strconv"
)

const (
	_DefaultMaxPassRounds = 8 // cutoff at 8 revisits per statement
)

var (
	MaxPassRounds  = parseOrDefault("RELIFT_MAX_PASS_ROUNDS", _DefaultMaxPassRounds, 0)
	StrictPhiCheck = parseBool("RELIFT_STRICT_PHI")
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("relift: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("relift: value too small for " + key)
	} else {
		return ret
	}
}

func parseBool(key string) bool {
	if env := os.Getenv(key); env == "" {
		return false
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("relift: invalid value for " + key)
	} else {
		return val
	}
}
