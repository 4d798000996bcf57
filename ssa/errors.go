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

package ssa

import (
    `fmt`
)

// UnsupportedError occurs when a write operation is invoked on a read-only
// evaluation context. It always signals a structural misuse by the caller,
// never a recoverable condition.
type UnsupportedError struct {
    Op string
}

func (self UnsupportedError) Error() string {
    return fmt.Sprintf("UnsupportedError(%s): context is read-only, rewrite the statement instead", self.Op)
}
