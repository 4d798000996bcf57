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

package relift

import (
	"fmt"

	"github.com/relift/relift/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxPassRounds sets how many times the propagation pass may revisit a
// single statement while following substitution chains.
//
// Set this option to "0" to keep the default.
//
// This value can also be configured with the `RELIFT_MAX_PASS_ROUNDS`
// environment variable. The default value of this option is "8".
func WithMaxPassRounds(rounds int) Option {
	if rounds < 0 {
		panic(fmt.Sprintf("relift: invalid pass rounds: %d", rounds))
	} else {
		return func(o *opts.Options) { o.MaxPassRounds = rounds }
	}
}

// WithStrictPhiCheck switches the phi-safety analysis from the conservative
// operand-of-phi test to the path-based refinement over the flow graph.
//
// The coarse test can only block propagations, never wrongly allow one;
// enable the refinement only when the procedure's flow graph is complete.
//
// This value can also be configured with the `RELIFT_STRICT_PHI`
// environment variable. The default value of this option is "false".
func WithStrictPhiCheck(on bool) Option {
	return func(o *opts.Options) { o.StrictPhiCheck = on }
}
