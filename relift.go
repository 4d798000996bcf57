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

// Package relift is the data-flow propagation core of a machine-code
// decompiler. It operates on procedures already lifted into SSA form:
// value lookup, def-use bookkeeping, propagation safety, and the value
// propagation pass built on top of them live in package ssa; this package
// only wires them together with configuration.
package relift

import (
	"github.com/relift/relift/internal/opts"
	"github.com/relift/relift/ssa"
)

// Propagate runs the propagation pipeline over one procedure and returns
// the evaluation context used, for follow-up queries. The procedure's
// identifier table must be in sync with its statements (Builder.Build and
// Proc.Rebuild both guarantee that).
func Propagate(p *ssa.Proc, res ssa.ImportResolver, arch ssa.Arch, options ...Option) *ssa.EvalCtx {
	o := opts.GetDefaultOptions()
	for _, f := range options {
		f(&o)
	}
	ctx := ssa.NewEvalCtx(p, res, arch)
	ctx.SetStrictPhiCheck(o.StrictPhiCheck)
	ssa.Optimize(p, ctx, ssa.ValueProp{MaxRounds: o.MaxPassRounds})
	return ctx
}
