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

type Pass interface {
    Apply(*Proc, *EvalCtx)
}

type _PassDescriptor struct {
    pass Pass
    desc string
}

var _passes = [...]_PassDescriptor {
    { desc: "Value Propagation", pass: new(ValueProp) },
}

// Optimize runs a pass pipeline over one procedure, the default pipeline
// when none is given.
func Optimize(p *Proc, ctx *EvalCtx, passes ...Pass) {
    if len(passes) == 0 {
        for _, d := range _passes {
            d.pass.Apply(p, ctx)
        }
    } else {
        for _, v := range passes {
            v.Apply(p, ctx)
        }
    }
}
