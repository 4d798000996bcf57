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
    `github.com/oleiade/lane`
)

const (
    _MaxPropRounds = 8
)

// ValueProp substitutes constant and copy definitions into their use sites,
// the canonical driving pass over the evaluation context. Only plain values
// move: constants, resolved procedure references, and identifier copies that
// clear the phi-safety check. Phi operands and applications are never
// rewritten, and every substitution inserts an independent clone with the
// use-set updated in the same step.
type ValueProp struct {
    MaxRounds int
}

func (self ValueProp) rounds() int {
    if self.MaxRounds > 0 {
        return self.MaxRounds
    } else {
        return _MaxPropRounds
    }
}

func (self ValueProp) Apply(p *Proc, ctx *EvalCtx) {
    q := lane.NewQueue()
    visits := make(map[StmtID]int)

    /* seed the worklist in control-flow order */
    p.Seq.ForEach(func(st *Stmt) {
        q.Enqueue(st)
    })

    /* drain the worklist */
    for !q.Empty() {
        changed := false
        st := q.Dequeue().(*Stmt)

        /* phi assignments have no rewritable slots */
        use, ok := st.Ins.(InstrUsages)
        if !ok {
            continue
        }

        /* rewrite every operand slot */
        for _, e := range use.Usages() {
            if self.rewrite(ctx, st, e) {
                changed = true
            }
        }

        /* refresh the cached definition, then follow copy chains,
         * bounded per statement */
        if changed {
            p.Recache(st)
            if visits[st.Id]++; visits[st.Id] < self.rounds() {
                q.Enqueue(st)
            }
        }
    }
}

func (self ValueProp) rewrite(ctx *EvalCtx, st *Stmt, e *Expr) bool {
    switch p := (*e).(type) {
        default: {
            return false
        }

        /* identifier reference: the substitution site */
        case *Ident: {
            return self.substitute(ctx, st, e, p)
        }

        /* memory access: rewrite the address, then try import resolution */
        case *Mem: {
            r := self.rewrite(ctx, st, &p.EA)
            if v := ctx.ValueOfMem(st, p, nil); v != p {
                ctx.RemoveExprUse(st, p)
                *e = DupExpr(v)
                ctx.UseExpr(st, *e)
                return true
            }
            return r
        }

        /* segmented access: both halves, the access itself stays */
        case *SegMem: {
            r := self.rewrite(ctx, st, &p.Seg)
            return self.rewrite(ctx, st, &p.Off) || r
        }

        /* application: arguments only, the call is never folded */
        case *Apply: {
            r := false
            for i := range p.Args {
                if self.rewrite(ctx, st, &p.Args[i]) {
                    r = true
                }
            }
            return r
        }

        case *UnaryExpr: {
            return self.rewrite(ctx, st, &p.V)
        }

        case *BinaryExpr: {
            r := self.rewrite(ctx, st, &p.X)
            return self.rewrite(ctx, st, &p.Y) || r
        }
    }
}

func (self ValueProp) substitute(ctx *EvalCtx, st *Stmt, e *Expr, id *Ident) bool {
    v, ok := ctx.ValueOf(id.N)
    if !ok {
        return false
    }

    /* only plain values move; copies must clear the phi-safety check */
    switch v.(type) {
        case *Const     : break
        case *ProcConst : break
        case *Ident     : if ctx.IsUsedInPhi(id.N) { return false }
        default         : return false
    }

    /* retire the old use, insert an independent clone, record the new uses */
    ctx.RemoveUse(st, id.N)
    *e = DupExpr(v)
    ctx.UseExpr(st, *e)
    return true
}
