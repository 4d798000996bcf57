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

// Proc is one procedure under analysis: the statement arena, the identifier
// table indexing it, and the block-level flow graph. A single pass at a time
// may mutate it; nothing here is safe under concurrent rewriting.
type Proc struct {
    Seq  *Seq
    Tab  *IdentTab
    Flow *FlowGraph
}

func NewProc() *Proc {
    return &Proc {
        Seq  : NewSeq(),
        Tab  : NewIdentTab(),
        Flow : NewFlowGraph(),
    }
}

// definingExpr is the expression an instruction binds to the names it
// defines, nil for opaque definitions such as call outputs.
func definingExpr(p Instr) Expr {
    switch v := p.(type) {
        case *Assign    : return v.Src
        case *PhiAssign : return v.Phi
        default         : return nil
    }
}

// Recache re-registers the names a statement defines, refreshing the table's
// cached defining expression. Must be called after a rewrite replaces the
// instruction or its root source slot; in-place edits inside the source tree
// need no recache.
func (self *Proc) Recache(st *Stmt) {
    if def, ok := st.Ins.(InstrDefinations); ok {
        for _, d := range def.Definations() {
            self.Tab.Define(d.N, st.Id, definingExpr(st.Ins))
        }
    }
}

// Rebuild recomputes the identifier table from the statement arena:
// definitions first, then one use entry per identifier occurrence. Names
// read but never defined are registered as procedure inputs.
func (self *Proc) Rebuild() {
    self.Tab.Reset()

    /* Phase 1: register every definition with its cached expression */
    self.Seq.ForEach(func(st *Stmt) {
        self.Recache(st)
    })

    /* Phase 2: register every identifier occurrence as a use */
    self.Seq.ForEach(func(st *Stmt) {
        instrEachIdent(st.Ins, func(id *Ident) {
            if !self.Tab.Contains(id.N) {
                self.Tab.DefineInput(id.N)
            }
            self.Tab.addUse(id.N, st.Id)
        })
    })
}
