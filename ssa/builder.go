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

// PhiArm is one phi operand with the predecessor block it arrives from.
type PhiArm struct {
    Blk int
    N   Name
}

// Builder assembles a procedure block by block. It appends statements in
// control-flow order (the order the arena encodes), records block
// membership and flow edges, and leaves SSA construction to its caller:
// names are taken as given, already renamed.
type Builder struct {
    blk  int
    proc *Proc
}

func CreateBuilder() *Builder {
    p := NewProc()
    p.Flow.AddBlock(0)
    return &Builder { proc: p }
}

// Block switches the current block, creating it if needed.
func (self *Builder) Block(id int) *Builder {
    self.blk = id
    self.proc.Flow.AddBlock(id)
    return self
}

// Edge records a flow edge between two blocks.
func (self *Builder) Edge(from int, to int) *Builder {
    self.proc.Flow.AddEdge(from, to)
    return self
}

func (self *Builder) Assign(dst Name, src Expr) *Stmt {
    return self.proc.Seq.Append(self.blk, &Assign {
        Dst: &Ident { N: dst },
        Src: src,
    })
}

func (self *Builder) Phi(dst Name, arms ...PhiArm) *Stmt {
    nb := len(arms)
    phi := &Phi {
        Args  : make([]*Ident, 0, nb),
        Preds : make([]int, 0, nb),
    }

    /* add each arm in predecessor order */
    for _, a := range arms {
        phi.Args = append(phi.Args, &Ident { N: a.N })
        phi.Preds = append(phi.Preds, a.Blk)
    }

    /* append the phi assignment */
    return self.proc.Seq.Append(self.blk, &PhiAssign {
        Dst: &Ident { N: dst },
        Phi: phi,
    })
}

func (self *Builder) Call(proc Expr, args []Expr, out ...Name) *Stmt {
    ret := make([]*Ident, 0, len(out))
    for _, n := range out { ret = append(ret, &Ident { N: n }) }
    return self.proc.Seq.Append(self.blk, &Call {
        Fn  : &Apply { Proc: proc, Args: args },
        Out : ret,
    })
}

func (self *Builder) Branch(cond Expr, to int, els int) *Stmt {
    self.proc.Flow.AddEdge(self.blk, to)
    self.proc.Flow.AddEdge(self.blk, els)
    return self.proc.Seq.Append(self.blk, &Branch {
        Cond : cond,
        To   : to,
        Else : els,
    })
}

func (self *Builder) Return(vals ...Expr) *Stmt {
    return self.proc.Seq.Append(self.blk, &Return { Vals: vals })
}

// Build indexes the assembled statements and hands the procedure over.
func (self *Builder) Build() *Proc {
    self.proc.Rebuild()
    return self.proc
}
