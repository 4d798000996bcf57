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
    `strings`
)

// StmtID is a stable handle into the statement arena. Handles stay valid
// across instruction replacement; statements are never removed one by one.
type StmtID int32

const (
    StmtNone StmtID = -1
)

// Stmt is one program point. It owns exactly one instruction and records
// which flow-graph block it belongs to. Arena position encodes the
// control-flow order supplied by the builder; the engine never computes it.
type Stmt struct {
    Id  StmtID
    Blk int
    Ins Instr
}

func (self *Stmt) String() string {
    return fmt.Sprintf("%06x |     %s", self.Id, self.Ins)
}

// Seq is the ordered statement arena of one procedure.
type Seq struct {
    stmts []*Stmt
}

func NewSeq() *Seq {
    return new(Seq)
}

func (self *Seq) Len() int {
    return len(self.stmts)
}

func (self *Seq) Append(blk int, p Instr) *Stmt {
    st := &Stmt {
        Id  : StmtID(len(self.stmts)),
        Blk : blk,
        Ins : p,
    }
    self.stmts = append(self.stmts, st)
    return st
}

func (self *Seq) At(id StmtID) *Stmt {
    if id < 0 || int(id) >= len(self.stmts) {
        panic(fmt.Sprintf("seq: dangling statement handle: %d", id))
    } else {
        return self.stmts[id]
    }
}

// Replace swaps the instruction at a program point. The caller is
// responsible for retiring the old instruction's uses beforehand,
// registering the new ones afterwards, and refreshing the cached
// definitions with Proc.Recache.
func (self *Seq) Replace(id StmtID, p Instr) {
    self.At(id).Ins = p
}

func (self *Seq) ForEach(action func(st *Stmt)) {
    for _, st := range self.stmts {
        action(st)
    }
}

func (self *Seq) String() string {
    blk := -1
    buf := make([]string, 0, len(self.stmts) * 2)

    /* print every statement, with block markers */
    for _, st := range self.stmts {
        if st.Blk != blk {
            blk = st.Blk
            buf = append(buf, fmt.Sprintf("bb_%d:", blk))
        }
        buf = append(buf, st.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "Seq {\n%s\n}",
        strings.Join(buf, "\n"),
    )
}
