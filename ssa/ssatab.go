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

    mapset `github.com/deckarep/golang-set/v2`
)

type _IdentDef struct {
    def  StmtID
    expr Expr
    uses map[StmtID]int
}

// IdentTab records, for every SSA name, its defining statement, the cached
// defining expression and the statements that use it. Uses are counted per
// occurrence: a statement reading the same name twice holds two entries, and
// each removal retires exactly one of them.
//
// The table is a back-reference index over the statement arena, not an
// owner: it is rebuilt wholesale per analysis run and mutated synchronously
// on every rewrite in between.
type IdentTab struct {
    defs map[Name]*_IdentDef
}

func NewIdentTab() *IdentTab {
    return &IdentTab {
        defs: make(map[Name]*_IdentDef),
    }
}

func (self *IdentTab) Reset() {
    self.defs = make(map[Name]*_IdentDef)
}

func (self *IdentTab) Len() int {
    return len(self.defs)
}

func (self *IdentTab) Contains(n Name) bool {
    _, ok := self.defs[n]
    return ok
}

// lookup is O(1); asking for a name that was never registered means the
// driving pass lost synchronization with the table.
func (self *IdentTab) lookup(n Name) *_IdentDef {
    if p, ok := self.defs[n]; ok {
        return p
    } else {
        panic(fmt.Sprintf("ssatab: unregistered identifier: %s", n))
    }
}

// Define registers a name defined at a statement, with its cached defining
// expression (nil for opaque definitions such as call outputs).
func (self *IdentTab) Define(n Name, st StmtID, src Expr) {
    if p, ok := self.defs[n]; ok {
        p.def, p.expr = st, src
    } else {
        self.defs[n] = &_IdentDef { def: st, expr: src, uses: make(map[StmtID]int) }
    }
}

// DefineInput registers a name with no local definition, e.g. a procedure
// parameter or a location live on entry.
func (self *IdentTab) DefineInput(n Name) {
    self.Define(n, StmtNone, nil)
}

func (self *IdentTab) DefiningStmt(n Name) StmtID {
    return self.lookup(n).def
}

// Definition returns the cached defining expression, without any shape
// checks. Inputs and opaque definitions yield no value.
func (self *IdentTab) Definition(n Name) (Expr, bool) {
    if p := self.lookup(n); p.expr == nil {
        return nil, false
    } else {
        return p.expr, true
    }
}

func (self *IdentTab) UseCount(n Name, st StmtID) int {
    return self.lookup(n).uses[st]
}

// Users returns the set of statements currently using the name, ignoring
// occurrence multiplicity.
func (self *IdentTab) Users(n Name) mapset.Set[StmtID] {
    ret := mapset.NewThreadUnsafeSet[StmtID]()
    for st := range self.lookup(n).uses { ret.Add(st) }
    return ret
}

func (self *IdentTab) addUse(n Name, st StmtID) {
    self.lookup(n).uses[st]++
}

// removeUse retires one occurrence. Unregistered names and exhausted counts
// are a no-op, matching the engine's remove-before-rewrite protocol.
func (self *IdentTab) removeUse(n Name, st StmtID) {
    p, ok := self.defs[n]
    if !ok {
        return
    }

    /* retire a single occurrence */
    if p.uses[st] > 1 {
        p.uses[st]--
    } else {
        delete(p.uses, st)
    }
}
