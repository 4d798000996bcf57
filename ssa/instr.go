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

// Instr is the closed set of instruction kinds. Only Assign and PhiAssign
// carry a propagatable definition; every other kind is opaque to the engine.
type Instr interface {
    fmt.Stringer
    instr()
}

func (*Assign)    instr() {}
func (*PhiAssign) instr() {}
func (*Call)      instr() {}
func (*Branch)    instr() {}
func (*Return)    instr() {}

// InstrUsages exposes the rewritable source-expression slots of an
// instruction, so passes can substitute operands in place.
type InstrUsages interface {
    Instr
    Usages() []*Expr
}

// InstrDefinations exposes the SSA names an instruction defines.
type InstrDefinations interface {
    Instr
    Definations() []*Ident
}

// Assign binds the value of a source expression to one SSA name.
type Assign struct {
    Dst *Ident
    Src Expr
}

func (self *Assign) String() string {
    return fmt.Sprintf("%s = %s", self.Dst, self.Src)
}

func (self *Assign) Usages() []*Expr {
    return []*Expr { &self.Src }
}

func (self *Assign) Definations() []*Ident {
    return []*Ident { self.Dst }
}

// PhiAssign binds a merge-point selection to one SSA name. The operands are
// identifiers by construction and are not rewritable expression slots.
type PhiAssign struct {
    Dst *Ident
    Phi *Phi
}

func (self *PhiAssign) String() string {
    return fmt.Sprintf("%s = %s", self.Dst, self.Phi)
}

func (self *PhiAssign) Definations() []*Ident {
    return []*Ident { self.Dst }
}

// Call invokes a procedure for its side effects. Output names, if any, are
// defined by the call itself and therefore never have a propagatable value.
type Call struct {
    Fn  *Apply
    Out []*Ident
}

func (self *Call) String() string {
    nb := len(self.Out)
    ret := make([]string, 0, nb)

    /* dump the outputs */
    for _, v := range self.Out {
        ret = append(ret, v.String())
    }

    /* no outputs */
    if nb == 0 {
        return fmt.Sprintf("call %s", self.Fn)
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = call %s",
        strings.Join(ret, ", "),
        self.Fn,
    )
}

func (self *Call) Usages() []*Expr {
    ret := make([]*Expr, 0, len(self.Fn.Args) + 1)
    ret = append(ret, &self.Fn.Proc)
    for i := range self.Fn.Args { ret = append(ret, &self.Fn.Args[i]) }
    return ret
}

func (self *Call) Definations() []*Ident {
    return self.Out
}

// Branch transfers control depending on a condition. Block ids refer to the
// flow graph; the engine never interprets them.
type Branch struct {
    Cond Expr
    To   int
    Else int
}

func (self *Branch) String() string {
    return fmt.Sprintf("if %s goto bb_%d else bb_%d", self.Cond, self.To, self.Else)
}

func (self *Branch) Usages() []*Expr {
    return []*Expr { &self.Cond }
}

type Return struct {
    Vals []Expr
}

func (self *Return) String() string {
    nb := len(self.Vals)
    ret := make([]string, 0, nb)

    /* dump the values */
    for _, v := range self.Vals {
        ret = append(ret, v.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "ret {%s}",
        strings.Join(ret, ", "),
    )
}

func (self *Return) Usages() []*Expr {
    ret := make([]*Expr, 0, len(self.Vals))
    for i := range self.Vals { ret = append(ret, &self.Vals[i]) }
    return ret
}

// instrEachIdent visits every identifier occurrence an instruction reads,
// including phi operands.
func instrEachIdent(p Instr, f func(*Ident)) {
    switch v := p.(type) {
        case *PhiAssign: {
            for _, a := range v.Phi.Args {
                f(a)
            }
        }

        default: {
            if u, ok := p.(InstrUsages); ok {
                for _, e := range u.Usages() {
                    WalkIdents(*e, f)
                }
            }
        }
    }
}
