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

    mapset `github.com/deckarep/golang-set/v2`
)

// Expr is the closed set of IR expression nodes. A statement's instruction
// exclusively owns its expression tree; substitution must always insert a
// structurally independent copy (see DupExpr), never share a live node.
type Expr interface {
    fmt.Stringer
    expr()
}

func (*Ident)      expr() {}
func (*Const)      expr() {}
func (*ProcConst)  expr() {}
func (*Mem)        expr() {}
func (*SegMem)     expr() {}
func (*Apply)      expr() {}
func (*Phi)        expr() {}
func (*UnaryExpr)  expr() {}
func (*BinaryExpr) expr() {}

// Ident is a reference to an SSA name.
type Ident struct {
    N Name
}

func (self *Ident) String() string {
    return self.N.String()
}

// Const is an integer constant, wide enough for any effective address.
type Const struct {
    V int64
}

func (self *Const) String() string {
    return fmt.Sprintf("$%d", self.V)
}

// ProcConst is a symbolic reference to a known procedure, typically produced
// by resolving a constant address through the import resolver.
type ProcConst struct {
    Addr int64
    Proc string
}

func (self *ProcConst) String() string {
    return fmt.Sprintf("&%s", self.Proc)
}

// Mem is a memory access through a computed effective address.
type Mem struct {
    EA   Expr
    Size uint8
}

func (self *Mem) String() string {
    return fmt.Sprintf("*u%d[%s]", self.Size * 8, self.EA)
}

// SegMem is a segmented memory access: selector plus offset. Segmented
// addressing is architecture-specific and opaque to the engine.
type SegMem struct {
    Seg  Expr
    Off  Expr
    Size uint8
}

func (self *SegMem) String() string {
    return fmt.Sprintf("%s:u%d[%s]", self.Seg, self.Size * 8, self.Off)
}

// Apply is a call with arguments. Calls are never folded: the engine always
// treats an application as its own value so side effects cannot be dropped.
type Apply struct {
    Proc Expr
    Args []Expr
}

func (self *Apply) String() string {
    nb := len(self.Args)
    ret := make([]string, 0, nb)

    /* dump every argument */
    for _, v := range self.Args {
        ret = append(ret, v.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "%s(%s)",
        self.Proc,
        strings.Join(ret, ", "),
    )
}

// Phi selects one of its operands depending on the predecessor block the
// control flow arrived from. Args and Preds are parallel, ordered slices.
type Phi struct {
    Args  []*Ident
    Preds []int
}

func (self *Phi) String() string {
    nb := len(self.Args)
    ret := make([]string, 0, nb)

    /* add each path */
    for i, v := range self.Args {
        ret = append(ret, fmt.Sprintf("bb_%d: %s", self.Preds[i], v))
    }

    /* join them together */
    return fmt.Sprintf(
        "φ(%s)",
        strings.Join(ret, ", "),
    )
}

type (
    UnaryOp  uint8
    BinaryOp uint8
)

const (
    OpNegate UnaryOp = iota
    OpNot
)

const (
    OpAdd BinaryOp = iota
    OpSub
    OpMul
    OpAnd
    OpOr
    OpXor
    OpShl
    OpShr
    CmpEq
    CmpNe
    CmpLt
)

func (self UnaryOp) String() string {
    switch self {
        case OpNegate : return "-"
        case OpNot    : return "~"
        default       : panic("unreachable")
    }
}

func (self BinaryOp) String() string {
    switch self {
        case OpAdd : return "+"
        case OpSub : return "-"
        case OpMul : return "*"
        case OpAnd : return "&"
        case OpOr  : return "|"
        case OpXor : return "^"
        case OpShl : return "<<"
        case OpShr : return ">>"
        case CmpEq : return "=="
        case CmpNe : return "!="
        case CmpLt : return "<"
        default    : panic("unreachable")
    }
}

type UnaryExpr struct {
    V  Expr
    Op UnaryOp
}

func (self *UnaryExpr) String() string {
    return fmt.Sprintf("%s(%s)", self.Op, self.V)
}

type BinaryExpr struct {
    X  Expr
    Y  Expr
    Op BinaryOp
}

func (self *BinaryExpr) String() string {
    return fmt.Sprintf("(%s %s %s)", self.X, self.Op, self.Y)
}

// WalkIdents visits every identifier reference within the tree, in operand
// order, once per occurrence.
func WalkIdents(e Expr, f func(*Ident)) {
    switch p := e.(type) {
        case *Ident      : f(p)
        case *Const      : break
        case *ProcConst  : break
        case *Mem        : WalkIdents(p.EA, f)
        case *SegMem     : WalkIdents(p.Seg, f); WalkIdents(p.Off, f)
        case *Apply      : WalkIdents(p.Proc, f); for _, v := range p.Args { WalkIdents(v, f) }
        case *Phi        : for _, v := range p.Args { f(v) }
        case *UnaryExpr  : WalkIdents(p.V, f)
        case *BinaryExpr : WalkIdents(p.X, f); WalkIdents(p.Y, f)
        default          : panic("walkidents: invalid expression node")
    }
}

// DupExpr deep-copies an expression tree so the copy shares no mutable node
// with the original.
func DupExpr(e Expr) Expr {
    switch p := e.(type) {
        case *Ident     : return &Ident { N: p.N }
        case *Const     : return &Const { V: p.V }
        case *ProcConst : return &ProcConst { Addr: p.Addr, Proc: p.Proc }
        case *Mem       : return &Mem { EA: DupExpr(p.EA), Size: p.Size }
        case *SegMem    : return &SegMem { Seg: DupExpr(p.Seg), Off: DupExpr(p.Off), Size: p.Size }
        case *UnaryExpr : return &UnaryExpr { V: DupExpr(p.V), Op: p.Op }

        /* calls: the callee and every argument */
        case *Apply: {
            args := make([]Expr, 0, len(p.Args))
            for _, v := range p.Args { args = append(args, DupExpr(v)) }
            return &Apply { Proc: DupExpr(p.Proc), Args: args }
        }

        /* phi operands */
        case *Phi: {
            args := make([]*Ident, 0, len(p.Args))
            for _, v := range p.Args { args = append(args, &Ident { N: v.N }) }
            return &Phi { Args: args, Preds: append([]int(nil), p.Preds...) }
        }

        /* binary operators */
        case *BinaryExpr: {
            return &BinaryExpr {
                X  : DupExpr(p.X),
                Y  : DupExpr(p.Y),
                Op : p.Op,
            }
        }

        default: {
            panic("dupexpr: invalid expression node")
        }
    }
}

func identsof(e Expr) mapset.Set[Name] {
    ret := mapset.NewThreadUnsafeSet[Name]()
    WalkIdents(e, func(id *Ident) { ret.Add(id.N) })
    return ret
}
