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

// SegmentMap carries segment layout information for architectures that need
// it. The engine passes it through unread.
type SegmentMap interface{}

// ImportResolver maps a constant effective address, in the context of a
// statement, to a known imported procedure. Resolution is context-dependent:
// the engine calls it at most once per memory-access evaluation and never
// caches results across statements.
type ImportResolver interface {
    ResolveImport(st *Stmt, addr *Const) *ProcConst
}

// Arch builds architecture-specific address expressions. It must not fail
// for well-formed constant operands.
type Arch interface {
    MakeSegmentedAddress(seg *Const, off *Const) Expr
}

// EvalCtx is the read-only evaluation context over one procedure: value
// lookup, use-set maintenance and propagation safety. Every operation takes
// the statement it acts for explicitly; there is no hidden cursor. The
// context holds no state of its own beyond configuration, and assumes
// exclusive, single-threaded access to the procedure for the duration of a
// pass.
type EvalCtx struct {
    proc   *Proc
    res    ImportResolver
    arch   Arch
    strict bool
}

func NewEvalCtx(p *Proc, res ImportResolver, arch Arch) *EvalCtx {
    return &EvalCtx {
        proc : p,
        res  : res,
        arch : arch,
    }
}

// SetStrictPhiCheck enables the path-based refinement of IsUsedInPhi.
func (self *EvalCtx) SetStrictPhiCheck(on bool) {
    self.strict = on
}

// ValueOf returns the expression currently bound as the name's definition.
// Procedure inputs, opaque definitions, and definitions that are not a
// plain or phi assignment to exactly this name yield no value. A phi
// definition comes back as the Phi expression itself, unresolved: selecting
// through it is the safety check's job, not the lookup's.
func (self *EvalCtx) ValueOf(n Name) (Expr, bool) {
    def := self.proc.Tab.DefiningStmt(n)
    if def == StmtNone {
        return nil, false
    }

    /* the definition must assign this exact name */
    switch p := self.proc.Seq.At(def).Ins.(type) {
        case *Assign    : if p.Dst.N == n { return p.Src, true }
        case *PhiAssign : if p.Dst.N == n { return p.Phi, true }
    }
    return nil, false
}

// ValueOfCall is the identity: applications are never folded, so a call's
// side effects can never be silently dropped.
func (self *EvalCtx) ValueOfCall(a *Apply) Expr {
    return a
}

// ValueOfMem resolves the "indirect call through an import table slot"
// idiom: a memory access whose effective address is a constant naming a
// known import becomes a direct procedure reference. Anything else returns
// unchanged.
func (self *EvalCtx) ValueOfMem(st *Stmt, m *Mem, sm SegmentMap) Expr {
    if c, ok := m.EA.(*Const); !ok || self.res == nil {
        return m
    } else if pc := self.res.ResolveImport(st, c); pc == nil {
        return m
    } else {
        return pc
    }
}

// ValueOfSegMem returns the access unchanged: segmented addressing is
// architecture-specific and not resolved here.
func (self *EvalCtx) ValueOfSegMem(s *SegMem, sm SegmentMap) Expr {
    return s
}

// DefinitionOf returns the cached defining expression without the
// assignment-shape checks of ValueOf.
func (self *EvalCtx) DefinitionOf(n Name) (Expr, bool) {
    return self.proc.Tab.Definition(n)
}

// MakeSegmentedAddress delegates to the architecture collaborator. Pure.
func (self *EvalCtx) MakeSegmentedAddress(seg *Const, off *Const) Expr {
    return self.arch.MakeSegmentedAddress(seg, off)
}

// AddUse registers one more occurrence of the name at a statement. No-op
// without a statement.
func (self *EvalCtx) AddUse(st *Stmt, n Name) {
    if st != nil {
        self.proc.Tab.addUse(n, st.Id)
    }
}

// RemoveUse retires one occurrence of the name at a statement. Must be
// called before an instruction stops referencing the name. No-op without a
// statement or for an unregistered name.
func (self *EvalCtx) RemoveUse(st *Stmt, n Name) {
    if st != nil {
        self.proc.Tab.removeUse(n, st.Id)
    }
}

// UseExpr registers the statement as a user of every identifier occurrence
// within the tree.
func (self *EvalCtx) UseExpr(st *Stmt, e Expr) {
    if st != nil && e != nil {
        WalkIdents(e, func(id *Ident) { self.proc.Tab.addUse(id.N, st.Id) })
    }
}

// RemoveExprUse retires one occurrence per identifier reference within the
// tree, attributed to the statement.
func (self *EvalCtx) RemoveExprUse(st *Stmt, e Expr) {
    if st != nil && e != nil {
        WalkIdents(e, func(id *Ident) { self.proc.Tab.removeUse(id.N, st.Id) })
    }
}

// BindName rejects the generic value-setting protocol: this context is
// analysis-only, bindings change through explicit statement rewriting.
func (self *EvalCtx) BindName(n Name, v Expr) error {
    return UnsupportedError { Op: "BindName" }
}

// BindAddr rejects the generic value-setting protocol.
func (self *EvalCtx) BindAddr(ea Expr, v Expr) error {
    return UnsupportedError { Op: "BindAddr" }
}

// BindAddrBase rejects the generic value-setting protocol.
func (self *EvalCtx) BindAddrBase(base Name, ea Expr, v Expr) error {
    return UnsupportedError { Op: "BindAddrBase" }
}
