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
    `testing`

    `github.com/stretchr/testify/require`
)

type _FakeResolver struct {
    calls   int
    imports map[int64]string
}

func (self *_FakeResolver) ResolveImport(st *Stmt, addr *Const) *ProcConst {
    self.calls++
    if name, ok := self.imports[addr.V]; ok {
        return &ProcConst { Addr: addr.V, Proc: name }
    } else {
        return nil
    }
}

type _FakeArch struct{}

func (_FakeArch) MakeSegmentedAddress(seg *Const, off *Const) Expr {
    return &SegMem { Seg: seg, Off: off, Size: 2 }
}

// expected use counts, recomputed from the statements themselves
func scanuses(p *Proc) map[Name]map[StmtID]int {
    ret := make(map[Name]map[StmtID]int)
    p.Seq.ForEach(func(st *Stmt) {
        instrEachIdent(st.Ins, func(id *Ident) {
            if ret[id.N] == nil {
                ret[id.N] = make(map[StmtID]int)
            }
            ret[id.N][st.Id]++
        })
    })
    return ret
}

func requireTabSync(t *testing.T, p *Proc) {
    t.Helper()
    want := scanuses(p)
    for n, d := range p.Tab.defs {
        for st, k := range d.uses {
            require.Equal(t, want[n][st], k, "stale use of %s at %d\n%s", n, st, DumpProc(p))
        }
        for st, k := range want[n] {
            require.Equal(t, k, d.uses[st], "missing use of %s at %d\n%s", n, st, DumpProc(p))
        }
        if d.def != StmtNone {
            require.Equal(t, definingExpr(p.Seq.At(d.def).Ins), d.expr, "stale definition of %s\n%s", n, DumpProc(p))
        }
    }
}

func TestEvalCtx_ValueOfShapes(t *testing.T) {
    a0 := MkName(KindReg, 1)
    x1 := MkName(KindReg, 0).WithVersion(1)
    x2 := MkName(KindReg, 0).WithVersion(2)
    x3 := MkName(KindReg, 0).WithVersion(3)
    r1 := MkName(KindReg, 2).WithVersion(1)

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 42 })
    p.Assign(x2, &BinaryExpr { Op: OpAdd, X: &Ident { N: x1 }, Y: &Ident { N: a0 } })
    p.Phi(x3, PhiArm { Blk: 0, N: x1 }, PhiArm { Blk: 1, N: x2 })
    p.Call(&ProcConst { Proc: "getpid", Addr: 0x2000 }, nil, r1)
    proc := p.Build()
    ctx := NewEvalCtx(proc, nil, _FakeArch{})

    /* plain assignment yields its source */
    v, ok := ctx.ValueOf(x1)
    require.True(t, ok)
    require.Equal(t, int64(42), v.(*Const).V)

    /* idempotent without intervening mutation */
    w, ok := ctx.ValueOf(x1)
    require.True(t, ok)
    require.Equal(t, v.String(), w.String())

    /* phi definitions come back as the phi itself, unresolved */
    v, ok = ctx.ValueOf(x3)
    require.True(t, ok)
    require.IsType(t, (*Phi)(nil), v)
    require.Len(t, v.(*Phi).Args, 2)

    /* inputs and opaque definitions yield nothing */
    _, ok = ctx.ValueOf(a0)
    require.False(t, ok)
    _, ok = ctx.ValueOf(r1)
    require.False(t, ok)

    /* DefinitionOf skips the shape checks but still misses on opaque defs */
    e, ok := ctx.DefinitionOf(x2)
    require.True(t, ok)
    require.IsType(t, (*BinaryExpr)(nil), e)
    _, ok = ctx.DefinitionOf(r1)
    require.False(t, ok)
}

func TestEvalCtx_CallOpacity(t *testing.T) {
    proc := CreateBuilder().Build()
    ctx := NewEvalCtx(proc, nil, _FakeArch{})

    /* zero-argument call */
    a := &Apply { Proc: &ProcConst { Proc: "rand", Addr: 1 } }
    require.Same(t, a, ctx.ValueOfCall(a).(*Apply))

    /* opaque arguments */
    b := &Apply {
        Proc: &Ident { N: MkName(KindReg, 5) },
        Args: []Expr { &Mem { EA: &Const { V: 0x40 }, Size: 4 } },
    }
    require.Same(t, b, ctx.ValueOfCall(b).(*Apply))
}

func TestEvalCtx_ImportResolution(t *testing.T) {
    res := &_FakeResolver { imports: map[int64]string { 0x404000: "LoadLibraryA" } }
    p := CreateBuilder()
    st := p.Return()
    proc := p.Build()
    ctx := NewEvalCtx(proc, res, _FakeArch{})

    /* constant address matching an import resolves to the procedure */
    m := &Mem { EA: &Const { V: 0x404000 }, Size: 4 }
    v := ctx.ValueOfMem(st, m, nil)
    require.Equal(t, "LoadLibraryA", v.(*ProcConst).Proc)
    require.Equal(t, 1, res.calls)

    /* rejected constant stays a memory access */
    m = &Mem { EA: &Const { V: 0x11 }, Size: 4 }
    require.Same(t, m, ctx.ValueOfMem(st, m, nil).(*Mem))
    require.Equal(t, 2, res.calls)

    /* non-constant address never reaches the resolver */
    m = &Mem { EA: &Ident { N: MkName(KindReg, 0) }, Size: 4 }
    require.Same(t, m, ctx.ValueOfMem(st, m, nil).(*Mem))
    require.Equal(t, 2, res.calls)

    /* segmented accesses are never resolved */
    s := &SegMem { Seg: &Const { V: 0x10 }, Off: &Const { V: 0x404000 }, Size: 4 }
    require.Same(t, s, ctx.ValueOfSegMem(s, nil).(*SegMem))
    require.Equal(t, 2, res.calls)
}

func TestEvalCtx_MakeSegmentedAddress(t *testing.T) {
    proc := CreateBuilder().Build()
    ctx := NewEvalCtx(proc, nil, _FakeArch{})
    v := ctx.MakeSegmentedAddress(&Const { V: 0x10 }, &Const { V: 0x80 })
    require.Equal(t, int64(0x10), v.(*SegMem).Seg.(*Const).V)
    require.Equal(t, int64(0x80), v.(*SegMem).Off.(*Const).V)
}

func TestEvalCtx_WriteRejection(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    p := CreateBuilder()
    p.Assign(x1, &Const { V: 1 })
    proc := p.Build()
    ctx := NewEvalCtx(proc, nil, _FakeArch{})
    before := DumpProc(proc)

    /* every overload fails, with no observable mutation */
    err := ctx.BindName(x1, &Const { V: 2 })
    require.ErrorAs(t, err, new(UnsupportedError))
    err = ctx.BindAddr(&Const { V: 0x40 }, &Const { V: 2 })
    require.ErrorAs(t, err, new(UnsupportedError))
    err = ctx.BindAddrBase(x1, &Const { V: 0x40 }, &Const { V: 2 })
    require.ErrorAs(t, err, new(UnsupportedError))
    require.Equal(t, before, DumpProc(proc))
}

func TestEvalCtx_UseMaintenance(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    x2 := MkName(KindReg, 0).WithVersion(2)

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 3 })
    s2 := p.Assign(x2, &BinaryExpr { Op: OpAdd, X: &Ident { N: x1 }, Y: &Ident { N: x1 } })
    proc := p.Build()
    ctx := NewEvalCtx(proc, nil, _FakeArch{})
    requireTabSync(t, proc)

    /* rewrite s2 from "x1 + x1" to "x1 + 3": retire the old uses, swap
     * the slot, register the new ones, refresh the cached definition */
    old := s2.Ins.(*Assign).Src
    ctx.RemoveExprUse(s2, old)
    s2.Ins.(*Assign).Src = &BinaryExpr { Op: OpAdd, X: &Ident { N: x1 }, Y: &Const { V: 3 } }
    ctx.UseExpr(s2, s2.Ins.(*Assign).Src)
    proc.Recache(s2)
    require.Equal(t, 1, proc.Tab.UseCount(x1, s2.Id))
    requireTabSync(t, proc)

    /* nil statement: use tracking is a no-op */
    ctx.UseExpr(nil, &Ident { N: x1 })
    ctx.RemoveExprUse(nil, &Ident { N: x1 })
    ctx.AddUse(nil, x1)
    ctx.RemoveUse(nil, x1)
    requireTabSync(t, proc)
}
