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

    `github.com/brianvoe/gofakeit/v6`
    `github.com/stretchr/testify/require`
)

func TestValueProp_ConstAndCopyChains(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    x2 := MkName(KindReg, 0).WithVersion(2)
    x3 := MkName(KindReg, 0).WithVersion(3)

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 42 })
    p.Assign(x2, &Ident { N: x1 })
    s3 := p.Assign(x3, &BinaryExpr { Op: OpAdd, X: &Ident { N: x2 }, Y: &Ident { N: x2 } })
    s4 := p.Return(&Ident { N: x3 })
    proc := p.Build()

    Optimize(proc, NewEvalCtx(proc, nil, _FakeArch{}))

    /* the copy chain collapses to the constant at every use */
    src := s3.Ins.(*Assign).Src.(*BinaryExpr)
    require.Equal(t, int64(42), src.X.(*Const).V, DumpProc(proc))
    require.Equal(t, int64(42), src.Y.(*Const).V)

    /* x3 defines a compound expression, which never moves */
    require.Equal(t, x3, s4.Ins.(*Return).Vals[0].(*Ident).N)
    requireTabSync(t, proc)
}

func TestValueProp_DefinitionTracksRewrites(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    x2 := MkName(KindReg, 0).WithVersion(2)

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 9 })
    s2 := p.Assign(x2, &Ident { N: x1 })
    p.Return(&Ident { N: x2 })
    proc := p.Build()

    ctx := NewEvalCtx(proc, nil, _FakeArch{})
    Optimize(proc, ctx)

    /* the copy collapsed to the constant */
    src := s2.Ins.(*Assign).Src
    require.Equal(t, int64(9), src.(*Const).V, DumpProc(proc))

    /* the cached definition follows the rewrite: DefinitionOf and ValueOf
     * hand out the live source slot, not the retired copy */
    d, ok := ctx.DefinitionOf(x2)
    require.True(t, ok)
    require.Same(t, src, d)
    v, ok := ctx.ValueOf(x2)
    require.True(t, ok)
    require.Same(t, src, v)
    requireTabSync(t, proc)
}

func TestValueProp_PhiBlocksCopies(t *testing.T) {
    y1 := MkName(KindReg, 1).WithVersion(1)
    y2 := MkName(KindReg, 1).WithVersion(2)
    y3 := MkName(KindReg, 1).WithVersion(3)
    x1 := MkName(KindReg, 0).WithVersion(1)

    p := CreateBuilder()
    p.Assign(y1, &Const { V: 0 })
    p.Edge(0, 1)
    p.Block(1)
    p.Phi(y3, PhiArm { Blk: 0, N: y1 }, PhiArm { Blk: 1, N: y2 })
    p.Assign(x1, &Ident { N: y3 })
    p.Assign(y2, &BinaryExpr { Op: OpAdd, X: &Ident { N: y3 }, Y: &Const { V: 1 } })
    p.Branch(&Ident { N: x1 }, 1, 2)
    p.Block(2)
    s := p.Return(&Ident { N: x1 })
    proc := p.Build()

    Optimize(proc, NewEvalCtx(proc, nil, _FakeArch{}))

    /* x1 copies a phi-selected value: propagating it past the loop would
     * lose the copy, so the use stays untouched */
    require.Equal(t, x1, s.Ins.(*Return).Vals[0].(*Ident).N, DumpProc(proc))
    requireTabSync(t, proc)
}

func TestValueProp_ImportedCallTarget(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    res := &_FakeResolver { imports: map[int64]string { 0x404000: "VirtualAlloc" } }

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 1 })
    st := p.Call(&Mem { EA: &Const { V: 0x404000 }, Size: 4 }, []Expr { &Ident { N: x1 } })
    proc := p.Build()

    Optimize(proc, NewEvalCtx(proc, res, _FakeArch{}))

    /* the indirect call through the import slot becomes direct */
    require.Equal(t, "VirtualAlloc", st.Ins.(*Call).Fn.Proc.(*ProcConst).Proc, DumpProc(proc))
    requireTabSync(t, proc)
}

func TestValueProp_ApplyIsNeverFolded(t *testing.T) {
    x1 := MkName(KindReg, 0).WithVersion(1)
    x2 := MkName(KindReg, 0).WithVersion(2)

    p := CreateBuilder()
    p.Assign(x1, &Const { V: 7 })
    st := p.Assign(x2, &Apply {
        Proc: &ProcConst { Proc: "f", Addr: 0x1000 },
        Args: []Expr { &Ident { N: x1 } },
    })
    p.Return(&Ident { N: x2 })
    proc := p.Build()

    Optimize(proc, NewEvalCtx(proc, nil, _FakeArch{}))

    /* arguments propagate, the application itself stays put */
    require.IsType(t, (*Apply)(nil), st.Ins.(*Assign).Src)
    require.Equal(t, int64(7), st.Ins.(*Assign).Src.(*Apply).Args[0].(*Const).V)
    requireTabSync(t, proc)
}

// Randomized straight-line programs: whatever the pass rewrites, the
// recorded use-sets must match a full rescan of the statements.
func TestValueProp_UseSetSoundness(t *testing.T) {
    f := gofakeit.New(0x52454C54)

    for round := 0; round < 64; round++ {
        p := CreateBuilder()
        defined := make([]Name, 0, 24)

        /* random definition: const, copy, or binop over earlier names */
        for i := 0; i < 16; i++ {
            n := MkName(KindReg, i % 4).WithVersion(i / 4 + 1)
            switch k := f.Number(0, 2); {
                case k == 0 || len(defined) == 0: {
                    p.Assign(n, &Const { V: int64(f.Number(-100, 100)) })
                }
                case k == 1: {
                    p.Assign(n, &Ident { N: defined[f.Number(0, len(defined) - 1)] })
                }
                default: {
                    p.Assign(n, &BinaryExpr {
                        Op : OpAdd,
                        X  : &Ident { N: defined[f.Number(0, len(defined) - 1)] },
                        Y  : &Ident { N: defined[f.Number(0, len(defined) - 1)] },
                    })
                }
            }
            defined = append(defined, n)
        }

        /* keep everything observable */
        ret := make([]Expr, 0, len(defined))
        for _, n := range defined { ret = append(ret, &Ident { N: n }) }
        p.Return(ret...)

        /* propagate, then check the invariant the hard way */
        proc := p.Build()
        Optimize(proc, NewEvalCtx(proc, nil, _FakeArch{}))
        requireTabSync(t, proc)
    }
}
