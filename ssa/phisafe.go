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

// IsUsedInPhi reports whether substituting the name's definition into a use
// site risks the lost-copy hazard: some free variable of the definition is
// itself selected by a phi whose operands may be overwritten between the
// definition and the point of use.
//
// The default test is coarse and conservative: any free variable defined by
// a phi counts as a hazard. With SetStrictPhiCheck the phi only counts when
// one of its operand definitions lies on a flow path from the source
// definition to the phi AND a path leads from that operand definition back
// to the source definition, i.e. the overwrite can actually interpose.
// The strict form trades blocked-but-safe propagations for a reachability
// query; the coarse form can only ever block, never unsoundly allow.
func (self *EvalCtx) IsUsedInPhi(n Name) bool {
    var asg *Assign
    var tab = self.proc.Tab

    /* nothing to check unless defined by a plain assignment to this name */
    if def := tab.DefiningStmt(n); def == StmtNone {
        return false
    } else if p, ok := self.proc.Seq.At(def).Ins.(*Assign); !ok || p.Dst.N != n {
        return false
    } else {
        asg = p
    }

    /* scan the free variables of the definition */
    for _, r := range identsof(asg.Src).ToSlice() {
        if !tab.Contains(r) {
            continue
        }

        /* skip inputs and non-phi definitions */
        d := tab.DefiningStmt(r)
        if d == StmtNone {
            continue
        }
        phi, ok := self.proc.Seq.At(d).Ins.(*PhiAssign)
        if !ok {
            continue
        }

        /* coarse mode: any phi-selected operand is a hazard */
        if !self.strict {
            return true
        }

        /* strict mode: require an interposing overwrite on an actual path */
        if self.phiHazard(tab.DefiningStmt(n), self.proc.Seq.At(d), phi) {
            return true
        }
    }
    return false
}

// phiHazard is the path-based refinement: for each phi operand, check that
// its definition can interpose between the source definition and the phi,
// and that control flow can return from it to the source definition.
func (self *EvalCtx) phiHazard(src StmtID, at *Stmt, phi *PhiAssign) bool {
    fg := self.proc.Flow
    if fg == nil {
        return true
    }

    /* block holding the definition being propagated */
    sb := self.proc.Seq.At(src).Blk

    /* examine every operand's definition site */
    for _, a := range phi.Phi.Args {
        if !self.proc.Tab.Contains(a.N) {
            continue
        }
        d := self.proc.Tab.DefiningStmt(a.N)
        if d == StmtNone {
            continue
        }

        /* overwrite on a src -> phi path, with a path back to src */
        ob := self.proc.Seq.At(d).Blk
        if reachesOrSame(fg, sb, ob) && reachesOrSame(fg, ob, at.Blk) && reachesOrSame(fg, ob, sb) {
            return true
        }
    }
    return false
}

func reachesOrSame(fg *FlowGraph, from int, to int) bool {
    return from == to || fg.Reachable(from, to)
}
