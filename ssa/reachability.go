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
    `math`

    `gonum.org/v1/gonum/graph/path`
    `gonum.org/v1/gonum/graph/simple`
)

// FlowGraph is the block-level control-flow graph of one procedure, reduced
// to what the safety analysis needs: a non-empty-path reachability query.
// The all-pairs matrix is computed lazily and invalidated on edge insertion.
type FlowGraph struct {
    ok    bool
    dirty bool
    succ  map[int][]int
    loops map[int]bool
    paths path.AllShortest
}

func NewFlowGraph() *FlowGraph {
    return &FlowGraph {
        succ  : make(map[int][]int),
        loops : make(map[int]bool),
    }
}

func (self *FlowGraph) AddBlock(id int) {
    if _, ok := self.succ[id]; !ok {
        self.succ[id] = nil
        self.dirty = true
    }
}

func (self *FlowGraph) AddEdge(from int, to int) {
    self.AddBlock(from)
    self.AddBlock(to)
    self.dirty = true

    /* self loops are tracked separately, the path matrix ignores them */
    if from == to {
        self.loops[from] = true
    } else {
        self.succ[from] = append(self.succ[from], to)
    }
}

func (self *FlowGraph) rebuild() {
    g := simple.NewDirectedGraph()

    /* add every block */
    for id := range self.succ {
        if g.Node(int64(id)) == nil {
            g.AddNode(simple.Node(id))
        }
    }

    /* add every edge */
    for id, succ := range self.succ {
        for _, to := range succ {
            g.SetEdge(simple.Edge {
                F: simple.Node(id),
                T: simple.Node(to),
            })
        }
    }

    /* all-pairs shortest paths, unit weights */
    self.dirty = false
    self.paths, self.ok = path.FloydWarshall(g)
}

func (self *FlowGraph) finite(from int, to int) bool {
    return !math.IsInf(self.paths.Weight(int64(from), int64(to)), 1)
}

// Reachable reports whether a non-empty control-flow path leads from one
// block to another. A block reaches itself only through a cycle.
func (self *FlowGraph) Reachable(from int, to int) bool {
    if self.dirty {
        self.rebuild()
    }

    /* unknown blocks reach nothing */
    if !self.ok {
        return false
    } else if _, ok := self.succ[from]; !ok {
        return false
    } else if _, ok := self.succ[to]; !ok {
        return false
    }

    /* distinct blocks: consult the matrix directly */
    if from != to {
        return self.finite(from, to)
    }

    /* same block: either a self loop, or out and back through a cycle */
    if self.loops[from] {
        return true
    }
    for _, s := range self.succ[from] {
        if self.finite(s, from) {
            return true
        }
    }
    return false
}
